package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hemope/doador-api/internal/app/models"
	"github.com/hemope/doador-api/internal/db"
	"github.com/hemope/doador-api/internal/pkg/apperrors"
)

// IImportLogRepository defines import audit persistence
type IImportLogRepository interface {
	Create(ctx context.Context, log *models.ImportLog) error
	List(ctx context.Context, limit int) ([]models.ImportLog, error)
	GetByID(ctx context.Context, id int64) (*models.ImportLog, error)
}

// ImportLogRepository stores one immutable record per spreadsheet import
type ImportLogRepository struct {
	db db.DBTX
}

var _ IImportLogRepository = (*ImportLogRepository)(nil)

// NewImportLogRepository creates a new ImportLogRepository
func NewImportLogRepository(conn db.DBTX) *ImportLogRepository {
	return &ImportLogRepository{db: conn}
}

// Create inserts the record. An empty error list is stored as NULL.
func (r *ImportLogRepository) Create(ctx context.Context, log *models.ImportLog) error {
	var payload []byte
	if len(log.Errors) > 0 {
		var err error
		if payload, err = json.Marshal(log.Errors); err != nil {
			return fmt.Errorf("error encoding import errors: %w", err)
		}
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO import_logs (filename, total_rows, successful_imports, failed_imports, errors, imported_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		log.Filename, log.TotalRows, log.SuccessfulImports, log.FailedImports, payload, log.ImportedBy,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating import log: %w", err)
	}
	return nil
}

const importLogSelect = `
	SELECT l.id, l.filename, l.total_rows, l.successful_imports, l.failed_imports, l.errors,
		l.imported_by, u.email, l.created_at
	FROM import_logs l
	LEFT JOIN users u ON u.id = l.imported_by`

func scanImportLog(row pgx.Row) (*models.ImportLog, error) {
	l := &models.ImportLog{}
	var payload []byte
	if err := row.Scan(&l.ID, &l.Filename, &l.TotalRows, &l.SuccessfulImports, &l.FailedImports,
		&payload, &l.ImportedBy, &l.ImportedByEmail, &l.CreatedAt); err != nil {
		return nil, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &l.Errors); err != nil {
			return nil, fmt.Errorf("error decoding import errors: %w", err)
		}
	}
	return l, nil
}

// List returns the most recent records first
func (r *ImportLogRepository) List(ctx context.Context, limit int) ([]models.ImportLog, error) {
	rows, err := r.db.Query(ctx, importLogSelect+` ORDER BY l.created_at DESC, l.id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing import logs: %w", err)
	}
	defer rows.Close()

	logs := make([]models.ImportLog, 0)
	for rows.Next() {
		l, err := scanImportLog(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning import log: %w", err)
		}
		logs = append(logs, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import logs: %w", err)
	}
	return logs, nil
}

// GetByID retrieves a single record
func (r *ImportLogRepository) GetByID(ctx context.Context, id int64) (*models.ImportLog, error) {
	l, err := scanImportLog(r.db.QueryRow(ctx, importLogSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error fetching import log %d: %w", id, err)
	}
	return l, nil
}
