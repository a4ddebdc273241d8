package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/hemope/doador-api/internal/app/importer"
	"github.com/hemope/doador-api/internal/app/models"
	"github.com/hemope/doador-api/internal/app/models/dto"
	"github.com/hemope/doador-api/internal/app/repositories"
	"github.com/hemope/doador-api/internal/pkg/apperrors"
	"github.com/hemope/doador-api/internal/pkg/metrics"
)

// ImportService loads donor spreadsheets and records every run
type ImportService struct {
	donorRepo repositories.IDonorRepository
	logRepo   repositories.IImportLogRepository
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

var _ IImportService = (*ImportService)(nil)

// NewImportService creates a new ImportService. m may be nil.
func NewImportService(
	donorRepo repositories.IDonorRepository,
	logRepo repositories.IImportLogRepository,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *ImportService {
	return &ImportService{
		donorRepo: donorRepo,
		logRepo:   logRepo,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessFile imports the workbook stored at path
func (s *ImportService) ProcessFile(ctx context.Context, path, filename string, importedBy *int64) (*dto.ImportSummary, error) {
	sheet, err := importer.ReadFile(path)
	if err != nil {
		s.metrics.ImportRejected()
		return nil, err
	}
	return s.run(ctx, sheet, filename, importedBy)
}

// Process imports a workbook read from r
func (s *ImportService) Process(ctx context.Context, r io.Reader, filename string, importedBy *int64) (*dto.ImportSummary, error) {
	sheet, err := importer.ReadSheet(r)
	if err != nil {
		s.metrics.ImportRejected()
		return nil, err
	}
	return s.run(ctx, sheet, filename, importedBy)
}

// run upserts every row, collecting row failures instead of aborting, then
// writes a single audit record.
func (s *ImportService) run(ctx context.Context, sheet *importer.Sheet, filename string, importedBy *int64) (*dto.ImportSummary, error) {
	started := s.now()
	result := importer.NewResult(len(sheet.Rows))

	for _, row := range sheet.Rows {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("import of %s interrupted: %w", filename, err)
		}

		rec, err := importer.MapRow(row)
		if err != nil {
			result.Failed(row, err)
			continue
		}

		if _, inserted, err := s.donorRepo.Upsert(ctx, rec); err != nil {
			s.logger.Warn().Err(err).Int("row", row.Number).Str("codigo_doador", rec.CodigoDoador).Msg("Donor row rejected")
			msg := "failed to save donor"
			if errors.Is(err, apperrors.ErrValidationFailed) {
				msg = apperrors.MessageOf(err, msg)
			}
			result.Failed(row, errors.New(msg))
		} else {
			result.Succeeded(inserted)
		}
	}

	entry := &models.ImportLog{
		Filename:          filename,
		TotalRows:         result.TotalRows,
		SuccessfulImports: result.Successful,
		FailedImports:     result.Failures(),
		Errors:            result.Errors,
		ImportedBy:        importedBy,
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("error recording import: %w", err)
	}

	elapsed := s.now().Sub(started)
	s.metrics.ImportCompleted(result.Successful, result.Failures(), elapsed)
	s.logger.Info().
		Str("filename", filename).
		Int64("import_log_id", entry.ID).
		Int("total_rows", result.TotalRows).
		Int("inserted", result.Inserted).
		Int("updated", result.Updated).
		Int("failed", result.Failures()).
		Dur("elapsed", elapsed).
		Msg("Spreadsheet imported")

	return &dto.ImportSummary{
		TotalRows:         result.TotalRows,
		SuccessfulImports: result.Successful,
		FailedImports:     result.Failures(),
		Errors:            result.Errors,
	}, nil
}

// ListLogs returns the most recent import runs
func (s *ImportService) ListLogs(ctx context.Context, limit int) ([]models.ImportLog, error) {
	return s.logRepo.List(ctx, limit)
}

// GetLog returns one import run
func (s *ImportService) GetLog(ctx context.Context, id int64) (*models.ImportLog, error) {
	entry, err := s.logRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("import log not found")
		}
		return nil, err
	}
	return entry, nil
}

// Template returns the import template workbook
func (s *ImportService) Template() ([]byte, error) {
	return importer.Template()
}
