package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hemope/doador-api/internal/app/models"
	"github.com/hemope/doador-api/internal/db"
	"github.com/hemope/doador-api/internal/pkg/apperrors"
	"github.com/hemope/doador-api/internal/pkg/dberrors"
)

// Constraint names from migrations/001_init.sql
const (
	constraintUsersEmail   = "users_email_key"
	constraintUsersDonorID = "users_donor_id_key"
)

// IUserRepository defines the interface for account database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	DonorLinked(ctx context.Context, donorID int64) (bool, error)
	GetActiveProfile(ctx context.Context, id int64) (*models.UserProfile, error)
	UpdateLastLogin(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	AdminExists(ctx context.Context) (bool, error)
}

// UserRepository handles account database operations
type UserRepository struct {
	db db.DBTX
}

var _ IUserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository
func NewUserRepository(conn db.DBTX) *UserRepository {
	return &UserRepository{db: conn}
}

const userColumns = `id, email, password_hash, role, is_active, donor_id, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.DonorID,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts the account and fills ID and timestamps. Unique violations
// raised by a concurrent registration map to the same business errors as the
// pre-insert checks.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role, is_active, donor_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		user.Email, user.PasswordHash, user.Role, user.IsActive, user.DonorID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, constraintUsersEmail):
			return apperrors.ErrEmailAlreadyExists
		case dberrors.IsDuplicateConstraintError(err, constraintUsersDonorID):
			return apperrors.ErrDonorAlreadyLinked
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrDonorNotFound
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves an account by ID regardless of its active flag
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error fetching user %d: %w", id, err)
	}
	return u, nil
}

// GetByEmail retrieves an account by its (normalized) email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error fetching user by email: %w", err)
	}
	return u, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// DonorLinked reports whether an account already references donorID
func (r *UserRepository) DonorLinked(ctx context.Context, donorID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE donor_id = $1)`, donorID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking donor link: %w", err)
	}
	return exists, nil
}

// GetActiveProfile returns the account joined with its donor. Inactive
// accounts are reported as not found.
func (r *UserRepository) GetActiveProfile(ctx context.Context, id int64) (*models.UserProfile, error) {
	p := &models.UserProfile{}
	d, err := scanDonor(r.db.QueryRow(ctx, `
		SELECT d.id, d.codigo_doador, d.nome_completo, d.tipo_sanguineo, d.data_nascimento, d.sexo,
			d.telefone, d.email, d.cpf, d.rg, d.endereco, d.cidade, d.estado, d.cep, d.created_at, d.updated_at,
			u.id, u.email, u.role, u.is_active, u.last_login_at, u.created_at
		FROM users u
		INNER JOIN donors d ON d.id = u.donor_id
		WHERE u.id = $1 AND u.is_active = TRUE`, id),
		&p.ID, &p.Email, &p.Role, &p.IsActive, &p.LastLoginAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error fetching profile %d: %w", id, err)
	}
	p.Donor = *d
	return p, nil
}

// UpdateLastLogin stamps the account's last successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// SetActive activates or deactivates an account
func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("error updating user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// AdminExists reports whether any admin account exists
func (r *UserRepository) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE role = $1)`, models.RoleAdmin).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking admin account: %w", err)
	}
	return exists, nil
}
