package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemope/doador-api/internal/app/models"
	"github.com/hemope/doador-api/internal/pkg/apperrors"
)

const insertUserSQL = `INSERT INTO users \(email, password_hash, role, is_active, donor_id\) VALUES \(\$1, \$2, \$3, \$4, \$5\) RETURNING id, created_at, updated_at`

func newUser() *models.User {
	return &models.User{
		Email:        "ana@example.com",
		PasswordHash: "hash",
		Role:         models.RoleUser,
		IsActive:     true,
		DonorID:      7,
	}
}

func TestUserRepository_Create(t *testing.T) {
	mock := newMock(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(insertUserSQL).
		WithArgs("ana@example.com", "hash", models.RoleUser, true, int64(7)).
		WillReturnRows(mock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(3), now, now))

	user := newUser()
	require.NoError(t, NewUserRepository(mock).Create(context.Background(), user))
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, now, user.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateConstraintErrors(t *testing.T) {
	tests := []struct {
		name  string
		pgErr *pgconn.PgError
		want  error
	}{
		{"duplicate email", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, apperrors.ErrEmailAlreadyExists},
		{"donor already linked", &pgconn.PgError{Code: "23505", ConstraintName: "users_donor_id_key"}, apperrors.ErrDonorAlreadyLinked},
		{"missing donor", &pgconn.PgError{Code: "23503", ConstraintName: "users_donor_id_fkey"}, apperrors.ErrDonorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectQuery(insertUserSQL).WillReturnError(tt.pgErr)

			err := NewUserRepository(mock).Create(context.Background(), newUser())
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("unknown unique constraint stays a database error", func(t *testing.T) {
		mock := newMock(t)
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_other_key"}
		mock.ExpectQuery(insertUserSQL).WillReturnError(pgErr)

		err := NewUserRepository(mock).Create(context.Background(), newUser())
		assert.ErrorIs(t, err, pgErr)
	})
}

func TestUserRepository_SetActive(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`UPDATE users SET is_active = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(false, int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewUserRepository(mock).SetActive(context.Background(), 99, false)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
