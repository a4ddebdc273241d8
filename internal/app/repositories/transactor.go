package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/hemope/doador-api/internal/db"
)

// TxFunc receives account and donor repositories bound to one transaction.
type TxFunc func(ctx context.Context, users IUserRepository, donors IDonorRepository) error

// Transactor runs a unit of work atomically
type Transactor interface {
	WithinTransaction(ctx context.Context, fn TxFunc) error
}

// PgTransactor runs units of work inside a pgx transaction
type PgTransactor struct {
	db *db.PostgresDB
}

var _ Transactor = (*PgTransactor)(nil)

// NewTransactor creates a Transactor over the shared pool
func NewTransactor(pg *db.PostgresDB) *PgTransactor {
	return &PgTransactor{db: pg}
}

// WithinTransaction commits when fn succeeds and rolls back otherwise.
func (t *PgTransactor) WithinTransaction(ctx context.Context, fn TxFunc) error {
	return t.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repos := NewRepositories(tx)
		return fn(ctx, repos.UserRepository, repos.DonorRepository)
	})
}
