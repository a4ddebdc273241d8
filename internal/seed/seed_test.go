package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hemope/doador-api/internal/app/models"
	"github.com/hemope/doador-api/internal/app/repositories"
	"github.com/hemope/doador-api/internal/pkg/auth"
)

func TestMain(m *testing.M) {
	auth.BcryptCost = bcrypt.MinCost
	m.Run()
}

type stubUsers struct {
	repositories.IUserRepository
	adminExists bool
	existsErr   error
	created     []*models.User
}

func (s *stubUsers) AdminExists(context.Context) (bool, error) {
	return s.adminExists, s.existsErr
}

func (s *stubUsers) Create(_ context.Context, u *models.User) error {
	u.ID = int64(len(s.created) + 1)
	s.created = append(s.created, u)
	return nil
}

type stubDonors struct {
	repositories.IDonorRepository
	records []models.DonorRecord
	err     error
}

func (s *stubDonors) Upsert(_ context.Context, rec models.DonorRecord) (*models.Donor, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	s.records = append(s.records, rec)
	return &models.Donor{ID: 42, CodigoDoador: rec.CodigoDoador}, true, nil
}

func TestCreateAdmin(t *testing.T) {
	creds := AdminCredentials{Email: " Admin@HEMOPE.pe.gov.br ", Password: "admin123"}

	t.Run("creates donor and account", func(t *testing.T) {
		users, donors := &stubUsers{}, &stubDonors{}

		created, err := CreateAdmin(context.Background(), users, donors, creds)
		require.NoError(t, err)
		assert.True(t, created)

		require.Len(t, donors.records, 1)
		assert.Equal(t, AdminDonorCode, donors.records[0].CodigoDoador)
		assert.Equal(t, AdminDonorName, donors.records[0].NomeCompleto)
		assert.Equal(t, AdminBloodGroup, donors.records[0].TipoSanguineo)

		require.Len(t, users.created, 1)
		u := users.created[0]
		assert.Equal(t, "admin@hemope.pe.gov.br", u.Email)
		assert.Equal(t, models.RoleAdmin, u.Role)
		assert.True(t, u.IsActive)
		assert.Equal(t, int64(42), u.DonorID)
		assert.True(t, auth.CheckPassword(u.PasswordHash, "admin123"))
	})

	t.Run("admin already present", func(t *testing.T) {
		users, donors := &stubUsers{adminExists: true}, &stubDonors{}

		created, err := CreateAdmin(context.Background(), users, donors, creds)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Empty(t, donors.records)
		assert.Empty(t, users.created)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := CreateAdmin(context.Background(), &stubUsers{}, &stubDonors{},
			AdminCredentials{Email: "not-an-email", Password: "x"})
		assert.Error(t, err)
	})

	t.Run("repository errors propagate", func(t *testing.T) {
		boom := errors.New("boom")

		_, err := CreateAdmin(context.Background(), &stubUsers{existsErr: boom}, &stubDonors{}, creds)
		assert.ErrorIs(t, err, boom)

		users := &stubUsers{}
		_, err = CreateAdmin(context.Background(), users, &stubDonors{err: boom}, creds)
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, users.created)
	})
}

type stubTransactor struct {
	users  *stubUsers
	donors *stubDonors
	calls  int
}

func (s *stubTransactor) WithinTransaction(ctx context.Context, fn repositories.TxFunc) error {
	s.calls++
	return fn(ctx, s.users, s.donors)
}

func TestCreateDefaultData(t *testing.T) {
	creds := AdminCredentials{Email: "admin@hemope.pe.gov.br", Password: "admin123"}

	t.Run("runs inside the transaction", func(t *testing.T) {
		tx := &stubTransactor{users: &stubUsers{}, donors: &stubDonors{}}
		require.NoError(t, CreateDefaultData(context.Background(), tx, creds, zerolog.Nop()))
		assert.Equal(t, 1, tx.calls)
		assert.Len(t, tx.users.created, 1)
	})

	t.Run("empty password skips seeding", func(t *testing.T) {
		tx := &stubTransactor{users: &stubUsers{}, donors: &stubDonors{}}
		require.NoError(t, CreateDefaultData(context.Background(), tx, AdminCredentials{Email: creds.Email}, zerolog.Nop()))
		assert.Zero(t, tx.calls)
	})
}
