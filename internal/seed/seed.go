// Package seed creates the data a fresh installation needs to be usable.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hemope/doador-api/internal/app/models"
	"github.com/hemope/doador-api/internal/app/repositories"
	"github.com/hemope/doador-api/internal/pkg/auth"
	"github.com/hemope/doador-api/internal/pkg/validation"
)

// Donor record owned by the bootstrap admin account.
const (
	AdminDonorCode  = "ADMIN001"
	AdminDonorName  = "Administrador do Sistema"
	AdminBloodGroup = "O+"
)

// AdminCredentials are read from the seed section of the configuration.
type AdminCredentials struct {
	Email    string
	Password string
}

// CreateDefaultData creates the admin donor and account when no admin exists.
// Nothing is created when the password is empty.
func CreateDefaultData(ctx context.Context, tx repositories.Transactor, creds AdminCredentials, lgr zerolog.Logger) error {
	if creds.Password == "" {
		lgr.Warn().Msg("Seed admin password not set, skipping default admin creation")
		return nil
	}

	return tx.WithinTransaction(ctx, func(ctx context.Context, users repositories.IUserRepository, donors repositories.IDonorRepository) error {
		created, err := CreateAdmin(ctx, users, donors, creds)
		if err != nil {
			return err
		}
		if created {
			lgr.Info().Str("email", validation.NormalizeEmail(creds.Email)).Msg("Default admin account created")
		} else {
			lgr.Debug().Msg("Admin account already present, seed skipped")
		}
		return nil
	})
}

// CreateAdmin upserts the admin donor and links a new admin account to it.
// It reports false when an admin already exists.
func CreateAdmin(ctx context.Context, users repositories.IUserRepository, donors repositories.IDonorRepository, creds AdminCredentials) (bool, error) {
	exists, err := users.AdminExists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	email := validation.NormalizeEmail(creds.Email)
	if !validation.IsEmail(email) {
		return false, fmt.Errorf("invalid seed admin email %q", creds.Email)
	}

	donor, _, err := donors.Upsert(ctx, models.DonorRecord{
		CodigoDoador:  AdminDonorCode,
		NomeCompleto:  AdminDonorName,
		TipoSanguineo: AdminBloodGroup,
	})
	if err != nil {
		return false, fmt.Errorf("error creating admin donor: %w", err)
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		return false, fmt.Errorf("error hashing admin password: %w", err)
	}

	err = users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
		DonorID:      donor.ID,
	})
	if err != nil {
		return false, fmt.Errorf("error creating admin account: %w", err)
	}
	return true, nil
}
