package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hemope/doador-api/internal/app/models"
	"github.com/hemope/doador-api/internal/app/repositories"
	"github.com/hemope/doador-api/internal/pkg/apperrors"
	"github.com/hemope/doador-api/internal/pkg/qrcard"
)

// UserService serves the authenticated account and admin account management
type UserService struct {
	userRepo repositories.IUserRepository
	logger   zerolog.Logger
}

var _ IUserService = (*UserService)(nil)

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.IUserRepository, logger zerolog.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// GetMe returns the account joined with its donor. Inactive accounts are not found.
func (s *UserService) GetMe(ctx context.Context, userID int64) (*models.UserProfile, error) {
	if userID <= 0 {
		return nil, apperrors.ErrUserNotFound
	}
	return s.userRepo.GetActiveProfile(ctx, userID)
}

// CardPNG renders the QR code of the account's donor card
func (s *UserService) CardPNG(ctx context.Context, userID int64, size int) ([]byte, error) {
	profile, err := s.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}
	png, err := qrcard.PNG(profile.Donor.CodigoDoador, size)
	if err != nil {
		return nil, fmt.Errorf("error rendering donor card: %w", err)
	}
	return png, nil
}

// SetActive activates or deactivates an account. Admins cannot deactivate themselves.
func (s *UserService) SetActive(ctx context.Context, actorID, userID int64, active bool) error {
	if actorID == userID && !active {
		return apperrors.NewValidationError("active", "you cannot deactivate your own account")
	}
	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return err
	}

	s.logger.Info().
		Int64("actor_id", actorID).
		Int64("user_id", userID).
		Bool("active", active).
		Msg("Account status changed")
	return nil
}
