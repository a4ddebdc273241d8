package services

import (
	"context"
	"errors"
	"strings"

	"github.com/hemope/doador-api/internal/app/models"
	"github.com/hemope/doador-api/internal/app/repositories"
	"github.com/hemope/doador-api/internal/pkg/apperrors"
)

// DonorService serves donor lookups
type DonorService struct {
	donorRepo repositories.IDonorRepository
}

var _ IDonorService = (*DonorService)(nil)

// NewDonorService creates a new DonorService
func NewDonorService(donorRepo repositories.IDonorRepository) *DonorService {
	return &DonorService{donorRepo: donorRepo}
}

// GetByCodigo returns the donor with the given donor code
func (s *DonorService) GetByCodigo(ctx context.Context, codigo string) (*models.Donor, error) {
	codigo = strings.TrimSpace(codigo)
	if codigo == "" {
		return nil, apperrors.NewValidationError("codigo", "donor code is required")
	}

	donor, err := s.donorRepo.GetByCodigo(ctx, codigo)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("donor not found")
		}
		return nil, err
	}
	return donor, nil
}
