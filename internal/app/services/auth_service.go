package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hemope/doador-api/internal/app/importer"
	"github.com/hemope/doador-api/internal/app/models"
	"github.com/hemope/doador-api/internal/app/models/dto"
	"github.com/hemope/doador-api/internal/app/repositories"
	"github.com/hemope/doador-api/internal/pkg/apperrors"
	"github.com/hemope/doador-api/internal/pkg/auth"
	"github.com/hemope/doador-api/internal/pkg/validation"
)

// AuthService handles registration and login
type AuthService struct {
	userRepo   repositories.IUserRepository
	donorRepo  repositories.IDonorRepository
	tx         repositories.Transactor
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

var _ IAuthService = (*AuthService)(nil)

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	donorRepo repositories.IDonorRepository,
	tx repositories.Transactor,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		donorRepo:  donorRepo,
		tx:         tx,
		jwtService: jwtService,
		logger:     logger,
	}
}

// validateRegistration checks the request before anything is written
func validateRegistration(req *dto.RegisterRequest) error {
	var errs dto.ValidationErrors
	if validation.IsBlank(req.Email) {
		errs.AddError("email", "email is required")
	} else if !validation.IsEmail(req.Email) {
		errs.AddError("email", "email must be a valid address")
	}
	if req.Password == "" {
		errs.AddError("password", "password is required")
	} else if !validation.IsPassword(req.Password) {
		errs.AddError("password", fmt.Sprintf("password must be at least %d characters long", validation.PasswordMinLength))
	}
	if validation.IsBlank(req.CodigoDoador) {
		errs.AddError("codigo_doador", "donor code is required")
	}

	if !errs.HasErrors() {
		return nil
	}
	first := errs.Errors[0]
	return apperrors.NewValidationError(first.Field, first.Message).WithDetails(errs.Errors)
}

// Register creates an account linked to an existing, unlinked donor
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	email := validation.NormalizeEmail(req.Email)
	codigo := strings.TrimSpace(req.CodigoDoador)

	donor, err := s.donorRepo.GetByCodigo(ctx, codigo)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrDonorNotFound
		}
		return nil, fmt.Errorf("error checking donor code: %w", err)
	}

	linked, err := s.userRepo.DonorLinked(ctx, donor.ID)
	if err != nil {
		return nil, err
	}
	if linked {
		return nil, apperrors.ErrDonorAlreadyLinked
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
		DonorID:      donor.ID,
	}

	// The donor enrichment is only kept if the account insert succeeds.
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, users repositories.IUserRepository, donors repositories.IDonorRepository) error {
		if upd := enrichment(req); !upd.IsEmpty() {
			if err := donors.Update(ctx, donor.ID, upd); err != nil {
				return fmt.Errorf("error updating donor data: %w", err)
			}
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("codigo_doador", codigo).
		Msg("Account registered")

	return s.authResponse(ctx, user)
}

// enrichment collects the non-empty donor attributes sent on signup. Date
// and sex values go through the import normalizers and are dropped when
// they do not normalize.
func enrichment(req *dto.RegisterRequest) models.DonorUpdate {
	text := func(s string) *string {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		return &s
	}

	upd := models.DonorUpdate{
		NomeCompleto:  text(req.NomeCompleto),
		TipoSanguineo: text(req.TipoSanguineo),
		Telefone:      text(req.Telefone),
		Email:         text(req.DonorEmail),
		CPF:           text(req.CPF),
		RG:            text(req.RG),
		Endereco:      text(req.Endereco),
		Cidade:        text(req.Cidade),
		Estado:        text(req.Estado),
		CEP:           text(req.CEP),
	}
	if d, ok := importer.NormalizeDate(req.DataNascimento); ok {
		upd.DataNascimento = &d
	}
	if sx, ok := importer.NormalizeSex(req.Sexo); ok {
		upd.Sexo = &sx
	}
	return upd
}

// Login authenticates an account. Unknown emails and wrong passwords fail
// with the same error.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := validation.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("Failed to record last login")
	}

	return s.authResponse(ctx, user)
}

// VerifyToken validates a bearer token and returns its claims
func (s *AuthService) VerifyToken(token string) (*auth.Claims, error) {
	return s.jwtService.ValidateToken(token)
}

func (s *AuthService) authResponse(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	profile, err := s.userRepo.GetActiveProfile(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading donor data: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &dto.AuthResponse{User: profile, Token: token}, nil
}
