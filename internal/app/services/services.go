package services

import (
	"context"
	"io"

	"github.com/hemope/doador-api/internal/app/models"
	"github.com/hemope/doador-api/internal/app/models/dto"
	"github.com/hemope/doador-api/internal/pkg/auth"
)

// Services defined in this package:
// - AuthService: registration against an existing donor code and login
// - UserService: the authenticated account's profile, donor card and admin status changes
// - DonorService: donor lookups by donor code
// - ImportService: spreadsheet imports and their audit log

// IAuthService is consumed by the auth controller and middleware
type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	VerifyToken(token string) (*auth.Claims, error)
}

// IUserService is consumed by the user and admin controllers
type IUserService interface {
	GetMe(ctx context.Context, userID int64) (*models.UserProfile, error)
	CardPNG(ctx context.Context, userID int64, size int) ([]byte, error)
	SetActive(ctx context.Context, actorID, userID int64, active bool) error
}

// IDonorService is consumed by the donor controller
type IDonorService interface {
	GetByCodigo(ctx context.Context, codigo string) (*models.Donor, error)
}

// IImportService is consumed by the upload controller
type IImportService interface {
	ProcessFile(ctx context.Context, path, filename string, importedBy *int64) (*dto.ImportSummary, error)
	Process(ctx context.Context, r io.Reader, filename string, importedBy *int64) (*dto.ImportSummary, error)
	ListLogs(ctx context.Context, limit int) ([]models.ImportLog, error)
	GetLog(ctx context.Context, id int64) (*models.ImportLog, error)
	Template() ([]byte, error)
}
