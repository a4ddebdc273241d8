package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/hemope/doador-api/internal/app/controllers"
	appMigrations "github.com/hemope/doador-api/internal/app/migrations"
	appRepos "github.com/hemope/doador-api/internal/app/repositories"
	appRoutes "github.com/hemope/doador-api/internal/app/routes"
	appServices "github.com/hemope/doador-api/internal/app/services"
	"github.com/hemope/doador-api/internal/config"
	"github.com/hemope/doador-api/internal/db"
	appMiddleware "github.com/hemope/doador-api/internal/middleware"
	pkgAuth "github.com/hemope/doador-api/internal/pkg/auth"
	"github.com/hemope/doador-api/internal/pkg/filestorage"
	"github.com/hemope/doador-api/internal/pkg/logger"
	"github.com/hemope/doador-api/internal/pkg/metrics"
	"github.com/hemope/doador-api/internal/seed"
)

const migrationsDir = "migrations"

var _ appMiddleware.TokenVerifier = appServices.IAuthService(nil)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService      appServices.IAuthService
	UserService      appServices.IUserService
	DonorService     appServices.IDonorService
	ImportService    appServices.IImportService
	AuthController   *appControllers.AuthController
	UserController   *appControllers.UserController
	DonorController  *appControllers.DonorController
	UploadController *appControllers.UploadController
	AdminController  *appControllers.AdminController
	AuthMiddleware   *appMiddleware.AuthMiddleware
	RateLimiter      *appMiddleware.RateLimiter
	Repos            *appRepos.Repositories
	JWTService       *pkgAuth.JWTService
	Metrics          *metrics.Metrics
	FileStorage      *filestorage.LocalStorage
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr.Info().
		Str("logLevel", logger.ParseLevel(cfg.Logging.Level).String()).
		Str("logFormat", cfg.Logging.Format).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the connection pool, applies migrations and
// seeds the default admin account.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool, lgr).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	creds := seed.AdminCredentials{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword}
	if err := seed.CreateDefaultData(ctx, appRepos.NewTransactor(database), creds, lgr); err != nil {
		// Startup continues; an admin can still be created by a later run
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.UploadDir, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Metrics = metrics.New()
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    cfg.JWTExpiration(),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.Repos.DonorRepository, appRepos.NewTransactor(database), deps.JWTService, lgr)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, lgr)
	deps.DonorService = appServices.NewDonorService(deps.Repos.DonorRepository)
	deps.ImportService = appServices.NewImportService(deps.Repos.DonorRepository, deps.Repos.ImportLogRepository, deps.Metrics, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)
	deps.RateLimiter = appMiddleware.NewRateLimiter(cfg.RateLimitWindow(), cfg.RateLimit.MaxRequests)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService, lgr)
	deps.DonorController = appControllers.NewDonorController(deps.DonorService)
	deps.UploadController = appControllers.NewUploadController(deps.ImportService, deps.FileStorage, cfg.Server.MaxFileSize, lgr)
	deps.AdminController = appControllers.NewAdminController(deps.UserService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Metrics(deps.Metrics),
		appMiddleware.SecurityHeaders(),
		appMiddleware.CORS(cfg.Server.CORSOrigin),
	)

	if !cfg.IsProduction() {
		appRoutes.SetupSwagger(router)
	}
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	appRoutes.SetupRouter(router,
		appRoutes.Controllers{
			Auth:   deps.AuthController,
			User:   deps.UserController,
			Donor:  deps.DonorController,
			Upload: deps.UploadController,
			Admin:  deps.AdminController,
		},
		deps.AuthMiddleware,
		deps.RateLimiter,
	)

	return router
}
