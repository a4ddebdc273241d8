package main

import (
	"os"

	"github.com/hemope/doador-api/internal/pkg/logger"
	"github.com/hemope/doador-api/internal/server"
)

// @title HEMOPE Doador API
// @version 1.0
// @description Donor registry, accounts and spreadsheet imports for HEMOPE.

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Setup errors are already logged with detail by the bootstrap steps
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
