package main

import (
	"context"
	"os"

	"github.com/yigit/hirelytics/internal/pkg/logger"
	"github.com/yigit/hirelytics/internal/server"
)

// @title Hirelytics API
// @version 1.0
// @description Placement analytics for colleges: dataset management, placement prediction and resume tools.

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token returned by the login endpoints

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
