package main

import (
	"os"

	"github.com/yigit/bluecollar/internal/pkg/logger"
	"github.com/yigit/bluecollar/internal/server"
)

// @title BlueCollar API
// @version 1.0
// @description Job board and community API for blue collar workers and employers
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@bluecollar.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT issued by the identity provider, sent as "Bearer <token>"

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// setup functions already logged the details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
