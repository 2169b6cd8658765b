// Command devtoken signs a bearer token with the configured JWT secret so the
// API can be exercised locally without the identity provider.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yigit/bluecollar/internal/app/models"
	"github.com/yigit/bluecollar/internal/config"
	"github.com/yigit/bluecollar/internal/pkg/auth"
	"github.com/yigit/bluecollar/internal/pkg/helpers"
	"github.com/yigit/bluecollar/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", config.GetEnv("CONFIG_PATH", "configs/config.yaml"), "path to config.yaml")
	userID := flag.String("user", "", "subject user id")
	role := flag.String("role", string(models.RoleWorker), "worker or employer")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "usage: devtoken -user <id> [-role worker|employer]")
		os.Exit(2)
	}
	if !models.RoleType(*role).IsValid() {
		logger.Error().Str("role", *role).Msg("Role must be worker or employer")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 24*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	token, err := jwtService.GenerateToken(*userID, models.RoleType(*role))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to sign token")
		os.Exit(1)
	}
	fmt.Println(token)
}
