package main

import (
	"log/slog"
	"net/http"
	"os"

	"workforce/clock"
	"workforce/config"
	"workforce/database"
	"workforce/middleware"
	"workforce/router"
	"workforce/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Initialize JWT secret
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Initialize database
	if err := database.Init(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.DatabaseLogLevel); err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	svc := services.New(database.NewStore(database.GetDB()), clock.Real(cfg.Location), logger)
	handler := router.New(cfg, svc)

	logger.Info("server starting", "port", cfg.ServerPort, "driver", cfg.DatabaseDriver, "timezone", cfg.Location.String())
	if cfg.BootstrapAdminToken == "" {
		logger.Warn("BOOTSTRAP_ADMIN_TOKEN is not set, admin bootstrap is disabled")
	}
	if err := http.ListenAndServe(":"+cfg.ServerPort, handler); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
