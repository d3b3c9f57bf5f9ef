// Package main is the entry point for the account service.
//
// main stays minimal: load config, build the logger, hand everything to
// internal/server. All actual logic lives in the imported packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/sakif/account-service/internal/server"
)

// config is parsed from the environment via struct tags.
//
// A .env file in the working directory is loaded first (convenient in
// development); real environment variables always win over it.
type config struct {
	Port           int        `env:"PORT" envDefault:"8000"`
	DBPath         string     `env:"DB_PATH" envDefault:"data/accounts.db"`
	LogLevel       slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins []string   `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	BcryptCost     int        `env:"BCRYPT_COST" envDefault:"0"` // 0 = production default
}

func main() {
	// Missing .env is fine — containers and CI set real env vars.
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// Ensure the directory for the database file exists, like `mkdir -p`.
	if dbDir := filepath.Dir(cfg.DBPath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		DBPath:         cfg.DBPath,
		AllowedOrigins: cfg.AllowedOrigins,
		BcryptCost:     cfg.BcryptCost,
	}, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
