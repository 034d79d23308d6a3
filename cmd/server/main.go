// Command server runs the sightings API.
//
// Configuration comes from the environment (and an optional .env file in
// the working directory); see internal/config for the keys.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/sightings/internal/config"
	"github.com/sakif/sightings/internal/server"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := cfg.Logger(os.Stdout)
	slog.SetDefault(logger)

	// Ensure the data directory exists for file databases.
	if cfg.DatabaseURI != ":memory:" {
		dbDir := filepath.Dir(cfg.DatabaseURI)
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
