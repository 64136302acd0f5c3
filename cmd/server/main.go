// Package main is the entry point for the SkillHub API server.
//
// main stays minimal:
//  1. Read configuration (environment, optional .env)
//  2. Build the logger
//  3. Create and start the server
//
// Everything else lives under internal/.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/IsmaelKabore/SkillHub/internal/config"
	"github.com/IsmaelKabore/SkillHub/internal/logging"
	"github.com/IsmaelKabore/SkillHub/internal/server"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// === 1. READ CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		// no logger yet: configuration decides where logs go
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	// === 2. SET UP LOGGING ===
	// stdout always; LOG_FILE adds a second sink with the same lines.
	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer closeLog()

	// === 3. CREATE AND START THE SERVER ===
	srv, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		return err
	}

	// Start blocks until SIGINT/SIGTERM or a listener error.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		return err
	}

	return nil
}
