// Package cli provides common CLI initialization utilities for cmd/cardspend.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/epalmerini/cardspend/internal/config"
	"github.com/epalmerini/cardspend/internal/settings"
	settingsfile "github.com/epalmerini/cardspend/internal/settings/file"
	settingsdb "github.com/epalmerini/cardspend/internal/settings/sqlite"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitSettingsStore selects and initializes the settings backend.
// Returns the store or exits the process on failure.
func InitSettingsStore(logger *slog.Logger, cfg *config.Config) settings.Store {
	defaults := settings.Settings{
		StartDate: cfg.DefaultStartDate,
		EndDate:   cfg.DefaultEndDate,
	}

	switch cfg.SettingsBackend {
	case "sqlite":
		store, err := settingsdb.New(cfg.SQLiteDBPath, defaults)
		if err != nil {
			logger.Error("Failed to initialize SQLite settings store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		logger.Info("Initialized SQLite settings backend", "path", cfg.SQLiteDBPath)
		return store
	default:
		logger.Info("Initialized file settings backend", "path", cfg.SettingsFile)
		return settingsfile.New(cfg.SettingsFile, defaults)
	}
}
