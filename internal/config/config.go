package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Provider API
	ProviderEnvironment string
	ProviderBaseURL     string
	ProviderAPIToken    string
	ProviderProfileID   string
	ProviderTimeout     time.Duration
	MockMode            bool

	// Normalization
	FallbackCurrency string

	// Settings persistence
	SettingsBackend string
	SettingsFile    string
	SQLiteDBPath    string

	// AMQP (optional notifications)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Default tracking window
	DefaultStartDate string
	DefaultEndDate   string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "3001"),

		ProviderEnvironment: getEnv("PROVIDER_ENVIRONMENT", "sandbox"),
		ProviderBaseURL:     getEnv("PROVIDER_BASE_URL", ""),
		ProviderAPIToken:    getEnv("PROVIDER_API_TOKEN", ""),
		ProviderProfileID:   getEnv("PROVIDER_PROFILE_ID", ""),
		ProviderTimeout:     getEnvDuration("PROVIDER_TIMEOUT", 30*time.Second),
		MockMode:            getEnvBool("MOCK_MODE", false),

		FallbackCurrency: getEnv("FALLBACK_CURRENCY", "JPY"),

		SettingsBackend: getEnv("SETTINGS_BACKEND", "file"),
		SettingsFile:    getEnv("SETTINGS_FILE", "./settings.json"),
		SQLiteDBPath:    getEnv("SQLITE_DB_PATH", "./data/cardspend.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "cardspend"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "dataset_refreshed"),

		DefaultStartDate: getEnv("DEFAULT_START_DATE", "2025-12-01"),
		DefaultEndDate:   getEnv("DEFAULT_END_DATE", "2025-12-31"),
	}

	return cfg
}

// Configured reports whether live provider credentials are present.
func (c *Config) Configured() bool {
	return c.ProviderAPIToken != "" && c.ProviderProfileID != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate provider environment
	if c.ProviderEnvironment != "sandbox" && c.ProviderEnvironment != "production" {
		errors = append(errors, fmt.Sprintf("invalid provider environment '%s': must be 'sandbox' or 'production'", c.ProviderEnvironment))
	}

	if c.ProviderBaseURL != "" {
		if parsedURL, err := url.Parse(c.ProviderBaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid provider base URL '%s': %v", c.ProviderBaseURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid provider base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	if c.ProviderTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid provider timeout %v: must be at least 1 second", c.ProviderTimeout))
	} else if c.ProviderTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid provider timeout %v: must be at most 5 minutes", c.ProviderTimeout))
	}

	// Validate settings backend
	validBackends := []string{"file", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.SettingsBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid settings backend '%s': must be one of %v", c.SettingsBackend, validBackends))
	}

	if c.SettingsBackend == "file" && c.SettingsFile == "" {
		errors = append(errors, "settings file path cannot be empty when using file backend")
	}

	// Validate SQLite configuration if backend is sqlite
	if c.SettingsBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate fallback currency (ISO 4217 style code)
	if len(c.FallbackCurrency) != 3 || strings.ToUpper(c.FallbackCurrency) != c.FallbackCurrency {
		errors = append(errors, fmt.Sprintf("invalid fallback currency '%s': must be a 3-letter uppercase code", c.FallbackCurrency))
	}

	// Validate default window
	start, startErr := time.Parse("2006-01-02", c.DefaultStartDate)
	if startErr != nil {
		errors = append(errors, fmt.Sprintf("invalid default start date '%s': must be YYYY-MM-DD", c.DefaultStartDate))
	}
	end, endErr := time.Parse("2006-01-02", c.DefaultEndDate)
	if endErr != nil {
		errors = append(errors, fmt.Sprintf("invalid default end date '%s': must be YYYY-MM-DD", c.DefaultEndDate))
	}
	if startErr == nil && endErr == nil && !start.Before(end) {
		errors = append(errors, fmt.Sprintf("invalid default window %s..%s: start must be before end", c.DefaultStartDate, c.DefaultEndDate))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
