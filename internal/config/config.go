// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Ledger backend selectors.
const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
)

// Undo scope policies for the /deletar command.
const (
	UndoGlobal = "global"
	UndoSender = "sender"
)

// Config holds all configuration for the application.
type Config struct {
	TelegramToken         string
	SheetID               string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string
	DatabaseURL           string
	LedgerBackend         string
	SettingsFile          string
	LogLevel              string
	LogFormat             string
	UndoScope             string
	DrainOnStart          bool
	PollTimeout           time.Duration
	RetryDelay            time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:         os.Getenv("TELEGRAM_TOKEN"),
		SheetID:               os.Getenv("SHEET_ID"),
		GoogleCredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		GoogleCredentialsJSON: os.Getenv("GOOGLE_CREDENTIALS"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		LogLevel:              os.Getenv("LOG_LEVEL"),
		LogFormat:             os.Getenv("LOG_FORMAT"),
	}

	cfg.SettingsFile = "bot_config.json"
	if f := os.Getenv("SETTINGS_FILE"); f != "" {
		cfg.SettingsFile = f
	}

	cfg.LedgerBackend = BackendSheets
	if cfg.SheetID == "" && cfg.DatabaseURL != "" {
		cfg.LedgerBackend = BackendPostgres
	}
	if backend := os.Getenv("LEDGER_BACKEND"); backend != "" {
		cfg.LedgerBackend = backend
	}

	cfg.UndoScope = UndoGlobal
	if scope := os.Getenv("UNDO_SCOPE"); scope != "" {
		cfg.UndoScope = scope
	}

	cfg.DrainOnStart = os.Getenv("DRAIN_ON_START") == "true"

	cfg.PollTimeout = 30 * time.Second
	if d, err := time.ParseDuration(os.Getenv("POLL_TIMEOUT")); err == nil && d > 0 {
		cfg.PollTimeout = d
	}

	cfg.RetryDelay = 2 * time.Second
	if d, err := time.ParseDuration(os.Getenv("RETRY_DELAY")); err == nil && d > 0 {
		cfg.RetryDelay = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.TelegramToken == "" {
		errs = append(errs, "TELEGRAM_TOKEN is required")
	}

	switch c.LedgerBackend {
	case BackendSheets:
		if c.SheetID == "" {
			errs = append(errs, "SHEET_ID is required for the sheets backend")
		}
		if c.GoogleCredentialsFile == "" && c.GoogleCredentialsJSON == "" {
			errs = append(errs, "GOOGLE_CREDENTIALS_FILE or GOOGLE_CREDENTIALS is required for the sheets backend")
		}
		if c.UndoScope == UndoSender {
			errs = append(errs, "UNDO_SCOPE=sender is not supported by the sheets backend (rows carry no sender column)")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown LEDGER_BACKEND %q (use %q or %q)", c.LedgerBackend, BackendSheets, BackendPostgres))
	}

	if c.UndoScope != UndoGlobal && c.UndoScope != UndoSender {
		errs = append(errs, fmt.Sprintf("unknown UNDO_SCOPE %q (use %q or %q)", c.UndoScope, UndoGlobal, UndoSender))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
