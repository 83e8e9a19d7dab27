// Package main is the entry point for the expense ledger Telegram bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gbarbosa/gastos-bot/internal/bot"
	"github.com/gbarbosa/gastos-bot/internal/config"
	"github.com/gbarbosa/gastos-bot/internal/database"
	"github.com/gbarbosa/gastos-bot/internal/ledger"
	"github.com/gbarbosa/gastos-bot/internal/logger"
	"github.com/gbarbosa/gastos-bot/internal/settings"
	"github.com/gbarbosa/gastos-bot/internal/telegram"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("gastos-bot %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.SetLevel(cfg.LogLevel)
	if cfg.LogFormat == "json" {
		logger.SetJSON()
	}
	logger.InitHashSalt()

	store, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize ledger store")
	}
	defer cleanup()

	logger.Log.Info().Str("backend", cfg.LedgerBackend).Msg("Ledger store initialized")

	client, err := telegram.New(cfg.TelegramToken)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create telegram client")
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")
		cancel()
	}()

	b := bot.New(cfg, client, client, store, settings.NewStore(cfg.SettingsFile))
	b.Start(ctx)
}

// newStore builds the configured ledger backend. The returned cleanup
// closes backend resources.
func newStore(ctx context.Context, cfg *config.Config) (ledger.Store, func(), error) {
	switch cfg.LedgerBackend {
	case config.BackendPostgres:
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return ledger.NewPostgresStore(pool), pool.Close, nil
	default:
		store, err := ledger.NewSheetStore(ctx, cfg.SheetID, cfg.GoogleCredentialsFile, cfg.GoogleCredentialsJSON)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
