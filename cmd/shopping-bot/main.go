package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"shopping-list/internal/config"
	"shopping-list/internal/database"
	"shopping-list/internal/dispatch"
	"shopping-list/internal/logging"
	"shopping-list/internal/metrics"
	"shopping-list/internal/shopping"
	"shopping-list/internal/telegram"
	"shopping-list/internal/viewmodel"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		bootLogger := logging.New("info", logging.FormatConsole, os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Fatal exits without running defers, so everything that needs closing
	// lives in run.
	if err := run(ctx, cfg, logger); err != nil {
		stop()
		logger.Fatal().Err(err).Msg("shopping bot stopped")
	}
	logger.Info().Msg("server exiting")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	// 1. Storage
	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	metricsStore := metrics.NewStore(db.SQL)
	if removed, err := metricsStore.Cleanup(ctx, cfg.MetricsRetentionDays); err != nil {
		logger.Warn().Err(err).Msg("failed to clean up old task metrics")
	} else if removed > 0 {
		logger.Info().Int64("removed", removed).Msg("old task metrics removed")
	}

	store, err := shopping.NewSQLStore(ctx, db.SQL, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize shopping list store: %w", err)
	}
	defer store.Close()

	// 2. Services
	queue := dispatch.NewQueue(logger, metricsStore)
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queue.Close(drainCtx); err != nil {
			logger.Error().Err(err).Msg("pending list changes were not applied")
		}
	}()
	vm := viewmodel.New(shopping.NewRepository(store, logger), queue)

	// 3. View
	bot, err := telegram.NewBot(cfg, vm, metricsStore, filepath.Dir(cfg.DatabasePath), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telegram bot: %w", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: bot.Router(),
	}

	// 4. Run until a signal arrives
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Run(gctx)
	})
	g.Go(func() error {
		logger.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}
