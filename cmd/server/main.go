package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Verde726/my-erp-system-sub001/internal/config"
	"github.com/Verde726/my-erp-system-sub001/internal/infra"
	"github.com/Verde726/my-erp-system-sub001/internal/repository"
	"github.com/Verde726/my-erp-system-sub001/internal/router"
	"github.com/Verde726/my-erp-system-sub001/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Start goroutine worker pool for async shortage-alert notifications.
	// With SMTP configured alerts go out by email; otherwise they land in
	// the structured log.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var notifier worker.AlertNotifier = worker.LogNotifier{}
	if cfg.SMTPHost != "" && cfg.AlertEmailTo != "" {
		mailer := infra.NewMailer(cfg)
		cb := infra.NewCircuitBreaker(infra.DefaultMailerCBConfig())
		notifier = worker.NewEmailNotifier(mailer, cb, cfg.AlertEmailTo)
		log.Info().Str("to", cfg.AlertEmailTo).Msg("alert delivery: email")
	}
	worker.StartWorkerPool(ctx, rdb, notifier, cfg.WorkerPoolSize)

	// Periodic sweep for components below their reorder point.
	worker.StartStockScanCron(ctx, worker.StockScanConfig{
		ComponentRepo: repository.NewComponentRepository(db),
		AlertRepo:     repository.NewAlertRepository(db),
		Dispatcher:    worker.NewDispatcher(rdb),
		Interval:      time.Duration(cfg.StockScanIntervalMin) * time.Minute,
	})

	r := router.New(cfg, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("planning backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
