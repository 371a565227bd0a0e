package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"wallet-ledger/config"
	"wallet-ledger/internal/app"
	"wallet-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("WLG_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("wallet-ledger-worker", cfg.Log.Level, cfg.Log.Pretty)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Int("concurrency", cfg.Worker.Concurrency).
		Str("storage", cfg.Storage.Driver).
		Str("queue", cfg.Queue.Driver).
		Msg("Starting Wallet Ledger worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise dependencies")
	}
	defer container.Close()

	go container.MaintainQueue(ctx)

	scheduler, err := container.Scheduler()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register scheduled tasks")
	}
	scheduler.Start()

	pool := container.Pool()
	done := make(chan struct{})
	go func() {
		pool.Run(ctx)
		close(done)
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), container.ShutdownTimeout())
	defer cancel()

	scheduler.Stop(shutdownCtx)
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Worker pool did not drain before the shutdown timeout")
	}

	log.Info().Msg("Worker exited")
}
