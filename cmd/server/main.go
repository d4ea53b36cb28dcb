package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/simaogato/paperwallet-backend/internal/app"
	"github.com/simaogato/paperwallet-backend/internal/config"
	"github.com/simaogato/paperwallet-backend/internal/logger"
	"github.com/simaogato/paperwallet-backend/internal/pkg/grpcserver"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", false)
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	// 2. Wire store, catalog and services
	ctx := context.Background()
	application, err := app.New(ctx, cfg, log, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	// 3. Fail fast on a corrupt wallet instead of on the first RPC
	if err := application.Wallet.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to load wallet")
	}

	// 4. Start gRPC server
	srv := application.NewGRPCServer()
	go func() {
		log.Info().Str("addr", cfg.GRPCAddr).Msg("gRPC server listening")
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve gRPC server")
		}
	}()

	// Graceful shutdown
	waitForShutdown(srv, log)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(srv *grpcserver.Server, log zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	srv.Stop()
	log.Info().Msg("gRPC server stopped")
}
