package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "mailreply/docs"
	"mailreply/internal/app"
	"mailreply/internal/config"
	"mailreply/internal/server"

	"golang.org/x/sync/errgroup"
)

// @title Mail Reply API
// @version 1.0
// @description Email summarization and validated reply generation
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger
	logger := cfg.SetupLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize pipeline")
	}
	defer pipeline.Close()

	// Create and initialize server
	srv := server.New(cfg, pipeline.DB, pipeline.Mail, pipeline.Analytics, logger)
	srv.Initialize()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("Server stopped with error")
		pipeline.Close()
		os.Exit(1)
	}
	logger.Info().Msg("Server stopped")
}
