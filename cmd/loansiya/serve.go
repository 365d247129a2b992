package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/loansiya/internal/server"
	"github.com/Veraticus/loansiya/internal/service"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API on the configured port (PORT, default 5600).

Every route reads and writes the configured client and accounts buckets.`,
		RunE: runServe,
	}

	cmd.Flags().Int("port", 0, "port to listen on (overrides PORT)")
	_ = viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("failed to close object store", "error", err)
		}
	}()

	clock := service.Clock(time.Now)
	stager := service.NewStager(cfg.Server.UploadDir, cfg.Server.MaxUploadBytes, logger)
	logger.Info("staging uploads", "dir", stager.BaseDir(), "max_bytes", cfg.Server.MaxUploadBytes)
	api := server.NewAPIHandlers(logger, server.Services{
		Registry:  service.NewClientRegistry(b.clients),
		Metrics:   service.NewMetricsService(b.clients, clock, logger),
		Scoring:   service.NewScoringService(b.clients, clock, logger),
		Documents: service.NewDocumentService(b.clients, stager, clock, logger),
		Officers:  service.NewOfficerDirectory(b.accounts, service.BcryptVerifier{}, logger),
	}, cfg.Server.MaxUploadBytes)

	deps := server.RouterDependencies{
		API:            api,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	if prober, ok := b.clients.(server.Prober); ok {
		deps.Health = server.BucketHealthService{Buckets: []server.Prober{prober}}
	}
	if b.sqlite != nil {
		deps.Files = server.NewFileHandler(logger, b.sqlite)
	}

	srv := server.New(logger, cfg.Server.Port, server.NewRouter(logger, deps))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}
