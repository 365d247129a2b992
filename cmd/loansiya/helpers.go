package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/loansiya/internal/config"
	"github.com/Veraticus/loansiya/internal/service"
	"github.com/Veraticus/loansiya/internal/storage"
)

// backend is the opened object store with both buckets resolved.
type backend struct {
	clients  storage.Bucket
	accounts storage.Bucket
	sqlite   *storage.SQLiteStore
	close    func() error
}

// Close releases the store.
func (b *backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// loadConfig reads the runtime configuration from viper and the environment.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// openBackend connects to the configured object store.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		signer, err := storage.NewURLSigner(cfg.Store.SigningSecret, cfg.Server.PublicURL)
		if err != nil {
			return nil, err
		}
		store, err := storage.NewSQLiteStore(cfg.Store.DatabasePath, signer)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		if cfg.Store.SigningSecret == "" {
			logger.Warn("no signing secret configured; file links will not survive a restart")
		}
		logger.Debug("opened sqlite object store", "path", cfg.Store.DatabasePath)
		return &backend{
			clients:  store.Bucket(cfg.Store.ClientBucket),
			accounts: store.Bucket(cfg.Store.AccountsBucket),
			sqlite:   store,
			close:    store.Close,
		}, nil

	default:
		creds, err := cfg.Store.CredentialsJSON()
		if err != nil {
			return nil, err
		}
		client, err := storage.NewGCSClient(ctx, storage.GCSConfig{CredentialsJSON: creds}, logger)
		if err != nil {
			return nil, err
		}
		logger.Debug("opened cloud storage client",
			"client_bucket", cfg.Store.ClientBucket,
			"accounts_bucket", cfg.Store.AccountsBucket)
		return &backend{
			clients:  client.Bucket(cfg.Store.ClientBucket),
			accounts: client.Bucket(cfg.Store.AccountsBucket),
			close:    client.Close,
		}, nil
	}
}

// openServices loads config, opens the store and builds the metrics and
// scoring services used by the offline commands.
func openServices(ctx context.Context) (*backend, *service.MetricsService, *service.ScoringService, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := slog.Default()

	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	return b,
		service.NewMetricsService(b.clients, time.Now, logger),
		service.NewScoringService(b.clients, time.Now, logger),
		nil
}
