package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/loansiya/internal/config"
	"github.com/Veraticus/loansiya/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run SQLite object store migrations",
		Long: `Initialize or update the local SQLite object store schema.

Only the sqlite backend has a schema; Cloud Storage needs no migration.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store.Backend != config.BackendSQLite {
		slog.Info("Nothing to migrate", "backend", cfg.Store.Backend)
		return nil
	}

	dbPath := cfg.Store.DatabasePath
	signer, err := storage.NewURLSigner(cfg.Store.SigningSecret, cfg.Server.PublicURL)
	if err != nil {
		return err
	}
	store, err := storage.NewSQLiteStore(dbPath, signer)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	if status {
		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		slog.Info("📊 Database Migration Status",
			"database", dbPath,
			"current_version", current,
			"latest_version", storage.ExpectedSchemaVersion)
		return nil
	}

	slog.Info("🗄️  Running database migrations...", "database", dbPath)
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	slog.Info("✅ Database migrations completed successfully!")

	return nil
}
