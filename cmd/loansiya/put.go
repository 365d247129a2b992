package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/loansiya/internal/cli"
	"github.com/Veraticus/loansiya/internal/common"
	"github.com/Veraticus/loansiya/internal/storage"
)

func putCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <key> <file>",
		Short: "Upload a local file to a bucket",
		Long: `Upload a local file to the client (default) or accounts bucket. Use it to
seed the registry, raw records or officer accounts in a development store:

  loansiya put clients/clients.json ./clients.json
  loansiya put client-metrics/CID-1001-raw.json ./raw.json
  loansiya put --accounts loan_officers.json ./officers.json`,
		Args: cobra.ExactArgs(2),
		RunE: runPut,
	}

	cmd.Flags().Bool("accounts", false, "write to the accounts bucket")

	return cmd
}

func runPut(cmd *cobra.Command, args []string) error {
	accounts, _ := cmd.Flags().GetBool("accounts")
	key, path := args[0], args[1]

	data, err := os.ReadFile(path) // #nosec G304 -- operator supplied path
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if filepath.Ext(path) == ".json" {
		if !json.Valid(data) {
			return common.Validationf("%s is not valid JSON", path)
		}
		contentType = storage.ContentTypeJSON
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	b, err := openBackend(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	bucket := b.clients
	if accounts {
		bucket = b.accounts
	}

	if err := put(ctx, bucket, key, data, contentType); err != nil {
		return err
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("stored %s/%s (%d bytes)", bucket.Name(), key, len(data))))
	return nil
}

func put(ctx context.Context, bucket storage.Bucket, key string, data []byte, contentType string) error {
	if err := bucket.Write(ctx, key, data, storage.WriteOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}
