package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/loansiya/internal/cli"
)

func metricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics <cid>",
		Short: "Derive and store processed metrics for a client",
		Long: `Read client-metrics/<cid>-raw.json, derive the five credit metrics and
overwrite client-metrics/processed/<cid>.json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, metricsSvc, _, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = b.Close() }()

			metrics, err := metricsSvc.Compute(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(metrics); err != nil {
				return fmt.Errorf("failed to write metrics: %w", err)
			}
			fmt.Fprintln(os.Stderr, cli.FormatSuccess("metrics stored for "+args[0]))
			return nil
		},
	}
}
