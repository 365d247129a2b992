package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/loansiya/internal/cli"
	"github.com/Veraticus/loansiya/internal/service"
)

func backfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Recompute metrics and scores for every registered client",
		Long: `Walk clients/clients.json and, for each client, derive processed metrics
from the raw record and then score them.

Failures are reported per client and do not stop the run.`,
		RunE: runBackfill,
	}

	cmd.Flags().Bool("metrics-only", false, "derive metrics without scoring")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	return cmd
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	metricsOnly, _ := cmd.Flags().GetBool("metrics-only")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	interrupts := cli.NewInterruptHandler(os.Stderr)
	ctx := interrupts.HandleInterrupts(cmd.Context(), "Run backfill again to recompute the remaining clients.")
	defer interrupts.Stop()

	b, metricsSvc, scoringSvc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	clients, err := service.NewClientRegistry(b.clients).All(ctx)
	if err != nil {
		return err
	}
	if len(clients) == 0 {
		fmt.Println(cli.FormatInfo("Client registry is empty, nothing to do"))
		return nil
	}

	var progress *cli.Progress
	if !noProgress {
		progress = cli.NewProgress(os.Stderr, len(clients), "Backfilling clients...")
	}

	var failed []string
	scored := 0
	for _, client := range clients {
		if ctx.Err() != nil {
			break
		}

		if _, err := metricsSvc.Compute(ctx, client.CID); err != nil {
			slog.Warn("metrics failed", "cid", client.CID, "error", err)
			failed = append(failed, client.CID)
		} else if !metricsOnly {
			if _, err := scoringSvc.Score(ctx, client.CID); err != nil {
				slog.Warn("scoring failed", "cid", client.CID, "error", err)
				failed = append(failed, client.CID)
			} else {
				scored++
			}
		}

		if progress != nil {
			progress.Describe("Backfilled " + client.CID)
			progress.Step()
		}
	}
	if progress != nil && interrupts.WasInterrupted() {
		progress.Finish()
	}

	summary := fmt.Sprintf("Clients: %d\nScored: %d\nFailed: %d", len(clients), scored, len(failed))
	if metricsOnly {
		summary = fmt.Sprintf("Clients: %d\nMetrics failed: %d", len(clients), len(failed))
	}
	if len(failed) > 0 {
		summary += "\n\n" + cli.FormatError("Failed: "+strings.Join(failed, ", "))
	}
	fmt.Println(cli.RenderBox("Backfill Complete", summary))

	if interrupts.WasInterrupted() {
		fmt.Println(cli.FormatWarning("Backfill interrupted before every client was processed"))
		return ctx.Err()
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d clients failed", len(failed), len(clients))
	}
	return nil
}
