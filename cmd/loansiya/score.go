package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/loansiya/internal/cli"
	"github.com/Veraticus/loansiya/internal/model"
	"github.com/Veraticus/loansiya/internal/service"
)

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [cid]",
		Short: "Score a client from its processed metrics",
		Long: `Score a client from client-metrics/processed/<cid>.json and overwrite
scores/<cid>.json.

With --file, score a local metrics JSON document instead. Nothing is stored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScore,
	}

	cmd.Flags().String("file", "", "score a local processed-metrics JSON file without touching the store")
	cmd.Flags().Bool("json", false, "print the raw score result as JSON")

	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	asJSON, _ := cmd.Flags().GetBool("json")

	var (
		result model.ScoreResult
		err    error
	)

	switch {
	case file != "":
		result, err = scoreFile(file, args)
	case len(args) == 1:
		b, _, scoring, openErr := openServices(cmd.Context())
		if openErr != nil {
			return openErr
		}
		defer func() { _ = b.Close() }()
		result, err = scoring.Score(cmd.Context(), args[0])
	default:
		return errors.New("provide a client id or --file")
	}
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Println(cli.RenderScore(result))
	return nil
}

func scoreFile(path string, args []string) (model.ScoreResult, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator supplied path
	if err != nil {
		return model.ScoreResult{}, fmt.Errorf("failed to read metrics file: %w", err)
	}

	metrics, err := service.DecodeMetrics(data)
	if err != nil {
		return model.ScoreResult{}, fmt.Errorf("%s: %w", path, err)
	}

	cid := metrics.CID
	if len(args) == 1 {
		cid = args[0]
	}

	scoring := service.NewScoringService(nil, time.Now, nil)
	return scoring.Evaluate(cid, metrics), nil
}
