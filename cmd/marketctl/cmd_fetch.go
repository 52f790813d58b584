package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/david/market-finder/internal/ingest"
)

var (
	fetchURL     string
	fetchOut     string
	fetchRetries int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a snapshot, validate it and replace the data file atomically",
	Long: `Downloads the market snapshot from --url (default SNAPSHOT_URL), checks that it
parses as a market array, then writes it over --out (default the data path)
through a temp file and rename. The existing file is left untouched on any failure.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "Snapshot URL (default SNAPSHOT_URL)")
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "Output path (default --data)")
	fetchCmd.Flags().IntVar(&fetchRetries, "retries", 3, "Retries after a failed download")
}

func runFetch(cmd *cobra.Command, args []string) error {
	target := fetchURL
	if target == "" {
		target = cfg.SnapshotURL
	}
	if target == "" {
		return fmt.Errorf("no snapshot URL: pass --url or set SNAPSHOT_URL")
	}
	out := fetchOut
	if out == "" {
		out = dataPath
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return fetchSnapshot(ctx, cmd, target, out)
}

func fetchSnapshot(ctx context.Context, cmd *cobra.Command, target, out string) error {
	fetcher := ingest.NewSnapshotFetcher()
	fetcher.MaxRetries = fetchRetries

	logger.Info("fetching snapshot", zap.String("url", target))
	body, err := fetcher.Fetch(ctx, target)
	if err != nil {
		return err
	}

	n, err := ingest.WriteSnapshot(out, body)
	if err != nil {
		return fmt.Errorf("snapshot rejected (%s): %w", ingest.FailureKind(err), err)
	}
	logger.Info("snapshot written", zap.String("path", out), zap.Int("markets", n), zap.Int("bytes", len(body)))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d markets to %s\n", n, out)
	return nil
}
