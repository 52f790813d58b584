package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/david/market-finder/internal/ingest"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-validate the snapshot every time it changes on disk",
	Long: `Watches the directory holding the data file and re-runs validation after each
write, create or rename of the file. Useful while hand-editing a snapshot or
while another process refreshes it. The server needs no restart either way.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "Quiet period before re-validating")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	report := func(n int, err error) {
		if err != nil {
			fmt.Fprintf(out, "%s invalid (%s): %v\n", time.Now().Format(time.TimeOnly), ingest.FailureKind(err), err)
			return
		}
		fmt.Fprintf(out, "%s ok: %d markets\n", time.Now().Format(time.TimeOnly), n)
	}
	report(validateFile(dataPath))
	return watchSnapshot(ctx, dataPath, watchDebounce, report)
}

func validateFile(path string) (int, error) {
	raw, err := ingest.LoadFile(path)
	if err != nil {
		return 0, err
	}
	return len(ingest.Normalize(raw)), nil
}

// watchSnapshot calls onChange with a fresh validation result after every
// burst of changes to path. It blocks until ctx is done.
func watchSnapshot(ctx context.Context, path string, debounce time.Duration, onChange func(int, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: atomic replacement swaps the file's inode.
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	logger.Info("watching snapshot", zap.String("path", target))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("snapshot changed", zap.String("op", event.Op.String()))
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", zap.Error(err))

		case <-timer.C:
			onChange(validateFile(target))
		}
	}
}
