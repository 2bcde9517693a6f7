package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/overlap-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/overlap-cli/internal/logger"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest new files as they appear",
	Long: `Watch a directory and ingest files as they are created or written.
Defaults to the configured sources directory. Existing files that have not
been ingested yet are added first. Stop with Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", filesystem.DefaultDebounce,
		"quiet period before a batch of changes is ingested")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest")
	}

	dir := sourcesDir
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no directory to watch: pass one or set ingest.sources_dir")
	}

	ctx := cmd.Context()

	// The initial pass also creates the default sources directory.
	result, err := ingestService.IngestDirectory(ctx, dir)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	printIngestResult(cmd, result)

	watcher := filesystem.New(dir, filesystem.WithDebounce(watchDebounce))
	batches, err := watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	cmd.Printf("Watching %s\n", dir)

	for names := range batches {
		logger.Debug("changed: %s", strings.Join(names, ", "))
		result, err := ingestService.IngestDirectory(ctx, dir)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error("ingest failed: %v", err)
			continue
		}
		if len(result.Added) > 0 {
			printIngestResult(cmd, result)
		}
	}
	return nil
}
