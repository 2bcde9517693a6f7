package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for overlap.

Type or paste text, press ctrl+s to check it, and read the report with the
overlapping parts highlighted and the overlap percentage in the status bar.

Controls:
  ctrl+s   - Check the text
  tab      - Switch between text and report
  ctrl+l   - Clear
  ctrl+o   - Corpus overview
  f1       - Toggle help
  ctrl+c   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if checkService == nil {
		return notConfigured("check")
	}

	app, err := tui.NewApp(&tui.Ports{
		Check:  checkService,
		Corpus: corpusService,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
