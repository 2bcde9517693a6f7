// Package cli provides the command-line interface for overlap.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/overlap-cli/internal/core/ports/driving"
	"github.com/custodia-labs/overlap-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired by the composition root.
var (
	ingestService   driving.IngestService
	checkService    driving.CheckService
	corpusService   driving.CorpusService
	settingsService driving.SettingsService
	metricsHandler  http.Handler

	// configPath is the configuration file in use.
	configPath string

	// sourcesDir is the default directory for ingestion and downloads.
	sourcesDir string

	// embeddingErr explains why the ingest and check services are missing.
	embeddingErr error

	closeServices func() error
)

// Options are the global flags passed to the bootstrap function.
type Options struct {
	// ConfigPath overrides the configuration file location.
	ConfigPath string

	// Ephemeral keeps the corpus in memory for the lifetime of the process.
	Ephemeral bool
}

// Services is the set of services a command may use. Any service may be nil
// when it could not be constructed.
type Services struct {
	Ingest   driving.IngestService
	Check    driving.CheckService
	Corpus   driving.CorpusService
	Settings driving.SettingsService

	// Metrics serves collected metrics next to the MCP HTTP transport.
	Metrics http.Handler

	ConfigPath string
	SourcesDir string

	// EmbeddingErr is set when the embedding provider could not be created.
	// Config commands still work in that state.
	EmbeddingErr error

	// Close releases resources such as the corpus database.
	Close func() error
}

// BootstrapFunc builds services from global options.
type BootstrapFunc func(ctx context.Context, opts Options) (*Services, error)

var (
	bootstrap BootstrapFunc
	loaded    bool
	options   Options
)

var rootCmd = &cobra.Command{
	Use:   "overlap",
	Short: "Check text for overlap with a corpus of sources",
	Long: `overlap keeps a persistent corpus of source documents and reports which
parts of a piece of text overlap with it.

Sources are split into sentences and embedded. A check retrieves the most
similar corpus sentences and highlights the shared phrases, together with
the percentage of the text that overlaps.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadServices,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&options.ConfigPath, "config", "", "configuration file (default $OVERLAP_HOME/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&options.Ephemeral, "ephemeral", false, "keep the corpus in memory only")
}

// SetServices installs services directly, bypassing the bootstrap function.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	ingestService = s.Ingest
	checkService = s.Check
	corpusService = s.Corpus
	settingsService = s.Settings
	metricsHandler = s.Metrics
	configPath = s.ConfigPath
	sourcesDir = s.SourcesDir
	embeddingErr = s.EmbeddingErr
	closeServices = s.Close
	loaded = true
}

// SetBootstrap registers the function that builds services once the global
// flags are parsed.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
	loaded = false
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeServices != nil {
		if cerr := closeServices(); cerr != nil {
			logger.Warn("closing services: %v", cerr)
		}
	}
	return err
}

func loadServices(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose") //nolint:errcheck // flag is registered on root
	logger.SetVerbose(verbose)

	if loaded || bootstrap == nil {
		return nil
	}

	services, err := bootstrap(cmd.Context(), options)
	if err != nil {
		return err
	}
	SetServices(services)
	if embeddingErr != nil {
		logger.Debug("embedding unavailable: %v", embeddingErr)
	}
	return nil
}

// notConfigured reports a missing service, with the embedding error when
// that is the cause.
func notConfigured(name string) error {
	if embeddingErr != nil && (name == "ingest" || name == "check") {
		return fmt.Errorf("%s service not configured: %w", name, embeddingErr)
	}
	return fmt.Errorf("%s service not configured", name)
}
