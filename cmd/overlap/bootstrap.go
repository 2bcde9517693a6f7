package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/fetch/web"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/metrics/prometheus"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/overlap-cli/internal/core/services"
	"github.com/custodia-labs/overlap-cli/internal/extractors"
	"github.com/custodia-labs/overlap-cli/internal/logger"
	"github.com/custodia-labs/overlap-cli/internal/splitter"
)

// Directories below the home directory.
const (
	sourcesDirName = "sources"
	dataDirName    = "data"
)

// bootstrap wires the adapters into the core services. Settings are always
// available; ingest and check need a working embedding provider.
func bootstrap(_ context.Context, opts cli.Options) (*cli.Services, error) {
	home, err := file.HomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}

	var configStore *file.ConfigStore
	if opts.ConfigPath != "" {
		configStore, err = file.NewConfigStoreAt(opts.ConfigPath)
	} else {
		configStore, err = file.NewConfigStore(home)
	}
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, filepath.Join(home, sourcesDirName))
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	logger.Debug("home %s, config %s", home, configStore.Path())

	out := &cli.Services{
		Settings:   settingsService,
		ConfigPath: configStore.Path(),
		SourcesDir: settings.Ingest.SourcesDir,
	}

	if err := settings.Validate(); err != nil {
		out.EmbeddingErr = err
		return out, nil
	}
	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		out.EmbeddingErr = err
		return out, nil
	}

	var store driven.CorpusStore
	if opts.Ephemeral {
		store = memory.NewCorpusStore()
	} else {
		store, err = sqlite.NewStore(filepath.Join(home, dataDirName))
		if err != nil {
			embedder.Close() //nolint:errcheck
			return nil, fmt.Errorf("opening corpus: %w", err)
		}
	}

	recorder := prometheus.New()
	split := splitter.NewDefault(settings.Ingest.MinSentenceLength)
	index := services.NewCorpusIndex(store, split, embedder,
		services.WithMetrics(recorder),
		services.WithBatchSize(settings.Ingest.BatchSize),
	)
	fetcher := web.New(settings.Fetch.Timeout, settings.Fetch.MaxBytes)

	out.Ingest = services.NewIngestService(index, extractors.Default(), fetcher, recorder, settings.Ingest.SourcesDir)
	out.Check = services.NewCheckService(index, split, embedder, recorder, settings.Check)
	out.Corpus = index
	out.Metrics = recorder.Handler()
	out.Close = func() error {
		return errors.Join(store.Close(), embedder.Close())
	}
	return out, nil
}
