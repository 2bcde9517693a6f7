package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driving"
	"github.com/custodia-labs/overlap-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns files, URLs and raw text into corpus documents.
type IngestService struct {
	index      *CorpusIndex
	extractors driven.ExtractorRegistry
	fetcher    driven.Fetcher
	metrics    driven.MetricsRecorder
	sourcesDir string
}

// NewIngestService creates a new ingest service. fetcher may be nil, in
// which case URL ingestion fails with domain.ErrFetchFailed.
func NewIngestService(
	index *CorpusIndex,
	extractors driven.ExtractorRegistry,
	fetcher driven.Fetcher,
	metrics driven.MetricsRecorder,
	sourcesDir string,
) *IngestService {
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}
	return &IngestService{
		index:      index,
		extractors: extractors,
		fetcher:    fetcher,
		metrics:    metrics,
		sourcesDir: sourcesDir,
	}
}

// SourcesDir returns the directory used for downloads and directory ingestion.
func (s *IngestService) SourcesDir() string {
	return s.sourcesDir
}

// IngestText adds raw text under the given source identifier.
func (s *IngestService) IngestText(ctx context.Context, source, text string) (*domain.IngestResult, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: source identifier is required", domain.ErrInvalidInput)
	}
	return s.index.AddDocuments(ctx, []domain.SourceText{{Source: source, Text: text}})
}

// IngestFile extracts and adds a single file under its base name.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*domain.IngestResult, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: file path is required", domain.ErrInvalidInput)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", domain.ErrInvalidInput, path)
	}

	source := filepath.Base(path)
	processed, err := s.index.Processed(ctx, source)
	if err != nil {
		return nil, err
	}
	if processed {
		logger.Debug("Skipping already processed source %s", source)
		return &domain.IngestResult{Skipped: []string{source}}, nil
	}

	return s.index.AddDocuments(ctx, []domain.SourceText{s.extract(ctx, path)})
}

// IngestURL downloads url into the sources directory and adds the saved file.
// The download is staged in a hidden directory and only moved into place
// when its name is not yet in the corpus, so a skipped or failed download
// leaves both the sources directory and the corpus unchanged.
func (s *IngestService) IngestURL(ctx context.Context, url string) (*domain.IngestResult, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}
	if s.fetcher == nil {
		return nil, fmt.Errorf("%w: no fetcher configured", domain.ErrFetchFailed)
	}
	if err := os.MkdirAll(s.sourcesDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating sources directory: %w", err)
	}

	staging, err := os.MkdirTemp(s.sourcesDir, ".fetch-")
	if err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	logger.Section("Fetch")
	fetched, err := s.fetcher.Fetch(ctx, url, staging)
	if err != nil {
		return nil, err
	}

	source := filepath.Base(fetched.Path)
	processed, err := s.index.Processed(ctx, source)
	if err != nil {
		return nil, err
	}
	if processed {
		logger.Debug("Skipping already processed source %s", source)
		return &domain.IngestResult{Skipped: []string{source}}, nil
	}

	dest := filepath.Join(s.sourcesDir, source)
	if err := os.Rename(fetched.Path, dest); err != nil {
		return nil, fmt.Errorf("saving %s: %w", dest, err)
	}
	logger.Info("Saved %s (%d bytes, %s)", dest, fetched.Bytes, fetched.MIMEType)

	return s.IngestFile(ctx, dest)
}

// IngestDirectory adds every new regular file in dir, in lexical order, as
// one batch. An empty dir means the sources directory, which is created if
// missing.
func (s *IngestService) IngestDirectory(ctx context.Context, dir string) (*domain.IngestResult, error) {
	if dir == "" {
		dir = s.sourcesDir
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating sources directory: %w", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, dir)
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	snap, err := s.index.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	logger.Section("Ingest " + dir)
	var texts []domain.SourceText
	var skipped []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if snap.Processed(entry.Name()) {
			skipped = append(skipped, entry.Name())
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		texts = append(texts, s.extract(ctx, filepath.Join(dir, entry.Name())))
	}

	result, err := s.index.AddDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}
	result.Skipped = append(skipped, result.Skipped...)
	return result, nil
}

// extract runs the matching extractor. Failures are carried in the
// SourceText so the document is still recorded.
func (s *IngestService) extract(ctx context.Context, path string) domain.SourceText {
	source := filepath.Base(path)
	extraction, mimeType := s.extractors.ExtractFile(ctx, path)
	if extraction.Failed() {
		s.metrics.ExtractionFailed(mimeType)
		return domain.SourceText{Source: source, Failure: extraction.Failure}
	}
	logger.Debug("Extracted %s as %s (%d bytes)", source, mimeType, len(extraction.Text))
	return domain.SourceText{Source: source, Text: extraction.Text}
}
