package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/splitter"
)

var errEmbed = errors.New("provider exploded")

// recordingEmbedder wraps the hashing embedder and records every batch.
type recordingEmbedder struct {
	*hashing.EmbeddingService

	mu      sync.Mutex
	batches []int
	// failOn makes the call with this 1-based index fail.
	failOn int
	calls  int
}

func newRecordingEmbedder(dims int) *recordingEmbedder {
	return &recordingEmbedder{EmbeddingService: hashing.NewEmbeddingService(hashing.Config{Dimensions: dims})}
}

func (e *recordingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	call := e.calls
	e.batches = append(e.batches, len(texts))
	e.mu.Unlock()

	if e.failOn > 0 && call == e.failOn {
		return nil, errEmbed
	}
	return e.EmbeddingService.EmbedBatch(ctx, texts)
}

func (e *recordingEmbedder) batchSizes() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]int(nil), e.batches...)
}

type testEnv struct {
	store    *memory.CorpusStore
	embedder *recordingEmbedder
	index    *CorpusIndex
}

func newTestEnv(t *testing.T, opts ...CorpusOption) *testEnv {
	t.Helper()
	store := memory.NewCorpusStore()
	embedder := newRecordingEmbedder(64)
	return &testEnv{
		store:    store,
		embedder: embedder,
		index:    NewCorpusIndex(store, splitter.NewDefault(1), embedder, opts...),
	}
}

// numbered returns n distinct sentences joined into one text.
func numbered(prefix string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("%s sentence number %d is here.", prefix, i+1)
	}
	return strings.Join(parts, " ")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// stubFetcher writes a fixed body into destDir or fails.
type stubFetcher struct {
	name string
	body string
	err  error
}

func (f *stubFetcher) Fetch(_ context.Context, url, destDir string) (domain.FetchResult, error) {
	if f.err != nil {
		return domain.FetchResult{}, fmt.Errorf("%w: %s: %w", domain.ErrFetchFailed, url, f.err)
	}
	path := filepath.Join(destDir, f.name)
	if err := os.WriteFile(path, []byte(f.body), 0o644); err != nil {
		return domain.FetchResult{}, err
	}
	return domain.FetchResult{URL: url, Path: path, MIMEType: "text/plain", Bytes: int64(len(f.body))}, nil
}

// countingMetrics records metric calls.
type countingMetrics struct {
	mu          sync.Mutex
	documents   int
	sentences   int
	failures    map[string]int
	checks      int
	percentages []float64
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{failures: make(map[string]int)}
}

func (m *countingMetrics) DocumentsIngested(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents += n
}

func (m *countingMetrics) SentencesIngested(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sentences += n
}

func (m *countingMetrics) ExtractionFailed(mimeType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[mimeType]++
}

func (m *countingMetrics) CheckCompleted(percentage float64, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks++
	m.percentages = append(m.percentages, percentage)
}
