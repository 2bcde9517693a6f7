package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driving"
	"github.com/custodia-labs/overlap-cli/internal/logger"
)

// Ensure CorpusIndex implements the interface.
var _ driving.CorpusService = (*CorpusIndex)(nil)

// CorpusIndex is the in-memory corpus backed by a CorpusStore.
// Writers are serialized; readers get immutable snapshots.
type CorpusIndex struct {
	store     driven.CorpusStore
	splitter  driven.SentenceSplitter
	embedder  driven.EmbeddingService
	metrics   driven.MetricsRecorder
	batchSize int

	now   func() time.Time
	newID func() string

	// writeMu serializes AddDocuments calls end to end.
	writeMu sync.Mutex

	// mu guards snap and loaded.
	mu     sync.RWMutex
	loaded bool
	snap   domain.CorpusSnapshot
}

// CorpusOption configures a CorpusIndex.
type CorpusOption func(*CorpusIndex)

// WithMetrics sets the metrics recorder.
func WithMetrics(m driven.MetricsRecorder) CorpusOption {
	return func(c *CorpusIndex) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithBatchSize sets the embedding batch size used during ingestion.
func WithBatchSize(n int) CorpusOption {
	return func(c *CorpusIndex) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithClock overrides the ingestion timestamp source.
func WithClock(now func() time.Time) CorpusOption {
	return func(c *CorpusIndex) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCorpusIndex creates a corpus index. The store is read lazily on first use.
func NewCorpusIndex(
	store driven.CorpusStore,
	splitter driven.SentenceSplitter,
	embedder driven.EmbeddingService,
	opts ...CorpusOption,
) *CorpusIndex {
	c := &CorpusIndex{
		store:     store,
		splitter:  splitter,
		embedder:  embedder,
		metrics:   driven.NopMetrics{},
		batchSize: domain.DefaultIngestBatchSize,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a read-only view of the corpus. Later appends never
// change a snapshot already handed out.
func (c *CorpusIndex) Snapshot(ctx context.Context) (*domain.CorpusSnapshot, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view(), nil
}

// Processed reports whether source has already been ingested.
func (c *CorpusIndex) Processed(ctx context.Context, source string) (bool, error) {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	return snap.Processed(source), nil
}

// AddDocuments ingests texts as one all-or-nothing batch. Sources already
// processed, and repeats within texts, are skipped. Documents without
// sentences are still recorded so they are never retried.
func (c *CorpusIndex) AddDocuments(ctx context.Context, texts []domain.SourceText) (*domain.IngestResult, error) {
	if c.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.RLock()
	snap := c.view()
	c.mu.RUnlock()

	result := &domain.IngestResult{}
	staged := &domain.CorpusAppend{
		Model:      snap.Model,
		Dimensions: snap.Dimensions(),
	}
	if staged.Model == "" {
		staged.Model = c.embedder.ModelName()
	}

	seen := make(map[string]struct{}, len(texts))
	ordinal := snap.NextOrdinal()
	position := snap.Len()

	for _, st := range texts {
		if st.Source == "" {
			return nil, fmt.Errorf("%w: empty source identifier", domain.ErrInvalidInput)
		}
		if _, dup := seen[st.Source]; dup || snap.Processed(st.Source) {
			logger.Debug("Skipping already processed source %s", st.Source)
			result.Skipped = append(result.Skipped, st.Source)
			continue
		}
		seen[st.Source] = struct{}{}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sentences := c.split(st.Text)
		rows, err := c.embed(ctx, sentences)
		if err != nil {
			return nil, fmt.Errorf("embedding %s: %w", st.Source, err)
		}
		for i, row := range rows {
			if staged.Dimensions == 0 {
				staged.Dimensions = len(row)
			}
			if len(row) != staged.Dimensions {
				return nil, fmt.Errorf("%w: %s sentence %d has %d values, corpus uses %d",
					domain.ErrDimensionMismatch, st.Source, i, len(row), staged.Dimensions)
			}
		}

		doc := domain.Document{
			Ordinal:       ordinal,
			ID:            c.newID(),
			Source:        st.Source,
			SentenceCount: len(sentences),
			Failure:       st.Failure,
			IngestedAt:    c.now().UTC(),
		}
		staged.Documents = append(staged.Documents, doc)
		for i, text := range sentences {
			staged.Sentences = append(staged.Sentences, domain.Sentence{
				Position:  position,
				Ref:       domain.SentenceRef{Document: ordinal, Ordinal: i},
				Text:      text,
				Embedding: rows[i],
			})
			position++
		}
		ordinal++

		if st.Failure != "" {
			logger.Warn("Extraction failed for %s: %s", st.Source, st.Failure)
			result.Failed = append(result.Failed, domain.SourceFailure{Source: st.Source, Reason: st.Failure})
		} else {
			logger.Debug("Staged %s: %d sentences", st.Source, len(sentences))
		}
	}

	if staged.Empty() {
		return result, nil
	}

	if err := c.store.Append(ctx, staged); err != nil {
		return nil, fmt.Errorf("saving corpus: %w", err)
	}

	c.mu.Lock()
	c.extend(staged)
	c.mu.Unlock()

	result.Added = staged.Documents
	result.Sentences = len(staged.Sentences)
	c.metrics.DocumentsIngested(len(staged.Documents))
	c.metrics.SentencesIngested(len(staged.Sentences))
	logger.Info("Added %d documents, %d sentences", len(staged.Documents), len(staged.Sentences))

	return result, nil
}

// Stats summarises the corpus.
func (c *CorpusIndex) Stats(ctx context.Context) (*domain.CorpusStats, error) {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.CorpusStats{
		Documents:  len(snap.Documents),
		Sentences:  snap.Len(),
		Dimensions: snap.Dimensions(),
		Model:      snap.Model,
	}
	for _, d := range snap.Documents {
		if d.Failure != "" {
			stats.Failed++
		}
	}
	return stats, nil
}

// Documents lists ingested documents in ordinal order.
func (c *CorpusIndex) Documents(ctx context.Context) ([]domain.Document, error) {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return append([]domain.Document(nil), snap.Documents...), nil
}

// Sentences returns the sentences of the document ingested under source.
func (c *CorpusIndex) Sentences(ctx context.Context, source string) ([]string, error) {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	ordinal := -1
	for _, d := range snap.Documents {
		if d.Source == source {
			ordinal = d.Ordinal
			break
		}
	}
	if ordinal < 0 {
		return nil, fmt.Errorf("%w: document %q", domain.ErrNotFound, source)
	}

	var out []string
	for i, ref := range snap.Refs {
		if ref.Document == ordinal {
			out = append(out, snap.Sentences[i])
		}
	}
	return out, nil
}

func (c *CorpusIndex) ensureLoaded(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}

	done := logger.Timed("load corpus")
	snap, err := c.store.Load(ctx)
	done()
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}
	if snap != nil {
		c.snap = *snap
	}
	c.loaded = true
	logger.Debug("Corpus loaded: %d documents, %d sentences", len(c.snap.Documents), c.snap.Len())
	return nil
}

// view captures the current slice headers. Callers hold mu.
func (c *CorpusIndex) view() *domain.CorpusSnapshot {
	s := c.snap
	return &domain.CorpusSnapshot{
		Documents:  s.Documents[:len(s.Documents):len(s.Documents)],
		Sentences:  s.Sentences[:len(s.Sentences):len(s.Sentences)],
		Refs:       s.Refs[:len(s.Refs):len(s.Refs)],
		Embeddings: s.Embeddings[:len(s.Embeddings):len(s.Embeddings)],
		Model:      s.Model,
		Dims:       s.Dims,
	}
}

// extend applies a persisted batch to the in-memory corpus. Callers hold mu.
func (c *CorpusIndex) extend(batch *domain.CorpusAppend) {
	c.snap.Documents = append(c.snap.Documents, batch.Documents...)
	for _, s := range batch.Sentences {
		c.snap.Sentences = append(c.snap.Sentences, s.Text)
		c.snap.Refs = append(c.snap.Refs, s.Ref)
		c.snap.Embeddings = append(c.snap.Embeddings, s.Embedding)
	}
	if c.snap.Model == "" {
		c.snap.Model = batch.Model
	}
	if c.snap.Dims == 0 {
		c.snap.Dims = batch.Dimensions
	}
}

func (c *CorpusIndex) split(text string) []string {
	if text == "" || c.splitter == nil {
		return nil
	}
	return c.splitter.Split(text)
}

// embed embeds sentences in batches of batchSize. Empty input makes no calls.
func (c *CorpusIndex) embed(ctx context.Context, sentences []string) ([][]float32, error) {
	return embedBatches(ctx, c.embedder, sentences, c.batchSize)
}

// embedBatches runs EmbedBatch over consecutive chunks of texts and checks
// that every chunk returns one row per text.
func embedBatches(ctx context.Context, embedder driven.EmbeddingService, texts []string, size int) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if size <= 0 {
		size = len(texts)
	}

	rows := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		batch, err := embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("%w: got %d embeddings for %d sentences",
				domain.ErrEmbeddingUnavailable, len(batch), end-start)
		}
		rows = append(rows, batch...)
	}
	return rows, nil
}
