package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driving"
	"github.com/custodia-labs/overlap-cli/internal/logger"
	"github.com/custodia-labs/overlap-cli/internal/overlap"
	"github.com/custodia-labs/overlap-cli/internal/retrieval"
)

// Ensure CheckService implements the interface.
var _ driving.CheckService = (*CheckService)(nil)

// CheckService retrieves candidate corpus sentences for a query and
// highlights the shared phrases.
type CheckService struct {
	index     *CorpusIndex
	splitter  driven.SentenceSplitter
	embedder  driven.EmbeddingService
	metrics   driven.MetricsRecorder
	topK      int
	batchSize int
}

// NewCheckService creates a new check service.
func NewCheckService(
	index *CorpusIndex,
	splitter driven.SentenceSplitter,
	embedder driven.EmbeddingService,
	metrics driven.MetricsRecorder,
	settings domain.CheckSettings,
) *CheckService {
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}
	if settings.TopK <= 0 {
		settings.TopK = domain.DefaultTopK
	}
	if settings.QueryBatchSize <= 0 {
		settings.QueryBatchSize = domain.DefaultQueryBatchSize
	}
	return &CheckService{
		index:     index,
		splitter:  splitter,
		embedder:  embedder,
		metrics:   metrics,
		topK:      settings.TopK,
		batchSize: settings.QueryBatchSize,
	}
}

// Check reports the overlap of text with the corpus using the configured top-k.
func (s *CheckService) Check(ctx context.Context, text string) (*domain.Report, error) {
	return s.CheckTopK(ctx, text, 0)
}

// CheckTopK reports the overlap of text with the topK best corpus sentences.
func (s *CheckService) CheckTopK(ctx context.Context, text string, topK int) (*domain.Report, error) {
	start := time.Now()
	if topK <= 0 {
		topK = s.topK
	}

	sentences := s.splitter.Split(text)
	if len(sentences) == 0 {
		return &domain.Report{
			Highlight:  domain.Highlight{Sentences: []domain.SentenceReport{}},
			Candidates: []domain.Candidate{},
		}, nil
	}

	snap, err := s.index.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap.Len() == 0 {
		return nil, domain.ErrNoCorpus
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	logger.Section("Check")
	logger.Debug("Query: %d sentences, corpus: %d sentences, top-k %d", len(sentences), snap.Len(), topK)

	done := logger.Timed("embed query")
	query, err := embedBatches(ctx, s.embedder, sentences, s.batchSize)
	done()
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if dims := snap.Dimensions(); len(query) > 0 && len(query[0]) != dims {
		return nil, fmt.Errorf("%w: query embeddings have %d values, corpus uses %d (model %q); "+
			"the embedding model may have changed since ingestion",
			domain.ErrDimensionMismatch, len(query[0]), dims, snap.Model)
	}

	ranked, err := retrieval.RankChecked(query, snap.Embeddings, topK)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Candidate, 0, len(ranked))
	texts := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ref := snap.Refs[r.Index]
		doc, _ := snap.DocumentByOrdinal(ref.Document)
		candidates = append(candidates, domain.Candidate{
			Position: r.Index,
			Source:   doc.Source,
			Ref:      ref,
			Score:    r.Score,
			Text:     snap.Sentences[r.Index],
		})
		texts = append(texts, snap.Sentences[r.Index])
	}

	done = logger.Timed("highlight")
	highlight := overlap.Highlight(sentences, texts)
	done()

	report := &domain.Report{
		Highlight:       highlight,
		Candidates:      candidates,
		CorpusSentences: snap.Len(),
		Duration:        time.Since(start),
	}
	s.metrics.CheckCompleted(report.Percentage, report.Duration)
	logger.Info("Overlap %.2f%% against %d candidates", report.Percentage, len(candidates))

	return report, nil
}
