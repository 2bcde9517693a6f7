package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is an in-memory implementation of driven.CorpusStore.
// It is used in tests and for throwaway sessions.
type CorpusStore struct {
	mu      sync.RWMutex
	corpus  domain.CorpusSnapshot
	appends int

	// FailNextAppend makes the next Append return this error without writing.
	FailNextAppend error
}

// NewCorpusStore creates an empty in-memory corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{}
}

// Load returns a copy of the stored corpus.
func (s *CorpusStore) Load(_ context.Context) (*domain.CorpusSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &domain.CorpusSnapshot{
		Documents:  append([]domain.Document(nil), s.corpus.Documents...),
		Sentences:  append([]string(nil), s.corpus.Sentences...),
		Refs:       append([]domain.SentenceRef(nil), s.corpus.Refs...),
		Embeddings: make([][]float32, len(s.corpus.Embeddings)),
		Model:      s.corpus.Model,
		Dims:       s.corpus.Dims,
	}
	for i, row := range s.corpus.Embeddings {
		snap.Embeddings[i] = append([]float32(nil), row...)
	}
	return snap, nil
}

// Append adds a staged batch. Positions must continue the flat list.
func (s *CorpusStore) Append(_ context.Context, batch *domain.CorpusAppend) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.FailNextAppend; err != nil {
		s.FailNextAppend = nil
		return err
	}
	if batch == nil || batch.Empty() {
		return nil
	}

	next := len(s.corpus.Sentences)
	for i, sent := range batch.Sentences {
		if sent.Position != next+i {
			return fmt.Errorf("%w: sentence position %d, want %d", domain.ErrCorpusInconsistent, sent.Position, next+i)
		}
	}
	if s.corpus.Dims > 0 && batch.Dimensions > 0 && batch.Dimensions != s.corpus.Dims {
		return fmt.Errorf("%w: batch has %d dimensions, corpus has %d",
			domain.ErrDimensionMismatch, batch.Dimensions, s.corpus.Dims)
	}

	s.corpus.Documents = append(s.corpus.Documents, batch.Documents...)
	for _, sent := range batch.Sentences {
		s.corpus.Sentences = append(s.corpus.Sentences, sent.Text)
		s.corpus.Refs = append(s.corpus.Refs, sent.Ref)
		s.corpus.Embeddings = append(s.corpus.Embeddings, append([]float32(nil), sent.Embedding...))
	}
	if s.corpus.Dims == 0 && batch.Dimensions > 0 {
		s.corpus.Dims = batch.Dimensions
	}
	if s.corpus.Model == "" {
		s.corpus.Model = batch.Model
	}
	s.appends++
	return nil
}

// Appends returns how many non-empty batches were written.
func (s *CorpusStore) Appends() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.appends
}

// Close is a no-op.
func (s *CorpusStore) Close() error {
	return nil
}
