package driven

import (
	"context"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

// CorpusStore persists the corpus index: documents, the flat sentence list,
// the sentence index and the embedding matrix.
type CorpusStore interface {
	// Load reads the full corpus. An empty store returns an empty snapshot.
	Load(ctx context.Context) (*domain.CorpusSnapshot, error)

	// Append writes a staged batch atomically. Either every document,
	// sentence and embedding row is persisted, or none is.
	Append(ctx context.Context, batch *domain.CorpusAppend) error

	// Close releases resources.
	Close() error
}
