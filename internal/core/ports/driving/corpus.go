package driving

import (
	"context"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

// CorpusService exposes read-only information about the corpus.
type CorpusService interface {
	// Stats summarises the corpus.
	Stats(ctx context.Context) (*domain.CorpusStats, error)

	// Documents lists ingested documents in ordinal order.
	Documents(ctx context.Context) ([]domain.Document, error)

	// Sentences returns the sentences of one document.
	Sentences(ctx context.Context, source string) ([]string, error)
}
