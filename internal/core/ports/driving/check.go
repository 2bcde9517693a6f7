package driving

import (
	"context"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

// CheckService checks query text against the corpus.
type CheckService interface {
	// Check reports the overlapping spans of every query sentence and the
	// aggregate overlap percentage. It returns domain.ErrNoCorpus when the
	// corpus holds no sentences. Empty text yields an empty report.
	Check(ctx context.Context, text string) (*domain.Report, error)

	// CheckTopK is Check with an explicit candidate count. A non-positive
	// topK uses the configured default.
	CheckTopK(ctx context.Context, text string, topK int) (*domain.Report, error)
}
