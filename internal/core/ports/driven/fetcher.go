package driven

import (
	"context"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

// Fetcher downloads a source by URL into a directory.
type Fetcher interface {
	// Fetch saves the resource at url under destDir. Failures wrap
	// domain.ErrFetchFailed and leave no partial file behind.
	Fetch(ctx context.Context, url, destDir string) (domain.FetchResult, error)
}
