package driving

import (
	"context"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

// IngestService adds source documents to the corpus.
// A source identifier that was ingested before is skipped, even if its
// content has changed since.
type IngestService interface {
	// IngestText adds raw text under the given source identifier.
	IngestText(ctx context.Context, source, text string) (*domain.IngestResult, error)

	// IngestFile extracts and adds a single file. The source identifier is
	// the file's base name.
	IngestFile(ctx context.Context, path string) (*domain.IngestResult, error)

	// IngestURL downloads a source into the sources directory and adds it.
	// A failed download leaves the corpus unchanged.
	IngestURL(ctx context.Context, url string) (*domain.IngestResult, error)

	// IngestDirectory adds every regular file in dir that has not been
	// processed yet, in lexical order, as one batch. An empty dir means the
	// configured sources directory.
	IngestDirectory(ctx context.Context, dir string) (*domain.IngestResult, error)
}
