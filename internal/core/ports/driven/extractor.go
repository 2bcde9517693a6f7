package driven

import (
	"context"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

// Extractor pulls plain text out of a source file.
// Extract never returns a Go error: a failure is reported through
// domain.Extraction.Failure with empty text.
type Extractor interface {
	// Name identifies the extractor in logs.
	Name() string

	// SupportedTypes returns the MIME types handled, wildcards allowed ("text/*").
	SupportedTypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific extractors return 50-89, fallbacks 1-9.
	Priority() int

	// Extract reads the file at path.
	Extract(ctx context.Context, path, mimeType string) domain.Extraction
}

// ExtractorRegistry selects extractors by MIME type.
type ExtractorRegistry interface {
	// Register adds an extractor.
	Register(e Extractor)

	// Get returns the highest priority extractor for mimeType, or nil.
	Get(mimeType string) Extractor

	// List returns every registered MIME type.
	List() []string

	// ExtractFile detects the MIME type of path and runs the matching
	// extractor. Unsupported types yield a failed extraction wrapping
	// domain.ErrUnsupportedType. The detected type is returned alongside.
	ExtractFile(ctx context.Context, path string) (domain.Extraction, string)
}
