// Package plaintext extracts text from plain text files.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text files.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "plaintext"
}

// SupportedTypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedTypes() []string {
	return []string{
		"text/*",
		"application/json",
		"application/xml",
	}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 5 // Fallback for any text type
}

// Extract reads the file as UTF-8 text.
func (e *Extractor) Extract(_ context.Context, path, _ string) domain.Extraction {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ExtractionFailed(fmt.Errorf("read %s: %w", path, err))
	}
	return domain.ExtractionOK(Clean(string(content)))
}

// Clean repairs invalid UTF-8, strips a byte order mark and normalises
// line endings.
func Clean(content string) string {
	content = strings.ToValidUTF8(content, "�")
	content = strings.TrimPrefix(content, "\uFEFF")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.TrimSpace(content)
}
