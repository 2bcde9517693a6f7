package extractors

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/overlap-cli/internal/extractors/docx"
	"github.com/custodia-labs/overlap-cli/internal/extractors/html"
	"github.com/custodia-labs/overlap-cli/internal/extractors/markdown"
	"github.com/custodia-labs/overlap-cli/internal/extractors/pdf"
	"github.com/custodia-labs/overlap-cli/internal/extractors/plaintext"
)

// Verify interface compliance
var _ driven.ExtractorRegistry = (*Registry)(nil)

// OctetStream is reported for files whose type cannot be detected.
const OctetStream = "application/octet-stream"

// Registry implements ExtractorRegistry with priority-based selection.
// When multiple extractors match a MIME type, the highest priority one is used.
type Registry struct {
	mu         sync.RWMutex
	extractors []driven.Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make([]driven.Extractor, 0),
	}
}

// Default creates a registry with every built-in extractor registered.
func Default() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
	r.Register(pdf.New())
	return r
}

// Register adds an extractor.
func (r *Registry) Register(e driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.extractors = append(r.extractors, e)
}

// Get returns the highest priority extractor for mimeType, or nil.
func (r *Registry) Get(mimeType string) driven.Extractor {
	matches := r.GetAll(mimeType)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// GetAll returns all extractors matching mimeType, highest priority first.
func (r *Registry) GetAll(mimeType string) []driven.Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []driven.Extractor
	for _, e := range r.extractors {
		if matchesMIMEType(e.SupportedTypes(), mimeType) {
			matches = append(matches, e)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Priority() > matches[j].Priority()
	})
	return matches
}

// List returns all registered MIME types, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeSet := make(map[string]struct{})
	for _, e := range r.extractors {
		for _, t := range e.SupportedTypes() {
			typeSet[t] = struct{}{}
		}
	}

	types := make([]string, 0, len(typeSet))
	for t := range typeSet {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ExtractFile detects the type of path and runs the matching extractor.
// Unsupported types yield a failed extraction.
func (r *Registry) ExtractFile(ctx context.Context, path string) (domain.Extraction, string) {
	mimeType := DetectMIMEType(path)
	e := r.Get(mimeType)
	if e == nil {
		return domain.ExtractionFailed(fmt.Errorf("%w: %s", domain.ErrUnsupportedType, mimeType)), mimeType
	}
	return e.Extract(ctx, path, mimeType), mimeType
}

// knownTypes covers extensions that mime.TypeByExtension resolves
// inconsistently across platforms.
var knownTypes = map[string]string{
	".txt":      "text/plain",
	".text":     "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".htm":      "text/html",
	".html":     "text/html",
	".xhtml":    "application/xhtml+xml",
	".pdf":      "application/pdf",
	".docx":     docx.MIMEType,
	".csv":      "text/csv",
	".json":     "application/json",
}

// DetectMIMEType returns the MIME type of path based on its extension.
func DetectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := knownTypes[ext]; ok {
		return t
	}
	if ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return stripParams(t)
		}
	}
	return OctetStream
}

// matchesMIMEType checks if any of the supported types match the given MIME type.
// Supports wildcard matching (e.g., "text/*" matches "text/plain").
func matchesMIMEType(supportedTypes []string, mimeType string) bool {
	mimeType = stripParams(strings.ToLower(strings.TrimSpace(mimeType)))

	for _, supported := range supportedTypes {
		supported = strings.ToLower(strings.TrimSpace(supported))

		switch {
		case supported == mimeType, supported == "*/*":
			return true
		case strings.HasSuffix(supported, "/*"):
			if strings.HasPrefix(mimeType, supported[:len(supported)-1]) {
				return true
			}
		}
	}
	return false
}

func stripParams(mimeType string) string {
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		return strings.TrimSpace(mimeType[:idx])
	}
	return mimeType
}
