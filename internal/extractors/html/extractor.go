// Package html extracts readable text from HTML documents. Article content
// is isolated with go-readability; pages it cannot parse fall back to
// stripping tags.
package html

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles HTML documents.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "html"
}

// SupportedTypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedTypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Higher than plaintext
}

// Extract reads the file and returns its article text.
func (e *Extractor) Extract(_ context.Context, path, _ string) domain.Extraction {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ExtractionFailed(fmt.Errorf("read %s: %w", path, err))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return domain.ExtractionOK(Text(string(content), &url.URL{Scheme: "file", Path: abs}))
}

// Text returns the readable text of an HTML page. pageURL resolves
// relative links and may be nil.
func Text(content string, pageURL *url.URL) string {
	if pageURL == nil {
		pageURL = &url.URL{Scheme: "file", Path: "/"}
	}
	article, err := readability.FromReader(strings.NewReader(content), pageURL)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return text
		}
	}
	return Strip(content)
}

var (
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag       = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag            = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	closeBlocks       = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlocks        = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	breakTags         = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t]+`)
	multiNewlines     = regexp.MustCompile(`\n{3,}`)
	droppedContainers = []*regexp.Regexp{scriptTag, styleTag, noscriptTag, headTag, svgTag, htmlComments}
)

// Strip removes markup and returns the visible text. Block elements become
// blank-line separated paragraphs.
func Strip(content string) string {
	for _, re := range droppedContainers {
		content = re.ReplaceAllString(content, "")
	}
	content = openBlocks.ReplaceAllString(content, "\n\n")
	content = closeBlocks.ReplaceAllString(content, "\n\n")
	content = breakTags.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	content = multiNewlines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(content)
}
