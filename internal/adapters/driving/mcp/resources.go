package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

const (
	uriScheme    = "overlap://"
	statsURI     = uriScheme + "corpus/stats"
	documentsURI = uriScheme + "corpus/documents"

	// Templates for one document. {source} is percent-encoded.
	documentPrefix    = uriScheme + "documents/"
	sentencesSuffix   = "/sentences"
	documentTemplate  = documentPrefix + "{source}"
	sentencesTemplate = documentPrefix + "{source}" + sentencesSuffix

	mimeJSON = "application/json"
	mimeText = "text/plain"
)

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         statsURI,
		Name:        "corpus-stats",
		Description: "Document and sentence counts of the corpus",
		MIMEType:    mimeJSON,
	}, s.handleStatsResource)
	s.server.AddResource(&mcp.Resource{
		URI:         documentsURI,
		Name:        "corpus-documents",
		Description: "Documents ingested into the corpus",
		MIMEType:    mimeJSON,
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: documentTemplate,
		Name:        "document",
		Description: "Metadata of one ingested document",
		MIMEType:    mimeJSON,
	}, s.handleDocumentResource)
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: sentencesTemplate,
		Name:        "document-sentences",
		Description: "Sentences a document contributed to the corpus, one per line",
		MIMEType:    mimeText,
	}, s.handleSentencesResource)
}

// handleStatsResource reports zero counts when no corpus service is wired.
func (s *Server) handleStatsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	stats := &domain.CorpusStats{}
	if s.ports.Corpus != nil {
		var err error
		if stats, err = s.ports.Corpus.Stats(ctx); err != nil {
			return nil, fmt.Errorf("reading corpus stats: %w", err)
		}
	}
	return jsonContents(req.Params.URI, stats)
}

func (s *Server) handleDocumentsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	docs := []domain.Document{}
	if s.ports.Corpus != nil {
		listed, err := s.ports.Corpus.Documents(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing documents: %w", err)
		}
		docs = append(docs, listed...)
	}
	return jsonContents(req.Params.URI, docs)
}

func (s *Server) handleDocumentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	source, ok := parseDocumentURI(uri, "")
	if !ok || s.ports.Corpus == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	docs, err := s.ports.Corpus.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	for _, doc := range docs {
		if doc.Source == source {
			return jsonContents(uri, doc)
		}
	}
	return nil, mcp.ResourceNotFoundError(uri)
}

func (s *Server) handleSentencesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	source := extractSource(uri)
	if source == "" || s.ports.Corpus == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	sentences, err := s.ports.Corpus.Sentences(ctx, source)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, mcp.ResourceNotFoundError(uri)
	case err != nil:
		return nil, fmt.Errorf("reading sentences: %w", err)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{{
		URI:      uri,
		MIMEType: mimeText,
		Text:     strings.Join(sentences, "\n"),
	}}}, nil
}

func jsonContents(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{{
		URI:      uri,
		MIMEType: mimeJSON,
		Text:     string(data),
	}}}, nil
}

// extractSource returns the source named by a sentences URI, or "".
func extractSource(uri string) string {
	source, _ := parseDocumentURI(uri, sentencesSuffix)
	return source
}

// parseDocumentURI decodes {source} from documentPrefix + {source} + suffix.
// A source is a single path segment.
func parseDocumentURI(uri, suffix string) (string, bool) {
	rest, ok := strings.CutPrefix(uri, documentPrefix)
	if !ok {
		return "", false
	}
	if rest, ok = strings.CutSuffix(rest, suffix); !ok {
		return "", false
	}
	source, err := url.PathUnescape(rest)
	if err != nil || source == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return source, true
}
