package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

// CheckInput is the input schema for the check_overlap tool.
type CheckInput struct {
	Text string `json:"text" jsonschema:"the text to check against the corpus"`
	TopK int    `json:"top_k,omitempty" jsonschema:"how many corpus sentences to compare against (default from config)"`
}

// CheckOutput is the output schema for the check_overlap tool.
type CheckOutput struct {
	Percentage float64          `json:"percentage"`
	Sentences  []SentenceOutput `json:"sentences"`
	Sources    []SourceOutput   `json:"sources"`
}

// SentenceOutput is one query sentence with its overlapping parts.
type SentenceOutput struct {
	Text     string   `json:"text"`
	Overlaps []string `json:"overlaps,omitempty"`
}

// SourceOutput is a corpus sentence the query was compared against.
type SourceOutput struct {
	Source string  `json:"source"`
	Score  float64 `json:"score"`
	Text   string  `json:"text"`
}

// IngestTextInput is the input schema for the ingest_text tool.
type IngestTextInput struct {
	Source string `json:"source" jsonschema:"a unique name for the text, used to skip repeats"`
	Text   string `json:"text" jsonschema:"the text to add to the corpus"`
}

// IngestURLInput is the input schema for the ingest_url tool.
type IngestURLInput struct {
	URL string `json:"url" jsonschema:"an http or https URL to download and add to the corpus"`
}

// IngestOutput is the output schema for the ingest tools.
type IngestOutput struct {
	Added     []string `json:"added"`
	Skipped   []string `json:"skipped,omitempty"`
	Failed    []string `json:"failed,omitempty"`
	Sentences int      `json:"sentences"`
}

// StatsInput is the (empty) input schema for the corpus_stats tool.
type StatsInput struct{}

// maxSources caps the corpus sentences returned by check_overlap.
const maxSources = 10

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_overlap",
		Description: "Check text for overlap with the ingested corpus and return the overlapping parts and percentage",
	}, s.handleCheck)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_text",
		Description: "Add a piece of text to the corpus under a source name",
	}, s.handleIngestText)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_url",
		Description: "Download a document (pdf, html, text) and add it to the corpus",
	}, s.handleIngestURL)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "corpus_stats",
		Description: "Report how many documents and sentences the corpus holds",
	}, s.handleStats)
}

// handleCheck handles the check_overlap tool invocation.
func (s *Server) handleCheck(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CheckInput,
) (*mcp.CallToolResult, CheckOutput, error) {
	report, err := s.ports.Check.CheckTopK(ctx, input.Text, input.TopK)
	if err != nil {
		return nil, CheckOutput{}, toolError("check_overlap", err)
	}
	return nil, checkOutput(report), nil
}

// handleIngestText handles the ingest_text tool invocation.
func (s *Server) handleIngestText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestTextInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestOutput{}, ErrIngestDisabled
	}
	result, err := s.ports.Ingest.IngestText(ctx, input.Source, input.Text)
	if err != nil {
		return nil, IngestOutput{}, toolError("ingest_text", err)
	}
	return nil, ingestOutput(result), nil
}

// handleIngestURL handles the ingest_url tool invocation.
func (s *Server) handleIngestURL(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestURLInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestOutput{}, ErrIngestDisabled
	}
	result, err := s.ports.Ingest.IngestURL(ctx, input.URL)
	if err != nil {
		return nil, IngestOutput{}, toolError("ingest_url", err)
	}
	return nil, ingestOutput(result), nil
}

// handleStats handles the corpus_stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, domain.CorpusStats, error) {
	if s.ports.Corpus == nil {
		return nil, domain.CorpusStats{}, nil
	}
	stats, err := s.ports.Corpus.Stats(ctx)
	if err != nil {
		return nil, domain.CorpusStats{}, toolError("corpus_stats", err)
	}
	return nil, *stats, nil
}

func checkOutput(report *domain.Report) CheckOutput {
	out := CheckOutput{
		Percentage: report.Percentage,
		Sentences:  make([]SentenceOutput, len(report.Sentences)),
		Sources:    make([]SourceOutput, 0, min(len(report.Candidates), maxSources)),
	}
	for i, sr := range report.Sentences {
		out.Sentences[i] = SentenceOutput{Text: sr.Text}
		for _, seg := range sr.Segments {
			if seg.Kind == domain.SegmentOverlap {
				out.Sentences[i].Overlaps = append(out.Sentences[i].Overlaps, strings.TrimSpace(seg.Text))
			}
		}
	}
	for i, c := range report.Candidates {
		if i == maxSources {
			break
		}
		out.Sources = append(out.Sources, SourceOutput{Source: c.Source, Score: c.Score, Text: c.Text})
	}
	return out
}

func ingestOutput(result *domain.IngestResult) IngestOutput {
	out := IngestOutput{
		Added:     make([]string, len(result.Added)),
		Skipped:   result.Skipped,
		Sentences: result.Sentences,
	}
	for i, d := range result.Added {
		out.Added[i] = d.Source
	}
	for _, f := range result.Failed {
		out.Failed = append(out.Failed, f.Source+": "+f.Reason)
	}
	return out
}
