// Package openai provides an embedding service adapter for the OpenAI
// embeddings API and compatible servers.
package openai

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/embedding/httpapi"
	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Defaults.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the OpenAI embedding service.
type Config struct {
	// APIKey is required.
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// Dimensions requests shortened vectors from text-embedding-3-* models.
	Dimensions int

	// Retries after a 429 or 5xx; see httpapi.Options.
	Retries int
}

// EmbeddingService calls POST /embeddings.
type EmbeddingService struct {
	api        *httpapi.Client
	model      string
	dimensions int

	// shortened is set when the dimensions parameter is sent.
	shortened bool
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingRow struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

type embeddingResponse struct {
	Data []embeddingRow `json:"data"`
}

// NewEmbeddingService validates cfg and applies defaults.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w: API key is required", domain.ErrEmbeddingUnavailable)
	}
	model := cmp.Or(cfg.Model, DefaultModel)

	svc := &EmbeddingService{
		api: httpapi.New(httpapi.Options{
			Provider:     "openai",
			BaseURL:      cmp.Or(cfg.BaseURL, DefaultBaseURL),
			Timeout:      cmp.Or(cfg.Timeout, DefaultTimeout),
			Header:       http.Header{"Authorization": {"Bearer " + cfg.APIKey}},
			Retries:      cfg.Retries,
			ErrorMessage: errorMessage,
		}),
		model:      model,
		dimensions: domain.EmbeddingDimensions()[model],
	}
	if cfg.Dimensions > 0 && strings.HasPrefix(model, "text-embedding-3-") {
		svc.dimensions = cfg.Dimensions
		svc.shortened = true
	}
	return svc, nil
}

// errorMessage reads {"error":{"message":...}} bodies.
func errorMessage(body []byte) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return strings.TrimSpace(string(body))
}

// Embed embeds a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one request. Rows are placed by their index
// field, so the output follows input order whatever order the server uses.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := embeddingRequest{Model: s.model, Input: texts}
	if s.shortened {
		req.Dimensions = s.dimensions
	}
	var resp embeddingResponse
	if err := s.api.PostJSON(ctx, "/embeddings", req, &resp); err != nil {
		return nil, err
	}

	vecs := make([][]float32, len(texts))
	for _, row := range resp.Data {
		if row.Index < 0 || row.Index >= len(texts) {
			return nil, fmt.Errorf("openai: embedding index %d out of range", row.Index)
		}
		if s.dimensions > 0 && len(row.Embedding) != s.dimensions {
			return nil, fmt.Errorf("openai: %w: got %d values, want %d",
				domain.ErrDimensionMismatch, len(row.Embedding), s.dimensions)
		}
		vecs[row.Index] = httpapi.Float32s(row.Embedding)
	}
	for i, v := range vecs {
		if v == nil {
			return nil, fmt.Errorf("openai: missing embedding for input %d", i)
		}
	}
	return vecs, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the model name.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping lists models, which checks the key without running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.api.Probe(ctx, "/models")
}

// Close releases idle connections.
func (s *EmbeddingService) Close() error {
	s.api.Close()
	return nil
}
