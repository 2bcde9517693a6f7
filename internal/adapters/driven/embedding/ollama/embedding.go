// Package ollama provides an embedding service adapter using Ollama.
package ollama

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/embedding/httpapi"
	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Defaults.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "nomic-embed-text"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the Ollama embedding service.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration

	// Dimensions is the expected vector size. Zero means the size of the
	// model's first response.
	Dimensions int

	// Retries after a 429 or 5xx; see httpapi.Options.
	Retries int
}

// EmbeddingService calls POST /api/embed, which takes a whole batch.
type EmbeddingService struct {
	api   *httpapi.Client
	model string

	mu         sync.RWMutex
	dimensions int
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// NewEmbeddingService applies defaults to cfg.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	model := cmp.Or(cfg.Model, DefaultModel)
	return &EmbeddingService{
		api: httpapi.New(httpapi.Options{
			Provider:     "ollama",
			BaseURL:      cmp.Or(cfg.BaseURL, DefaultBaseURL),
			Timeout:      cmp.Or(cfg.Timeout, DefaultTimeout),
			Retries:      cfg.Retries,
			ErrorMessage: errorMessage,
		}),
		model:      model,
		dimensions: cmp.Or(cfg.Dimensions, domain.EmbeddingDimensions()[model]),
	}
}

// errorMessage reads {"error":"..."} bodies and falls back to plain text.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
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

// EmbedBatch embeds all texts in a single request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp embedResponse
	if err := s.api.PostJSON(ctx, "/api/embed", embedRequest{Model: s.model, Input: texts}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama: got %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}

	vecs := make([][]float32, 0, len(texts))
	for _, raw := range resp.Embeddings {
		if err := s.observe(len(raw)); err != nil {
			return nil, err
		}
		vecs = append(vecs, httpapi.Float32s(raw))
	}
	return vecs, nil
}

// observe fixes the dimension on first use and checks it afterwards.
func (s *EmbeddingService) observe(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.dimensions {
	case 0:
		s.dimensions = n
	case n:
	default:
		return fmt.Errorf("ollama: %w: model %s returned %d values, want %d",
			domain.ErrDimensionMismatch, s.model, n, s.dimensions)
	}
	return nil
}

// Dimensions returns the embedding vector size, 0 until known.
func (s *EmbeddingService) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimensions
}

// ModelName returns the model name.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping queries /api/tags, which answers without loading the model.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.api.Probe(ctx, "/api/tags")
}

// Close releases idle connections.
func (s *EmbeddingService) Close() error {
	s.api.Close()
	return nil
}
