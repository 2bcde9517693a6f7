// Package ratelimit wraps an embedding service with a token bucket so remote
// providers are not called faster than a configured rate.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService throttles calls to an inner embedding service.
// Each Embed or EmbedBatch call consumes one token.
type EmbeddingService struct {
	inner  driven.EmbeddingService
	bucket *rate.Limiter
}

// Wrap returns inner throttled to perSecond requests. A non-positive rate
// returns inner unchanged.
func Wrap(inner driven.EmbeddingService, perSecond float64) driven.EmbeddingService {
	if perSecond <= 0 {
		return inner
	}
	return &EmbeddingService{
		inner:  inner,
		bucket: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Embed waits for a token, then embeds text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.bucket.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return s.inner.Embed(ctx, text)
}

// EmbedBatch waits for a token, then embeds texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.bucket.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return s.inner.EmbedBatch(ctx, texts)
}

// Dimensions returns the inner service's vector size.
func (s *EmbeddingService) Dimensions() int { return s.inner.Dimensions() }

// ModelName returns the inner service's model.
func (s *EmbeddingService) ModelName() string { return s.inner.ModelName() }

// Ping is not throttled.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close closes the inner service.
func (s *EmbeddingService) Close() error { return s.inner.Close() }
