// Package ai provides factory functions for creating embedding service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/overlap-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/overlap-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/embedding/ratelimit"
	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the embedding service selected by settings,
// wrapped in a rate limiter when settings.RateLimit is positive.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no embedding settings", domain.ErrEmbeddingUnavailable)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: provider %q is not configured", domain.ErrEmbeddingUnavailable, settings.Provider)
	}

	var (
		svc driven.EmbeddingService
		err error
	)
	switch settings.Provider {
	case domain.EmbeddingProviderHashing:
		svc = hashing.NewEmbeddingService(hashing.Config{Dimensions: settings.Dimensions})

	case domain.EmbeddingProviderOllama:
		svc = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.EmbeddingProviderOpenAI:
		svc, err = openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %s", domain.ErrInvalidInput, settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	return ratelimit.Wrap(svc, settings.RateLimit), nil
}

// CreateAndValidateEmbeddingService creates an embedding service and checks
// it is reachable.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w. Run 'overlap config show' to check settings", err)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}
