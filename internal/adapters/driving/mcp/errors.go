// Package mcp provides an MCP (Model Context Protocol) server adapter for overlap.
// It lets AI assistants check text against the local corpus and add sources to it.
package mcp

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

// ErrMissingCheckService is returned when the check service is not provided.
var ErrMissingCheckService = errors.New("mcp: check service is required")

// ErrIngestDisabled is returned by ingest tools when no ingest service is wired.
var ErrIngestDisabled = errors.New("mcp: ingestion is not enabled on this server")

// toolError turns a service error into a message an assistant can act on.
// The returned error is reported to the client as a tool error.
func toolError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNoCorpus):
		return fmt.Errorf("%s: the corpus is empty, ingest sources first: %w", op, err)
	case errors.Is(err, domain.ErrInvalidInput):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, domain.ErrFetchFailed):
		return fmt.Errorf("%s: could not download the source: %w", op, err)
	case errors.Is(err, domain.ErrDimensionMismatch):
		return fmt.Errorf("%s: the embedding model no longer matches the corpus: %w", op, err)
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		return fmt.Errorf("%s: the embedding provider is unavailable: %w", op, err)
	default:
		return fmt.Errorf("%s failed: %w", op, err)
	}
}
