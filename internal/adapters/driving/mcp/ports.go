package mcp

import (
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Check runs overlap checks.
	Check driving.CheckService

	// Ingest adds sources to the corpus. Optional; ingest tools report
	// ErrIngestDisabled without it.
	Ingest driving.IngestService

	// Corpus reports corpus statistics. Optional.
	Corpus driving.CorpusService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Check == nil {
		return ErrMissingCheckService
	}
	return nil
}
