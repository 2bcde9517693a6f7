// Package tui provides an interactive terminal user interface for overlap.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Check runs overlap checks. Required.
	Check driving.CheckService

	// Corpus lists ingested documents. Optional.
	Corpus driving.CorpusService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Check == nil {
		return ErrMissingCheckService
	}
	return nil
}
