package tui

import "errors"

// Error definitions for the TUI adapter.
var (
	// ErrMissingCheckService indicates the check service port is nil.
	ErrMissingCheckService = errors.New("tui: check service is required")

	// ErrInvalidPorts indicates the ports aggregate is nil.
	ErrInvalidPorts = errors.New("tui: invalid ports configuration")
)
