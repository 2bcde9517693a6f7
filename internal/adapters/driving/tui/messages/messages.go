// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

// CheckRequested asks for the query text to be checked.
type CheckRequested struct {
	Text string
}

// CheckCompleted carries a check report back to the model.
type CheckCompleted struct {
	Report *domain.Report
	Err    error
}

// CorpusLoaded carries corpus statistics and documents.
type CorpusLoaded struct {
	Stats     *domain.CorpusStats
	Documents []domain.Document
	Err       error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewCheck is the query input and highlighted report view.
	ViewCheck ViewType = iota
	// ViewCorpus lists ingested documents.
	ViewCorpus
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewCheck:
		return "check"
	case ViewCorpus:
		return "corpus"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
