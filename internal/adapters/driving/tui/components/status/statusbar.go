// Package status renders the one-line status bar under the check view.
package status

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/styles"
)

// State is what the bar is showing.
type State string

const (
	StateReady    State = "ready"
	StateChecking State = "checking"
	StateReport   State = "report"
	StateError    State = "error"
	StateHelp     State = "help"
)

// minGap separates the status text from the key hints.
const minGap = 2

type figures struct {
	percentage      float64
	sentences       int
	corpusSentences int
}

// Bar is a passive component; views drive it through its setters.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	state         State
	message       string
	report        figures
	reportFocused bool
	width         int
}

// NewBar creates a status bar. Nil arguments select the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	h := help.New()
	h.ShortSeparator = " | "
	h.Styles.ShortKey = s.Muted
	h.Styles.ShortDesc = s.Muted
	h.Styles.ShortSeparator = s.Muted

	return &Bar{styles: s, keymap: km, help: h, state: StateReady, width: 80}
}

// View renders the bar at its current width. Key hints are dropped when
// they do not fit next to the status text.
func (b *Bar) View() string {
	inner := max(b.width-b.styles.StatusBar.GetHorizontalFrameSize(), 0)

	status := b.status()
	hints := b.hints()
	gap := inner - lipgloss.Width(status) - lipgloss.Width(hints)
	if gap < minGap {
		hints, gap = "", inner-lipgloss.Width(status)
	}
	line := status
	if hints != "" {
		line += fmt.Sprintf("%*s", gap, "") + hints
	}

	return b.styles.StatusBar.Width(b.width).MaxHeight(1).Render(
		lipgloss.NewStyle().MaxWidth(inner).Render(line),
	)
}

func (b *Bar) status() string {
	s := b.styles
	switch b.state {
	case StateChecking:
		return s.Muted.Render("Checking...")
	case StateError:
		if b.message == "" {
			return s.Error.Render("Error")
		}
		return s.Error.Render("Error: " + b.message)
	case StateHelp:
		return s.Normal.Render("Help")
	case StateReport:
		r := b.report
		label := "Overlap " + strconv.FormatFloat(r.percentage, 'f', -1, 64) + "%"
		return s.Percentage(label, r.percentage) +
			s.Muted.Render(fmt.Sprintf("  %d sentences vs %d in corpus", r.sentences, r.corpusSentences))
	default:
		if b.message != "" {
			return s.Muted.Render(b.message)
		}
		return s.Muted.Render("Ready")
	}
}

func (b *Bar) hints() string {
	if b.state == StateReport && b.reportFocused {
		return b.help.ShortHelpView(b.keymap.ReportHelp())
	}
	return b.help.ShortHelpView(b.keymap.ShortHelp())
}

// SetState sets the current state.
func (b *Bar) SetState(state State) { b.state = state }

// State returns the current state.
func (b *Bar) State() State { return b.state }

// SetMessage sets the text shown in the ready and error states.
func (b *Bar) SetMessage(message string) { b.message = message }

// Message returns the current message.
func (b *Bar) Message() string { return b.message }

// SetReport switches to the report state with the given figures.
func (b *Bar) SetReport(percentage float64, sentences, corpusSentences int) {
	b.state = StateReport
	b.report = figures{percentage: percentage, sentences: sentences, corpusSentences: corpusSentences}
}

// Percentage returns the last reported overlap percentage.
func (b *Bar) Percentage() float64 { return b.report.percentage }

// SetReportFocused selects the report navigation hints.
func (b *Bar) SetReportFocused(focused bool) { b.reportFocused = focused }

// SetWidth sets the bar width.
func (b *Bar) SetWidth(width int) { b.width = width }

// Width returns the bar width.
func (b *Bar) Width() int { return b.width }

// Clear returns to the ready state with no message or figures.
func (b *Bar) Clear() {
	*b = Bar{styles: b.styles, keymap: b.keymap, help: b.help, state: StateReady, width: b.width}
}
