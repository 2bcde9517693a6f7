// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/styles"
)

const (
	defaultWidth  = 60
	defaultHeight = 6
	minWidth      = 20
)

// QueryInput wraps a bubbles textarea for multi-line query text.
type QueryInput struct {
	textarea textarea.Model
	styles   *styles.Styles
	width    int
}

// NewQueryInput creates a new, focused query editor.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ta := textarea.New()
	ta.Placeholder = "Paste or type the text to check..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(defaultWidth)
	ta.SetHeight(defaultHeight)
	ta.Focus()

	return &QueryInput{
		textarea: ta,
		styles:   s,
		width:    defaultWidth,
	}
}

// Init initialises the editor.
func (q *QueryInput) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles input messages.
func (q *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textarea, cmd = q.textarea.Update(msg)
	return q, cmd
}

// View renders the editor inside a frame that shows focus.
func (q *QueryInput) View() string {
	frame := q.styles.Editor
	if q.textarea.Focused() {
		frame = q.styles.EditorFocused
	}
	return frame.Render(q.textarea.View())
}

// Value returns the current text.
func (q *QueryInput) Value() string {
	return q.textarea.Value()
}

// SetValue replaces the current text.
func (q *QueryInput) SetValue(value string) {
	q.textarea.SetValue(value)
}

// Focus sets focus on the editor.
func (q *QueryInput) Focus() tea.Cmd {
	return q.textarea.Focus()
}

// Blur removes focus from the editor.
func (q *QueryInput) Blur() {
	q.textarea.Blur()
}

// Focused returns whether the editor is focused.
func (q *QueryInput) Focused() bool {
	return q.textarea.Focused()
}

// SetSize sets the editor size, frame excluded.
func (q *QueryInput) SetSize(width, height int) {
	// Border and padding take four columns.
	inner := width - 4
	if inner < minWidth {
		inner = minWidth
	}
	if height < 1 {
		height = 1
	}
	q.width = width
	q.textarea.SetWidth(inner)
	q.textarea.SetHeight(height)
}

// Width returns the current width.
func (q *QueryInput) Width() int {
	return q.width
}

// Reset clears the text.
func (q *QueryInput) Reset() {
	q.textarea.Reset()
}
