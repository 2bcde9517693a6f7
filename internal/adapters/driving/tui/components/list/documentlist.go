// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

// DocumentList displays ingested documents in a navigable list.
type DocumentList struct {
	documents []domain.Document
	selected  int
	styles    *styles.Styles
	width     int
	height    int
}

// NewDocumentList creates a new document list component.
func NewDocumentList(s *styles.Styles) *DocumentList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &DocumentList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the document list.
func (d *DocumentList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (d *DocumentList) Update(msg tea.Msg) (*DocumentList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			d.MoveUp()
		case "down", "j":
			d.MoveDown()
		}
	}
	return d, nil
}

// View renders the visible window of the list around the selection.
func (d *DocumentList) View() string {
	if len(d.documents) == 0 {
		return d.styles.Muted.Render("No documents ingested")
	}

	// Each document takes one line, plus one for a failure reason.
	visible := d.height / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if d.selected >= visible {
		start = d.selected - visible + 1
	}
	end := min(start+visible, len(d.documents))

	lines := make([]string, 0, (end-start)*2)
	for i := start; i < end; i++ {
		lines = append(lines, d.renderDocument(i, &d.documents[i]))
	}
	return strings.Join(lines, "\n")
}

func (d *DocumentList) renderDocument(index int, doc *domain.Document) string {
	nameWidth := d.width - 24
	if nameWidth < 10 {
		nameWidth = 10
	}
	name := doc.Source
	if r := []rune(name); len(r) > nameWidth {
		name = string(r[:nameWidth-3]) + "..."
	}

	indicator := "  "
	if index == d.selected {
		indicator = "> "
	}
	count := fmt.Sprintf("%6d sentences", doc.SentenceCount)

	var line string
	if index == d.selected {
		line = d.styles.Selected.Render(fmt.Sprintf("%s%-*s %s", indicator, nameWidth, name, count))
	} else {
		line = d.styles.Normal.Render(fmt.Sprintf("%s%-*s ", indicator, nameWidth, name)) +
			d.styles.Muted.Render(count)
	}

	if doc.Failure != "" {
		line += "\n" + d.styles.Error.Render("    "+doc.Failure)
	}
	return line
}

// SetDocuments replaces the list contents and resets the selection.
func (d *DocumentList) SetDocuments(docs []domain.Document) {
	d.documents = docs
	d.selected = 0
}

// Documents returns the current documents.
func (d *DocumentList) Documents() []domain.Document {
	return d.documents
}

// Selected returns the index of the selected document.
func (d *DocumentList) Selected() int {
	return d.selected
}

// SelectedDocument returns the selected document, or nil if the list is empty.
func (d *DocumentList) SelectedDocument() *domain.Document {
	if d.selected < 0 || d.selected >= len(d.documents) {
		return nil
	}
	return &d.documents[d.selected]
}

// MoveUp moves selection up.
func (d *DocumentList) MoveUp() {
	if d.selected > 0 {
		d.selected--
	}
}

// MoveDown moves selection down.
func (d *DocumentList) MoveDown() {
	if d.selected < len(d.documents)-1 {
		d.selected++
	}
}

// SetDimensions sets the component dimensions.
func (d *DocumentList) SetDimensions(width, height int) {
	d.width = width
	d.height = height
}

// Count returns the number of documents.
func (d *DocumentList) Count() int {
	return len(d.documents)
}
