package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

func sampleDocuments() []domain.Document {
	return []domain.Document{
		{Ordinal: 0, Source: "essay.txt", SentenceCount: 12},
		{Ordinal: 1, Source: "paper.pdf", Failure: "pdftotext not installed"},
		{Ordinal: 2, Source: "notes.md", SentenceCount: 3},
	}
}

func TestNewDocumentList(t *testing.T) {
	l := NewDocumentList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.Nil(t, l.Init())
	assert.Equal(t, 0, l.Count())
	assert.Nil(t, l.SelectedDocument())
	assert.Contains(t, l.View(), "No documents ingested")
}

func TestDocumentList_Navigation(t *testing.T) {
	l := NewDocumentList(nil)
	l.SetDocuments(sampleDocuments())

	tests := []struct {
		key  string
		want int
	}{
		{"k", 0},
		{"j", 1},
		{"down", 2},
		{"j", 2},
		{"up", 1},
	}

	for _, tt := range tests {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)}
		switch tt.key {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		}
		l, _ = l.Update(msg)
		assert.Equal(t, tt.want, l.Selected(), "after %s", tt.key)
	}
	assert.Equal(t, "paper.pdf", l.SelectedDocument().Source)
}

func TestDocumentList_SetDocumentsResetsSelection(t *testing.T) {
	l := NewDocumentList(nil)
	l.SetDocuments(sampleDocuments())
	l.MoveDown()

	l.SetDocuments(sampleDocuments()[:1])

	assert.Equal(t, 0, l.Selected())
	assert.Len(t, l.Documents(), 1)
}

func TestDocumentList_View(t *testing.T) {
	l := NewDocumentList(nil)
	l.SetDimensions(80, 20)
	l.SetDocuments(sampleDocuments())

	view := l.View()

	assert.Contains(t, view, "essay.txt")
	assert.Contains(t, view, "12 sentences")
	assert.Contains(t, view, "pdftotext not installed")
	assert.Contains(t, view, "notes.md")
}

func TestDocumentList_ViewScrollsToSelection(t *testing.T) {
	l := NewDocumentList(nil)
	l.SetDimensions(80, 2)
	l.SetDocuments(sampleDocuments())
	l.MoveDown()
	l.MoveDown()

	view := l.View()

	assert.Contains(t, view, "notes.md")
	assert.NotContains(t, view, "essay.txt")
}
