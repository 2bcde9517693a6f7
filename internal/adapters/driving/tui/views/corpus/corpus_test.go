package corpus

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

type mockCorpusService struct {
	stats    *domain.CorpusStats
	docs     []domain.Document
	statsErr error
	docsErr  error
}

func (m *mockCorpusService) Stats(context.Context) (*domain.CorpusStats, error) {
	return m.stats, m.statsErr
}

func (m *mockCorpusService) Documents(context.Context) ([]domain.Document, error) {
	return m.docs, m.docsErr
}

func (m *mockCorpusService) Sentences(context.Context, string) ([]string, error) {
	return nil, domain.ErrNotFound
}

func loadedService() *mockCorpusService {
	return &mockCorpusService{
		stats: &domain.CorpusStats{Documents: 2, Sentences: 7, Failed: 1, Model: "hashing-v1", Dimensions: 384},
		docs: []domain.Document{
			{Ordinal: 0, Source: "animals.txt", SentenceCount: 7},
			{Ordinal: 1, Source: "scan.pdf", Failure: "pdftotext not installed"},
		},
	}
}

func TestView_InitLoads(t *testing.T) {
	v := NewView(nil, loadedService())

	cmd := v.Init()
	require.NotNil(t, cmd)
	assert.True(t, v.Loading())
	assert.Contains(t, v.View(), "Loading...")

	loaded, ok := cmd().(messages.CorpusLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)

	v, _ = v.Update(loaded)

	assert.False(t, v.Loading())
	require.NotNil(t, v.Stats())
	assert.Equal(t, 2, v.Stats().Documents)
	assert.Len(t, v.Documents(), 2)

	out := v.View()
	assert.Contains(t, out, "2 documents, 7 sentences, 1 failed")
	assert.Contains(t, out, "hashing-v1, 384 dims")
	assert.Contains(t, out, "animals.txt")
}

func TestView_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		service *mockCorpusService
		wantErr error
	}{
		{name: "stats", service: &mockCorpusService{statsErr: errors.New("database is locked")}},
		{name: "documents", service: &mockCorpusService{stats: &domain.CorpusStats{}, docsErr: errors.New("read failed")}},
		{name: "no service", wantErr: ErrNoCorpusService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v *View
			if tt.service != nil {
				v = NewView(nil, tt.service)
			} else {
				v = NewView(nil, nil)
			}

			v, _ = v.Update(v.Init()())

			require.Error(t, v.Err())
			if tt.wantErr != nil {
				assert.ErrorIs(t, v.Err(), tt.wantErr)
			}
			assert.Contains(t, v.View(), "Error: ")
			assert.Nil(t, v.Stats())
		})
	}
}

func TestView_KeysMoveSelection(t *testing.T) {
	v := NewView(nil, loadedService())
	v.SetDimensions(100, 30)
	v, _ = v.Update(v.Init()())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, v.list.Selected())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.list.Selected())
}

func TestView_ReloadReplacesDocuments(t *testing.T) {
	svc := loadedService()
	v := NewView(nil, svc)
	v, _ = v.Update(v.Init()())
	require.Len(t, v.Documents(), 2)

	svc.docs = svc.docs[:1]
	v, _ = v.Update(v.Init()())

	assert.Len(t, v.Documents(), 1)
}
