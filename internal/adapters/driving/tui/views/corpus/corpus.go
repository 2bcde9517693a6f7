// Package corpus provides the corpus overview for the TUI.
package corpus

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driving"
)

// ErrNoCorpusService indicates that no corpus service was provided.
var ErrNoCorpusService = errors.New("corpus service is required")

// View shows corpus statistics and the ingested documents.
type View struct {
	styles        *styles.Styles
	list          *list.DocumentList
	corpusService driving.CorpusService
	ctx           context.Context

	stats   *domain.CorpusStats
	loading bool
	err     error
	width   int
	height  int
}

// NewView creates a new corpus view.
func NewView(s *styles.Styles, corpusService driving.CorpusService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:        s,
		list:          list.NewDocumentList(s),
		corpusService: corpusService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context used for loading.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the corpus.
func (v *View) Init() tea.Cmd {
	v.loading = true
	service, ctx := v.corpusService, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.CorpusLoaded{Err: ErrNoCorpusService}
		}
		stats, err := service.Stats(ctx)
		if err != nil {
			return messages.CorpusLoaded{Err: err}
		}
		docs, err := service.Documents(ctx)
		return messages.CorpusLoaded{Stats: stats, Documents: docs, Err: err}
	}
}

// Update handles messages for the corpus view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.CorpusLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.stats = msg.Stats
			v.list.SetDocuments(msg.Documents)
		}
		return v, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return v, cmd
	}
	return v, nil
}

// View renders the corpus view.
func (v *View) View() string {
	sections := []string{v.styles.Title.Render("Corpus"), ""}

	switch {
	case v.loading:
		sections = append(sections, v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	default:
		if v.stats != nil {
			summary := fmt.Sprintf("%d documents, %d sentences, %d failed", v.stats.Documents, v.stats.Sentences, v.stats.Failed)
			if v.stats.Model != "" {
				summary += fmt.Sprintf("  (%s, %d dims)", v.stats.Model, v.stats.Dimensions)
			}
			sections = append(sections, v.styles.Subtitle.Render(summary), "")
		}
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.styles.Help.Render("↑/↓ navigate | esc back"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	// Title, summary and help lines.
	v.list.SetDimensions(width, max(2, height-6))
}

// Stats returns the loaded statistics, or nil.
func (v *View) Stats() *domain.CorpusStats {
	return v.stats
}

// Documents returns the loaded documents.
func (v *View) Documents() []domain.Document {
	return v.list.Documents()
}

// Err returns the load error, if any.
func (v *View) Err() error {
	return v.err
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.loading
}
