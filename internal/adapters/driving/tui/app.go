package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/views/check"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/views/corpus"
)

const helpNote = `Overlapping text is highlighted in the report. The percentage is the
share of characters that overlap with the corpus.`

// App routes messages between the check, corpus and help screens.
type App struct {
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	checkView  *check.View
	corpusView *corpus.View

	current  messages.ViewType
	lastView messages.ViewType // restored when help closes

	ready bool
}

var _ tea.Model = (*App)(nil)

// NewApp builds the app. ports.Check is required.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	h := help.New()
	h.ShowAll = true

	return &App{
		ctx:        context.Background(),
		styles:     s,
		keymap:     km,
		help:       h,
		checkView:  check.NewView(s, km, ports.Check),
		corpusView: corpus.NewView(s, ports.Corpus),
		current:    messages.ViewCheck,
	}, nil
}

// WithContext sets the context used by service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.checkView.WithContext(ctx)
	a.corpusView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle("overlap"), a.checkView.Init())
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil
	case tea.KeyMsg:
		if cmd, handled := a.globalKey(msg); handled {
			return a, cmd
		}
		return a, a.forward(a.current, msg)
	case messages.CheckCompleted, messages.ErrorOccurred:
		return a, a.forward(messages.ViewCheck, msg)
	case messages.CorpusLoaded:
		return a, a.forward(messages.ViewCorpus, msg)
	case messages.ViewChanged:
		return a, a.show(msg.View)
	case messages.Quit:
		return a, tea.Quit
	}

	// Cursor blinks and similar only matter to the editor.
	if a.current == messages.ViewCheck {
		return a, a.forward(messages.ViewCheck, msg)
	}
	return a, nil
}

// globalKey handles keys that work on every screen.
func (a *App) globalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	km := a.keymap
	switch {
	case key.Matches(msg, km.Quit):
		return tea.Quit, true
	case key.Matches(msg, km.Help):
		if a.current == messages.ViewHelp {
			return a.show(a.lastView), true
		}
		return a.show(messages.ViewHelp), true
	case key.Matches(msg, km.Corpus) && a.current != messages.ViewCorpus:
		return a.show(messages.ViewCorpus), true
	case key.Matches(msg, km.Back) && a.current != messages.ViewCheck:
		return a.show(messages.ViewCheck), true
	}
	return nil, false
}

func (a *App) forward(view messages.ViewType, msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch view {
	case messages.ViewCheck:
		a.checkView, cmd = a.checkView.Update(msg)
	case messages.ViewCorpus:
		a.corpusView, cmd = a.corpusView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// show switches screens. Entering the corpus screen reloads it.
func (a *App) show(view messages.ViewType) tea.Cmd {
	if view == messages.ViewHelp {
		a.lastView = a.current
	}
	a.current = view
	if view == messages.ViewCorpus {
		return a.corpusView.Init()
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	switch a.current {
	case messages.ViewCorpus:
		return a.corpusView.View()
	case messages.ViewHelp:
		return lipgloss.JoinVertical(lipgloss.Left,
			a.styles.Title.Render("Help"),
			"",
			a.help.View(a.keymap),
			"",
			a.styles.Help.Render(helpNote),
		)
	default:
		return a.checkView.View()
	}
}

// Run starts the program on the alternate screen and blocks until it exits.
func (a *App) Run() error {
	_, err := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx)).Run()
	return err
}

// CurrentView returns the active screen.
func (a *App) CurrentView() messages.ViewType { return a.current }

// CheckView returns the check screen.
func (a *App) CheckView() *check.View { return a.checkView }

// CorpusView returns the corpus screen.
func (a *App) CorpusView() *corpus.View { return a.corpusView }

// Ready reports whether a window size has been received.
func (a *App) Ready() bool { return a.ready }

// SetDimensions resizes every screen.
func (a *App) SetDimensions(width, height int) {
	a.ready = true
	a.help.Width = width
	a.checkView.SetDimensions(width, height)
	a.corpusView.SetDimensions(width, height)
}
