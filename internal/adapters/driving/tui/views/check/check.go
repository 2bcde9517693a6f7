// Package check provides the query and report view for the TUI.
package check

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driving"
)

// ErrNoCheckService indicates that no check service was provided.
var ErrNoCheckService = errors.New("check service is required")

// maxSources is how many distinct candidate sources the report lists.
const maxSources = 5

// View is the check view: query editor, highlighted report and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	report    viewport.Model
	statusbar *status.Bar

	checkService driving.CheckService
	ctx          context.Context

	width      int
	height     int
	ready      bool
	err        error
	result     *domain.Report
	focusInput bool
}

// NewView creates a new check view.
func NewView(s *styles.Styles, km *keymap.KeyMap, checkService driving.CheckService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:       s,
		keymap:       km,
		input:        input.NewQueryInput(s),
		report:       viewport.New(76, 10),
		statusbar:    status.NewBar(s, km),
		checkService: checkService,
		ctx:          context.Background(),
		width:        80,
		height:       24,
		focusInput:   true,
	}
}

// WithContext sets the context used for checks.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the check view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.CheckCompleted:
		v.handleCheckCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	if v.focusInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Check):
		text := v.input.Value()
		if strings.TrimSpace(text) == "" {
			v.statusbar.SetMessage("Nothing to check")
			return v, nil
		}
		v.err = nil
		v.statusbar.SetState(status.StateChecking)
		return v, v.performCheck(text)

	case key.Matches(msg, v.keymap.Clear):
		v.Reset()
		return v, nil

	case key.Matches(msg, v.keymap.Focus):
		if v.result == nil {
			return v, nil
		}
		v.setFocus(!v.focusInput)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	v.report, cmd = v.report.Update(msg)
	return v, cmd
}

func (v *View) setFocus(input bool) {
	v.focusInput = input
	if input {
		v.input.Focus()
	} else {
		v.input.Blur()
	}
	v.statusbar.SetReportFocused(!input)
}

// performCheck runs the check off the update loop.
func (v *View) performCheck(text string) tea.Cmd {
	service, ctx := v.checkService, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.ErrorOccurred{Err: ErrNoCheckService}
		}
		report, err := service.Check(ctx, text)
		return messages.CheckCompleted{Report: report, Err: err}
	}
}

func (v *View) handleCheckCompleted(msg messages.CheckCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	if msg.Report == nil {
		return
	}

	v.err = nil
	v.result = msg.Report
	v.statusbar.SetReport(msg.Report.Percentage, len(msg.Report.Sentences), msg.Report.CorpusSentences)
	v.report.SetContent(v.renderReport())
	v.report.GotoTop()
	v.setFocus(false)
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	if errors.Is(err, domain.ErrNoCorpus) {
		v.statusbar.SetMessage("the corpus is empty, ingest sources first")
		return
	}
	v.statusbar.SetMessage(err.Error())
}

// renderReport renders every sentence with its overlaps highlighted,
// followed by the closest sources.
func (v *View) renderReport() string {
	r := v.result
	if r == nil {
		return ""
	}
	if len(r.Sentences) == 0 {
		return v.styles.Muted.Render("No sentences found in the text.")
	}

	wrap := lipgloss.NewStyle().Width(v.report.Width)
	blocks := make([]string, 0, len(r.Sentences)+2)
	for _, sentence := range r.Sentences {
		blocks = append(blocks, wrap.Render(v.renderSentence(sentence)))
	}

	if sources := v.renderSources(); sources != "" {
		blocks = append(blocks, "", sources)
	}
	return strings.Join(blocks, "\n")
}

func (v *View) renderSentence(sentence domain.SentenceReport) string {
	if len(sentence.Segments) == 0 {
		return v.styles.Normal.Render(sentence.Text)
	}
	var b strings.Builder
	for _, seg := range sentence.Segments {
		if seg.Kind == domain.SegmentOverlap {
			b.WriteString(v.styles.Overlap.Render(seg.Text))
			continue
		}
		b.WriteString(v.styles.Normal.Render(seg.Text))
	}
	return b.String()
}

// renderSources lists the best score per source, best first.
func (v *View) renderSources() string {
	seen := make(map[string]bool)
	lines := []string{v.styles.Subtitle.Render("Closest sources")}
	for _, c := range v.result.Candidates {
		if seen[c.Source] {
			continue
		}
		seen[c.Source] = true
		lines = append(lines, fmt.Sprintf("  %s %s", v.styles.Muted.Render(fmt.Sprintf("%.3f", c.Score)), c.Source))
		if len(seen) == maxSources {
			break
		}
	}
	if len(lines) == 1 {
		return ""
	}
	return strings.Join(lines, "\n")
}

// View renders the check view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 6)
	sections = append(sections, v.styles.Title.Render("overlap"), v.input.View())

	if v.result != nil {
		sections = append(sections, v.styles.Report.Render(v.report.View()))
	} else {
		sections = append(sections, v.styles.Muted.Render("Press ctrl+s to check the text against the corpus."))
	}

	sections = append(sections, v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	inputHeight := max(3, height/4)
	v.input.SetSize(width, inputHeight)

	// Title, two frames and the status bar.
	reportHeight := max(3, height-inputHeight-7)
	v.report.Width = max(20, width-4)
	v.report.Height = reportHeight
	if v.result != nil {
		v.report.SetContent(v.renderReport())
	}
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current query text.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the query text.
func (v *View) SetQuery(text string) {
	v.input.SetValue(text)
}

// Report returns the last report, or nil.
func (v *View) Report() *domain.Report {
	return v.result
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the query editor has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// Reset clears the query and the report and focuses the editor.
func (v *View) Reset() {
	v.input.Reset()
	v.result = nil
	v.err = nil
	v.report.SetContent("")
	v.statusbar.Clear()
	v.setFocus(true)
}
