package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_NarrowDropsHints(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetWidth(120)
	assert.Contains(t, bar.View(), "ctrl+c quit")

	bar.SetWidth(20)
	view := bar.View()
	assert.Contains(t, view, "Ready")
	assert.NotContains(t, view, "quit")
}

func TestStatusBar_SetReport(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetReport(43.64, 3, 120)

	assert.Equal(t, StateReport, bar.State())
	assert.Equal(t, 43.64, bar.Percentage())
	view := bar.View()
	assert.Contains(t, view, "Overlap 43.64%")
	assert.Contains(t, view, "3 sentences vs 120 in corpus")
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		want    []string
	}{
		{name: "ready", state: StateReady, want: []string{"Ready", "quit"}},
		{name: "ready with message", state: StateReady, message: "Cleared", want: []string{"Cleared"}},
		{name: "checking", state: StateChecking, want: []string{"Checking"}},
		{name: "error", state: StateError, want: []string{"Error"}},
		{name: "error with message", state: StateError, message: "no corpus", want: []string{"Error", "no corpus"}},
		{name: "help", state: StateHelp, want: []string{"Help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)

			view := bar.View()
			for _, want := range tt.want {
				assert.Contains(t, view, want)
			}
		})
	}
}

func TestStatusBar_ReportFocusedHints(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)
	bar.SetReport(10, 1, 5)

	assert.Contains(t, bar.View(), "check")

	bar.SetReportFocused(true)
	assert.Contains(t, bar.View(), "switch focus")
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetReport(50, 2, 10)
	bar.SetMessage("message")

	bar.SetWidth(100)

	bar.Clear()

	assert.Equal(t, 100, bar.Width())
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0.0, bar.Percentage())
}

func TestState_Constants(t *testing.T) {
	assert.Equal(t, State("ready"), StateReady)
	assert.Equal(t, State("checking"), StateChecking)
	assert.Equal(t, State("report"), StateReport)
	assert.Equal(t, State("error"), StateError)
	assert.Equal(t, State("help"), StateHelp)
}
