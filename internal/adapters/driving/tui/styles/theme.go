// Package styles holds the TUI palette and the lipgloss styles built from it.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme is the TUI palette. Every colour adapts to light and dark terminals.
type Theme struct {
	Accent    lipgloss.AdaptiveColor
	Heading   lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Faint     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Bar       lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	// Severity colours the overlap percentage, indexed by Severity.
	Severity [severityCount]lipgloss.AdaptiveColor
}

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// DefaultTheme is a Catppuccin-style palette: Latte on light terminals,
// Mocha on dark ones.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:    adaptive("#8839EF", "#CBA6F7"),
		Heading:   adaptive("#04A5E5", "#89DCEB"),
		Text:      adaptive("#4C4F69", "#CDD6F4"),
		Faint:     adaptive("#8C8FA1", "#6C7086"),
		Border:    adaptive("#BCC0CC", "#45475A"),
		Error:     adaptive("#D20F39", "#F38BA8"),
		Bar:       adaptive("#E6E9EF", "#181825"),
		Highlight: adaptive("#DF8E1D", "#F9E2AF"),
		Severity: [severityCount]lipgloss.AdaptiveColor{
			SeverityLow:    adaptive("#40A02B", "#A6E3A1"),
			SeverityMedium: adaptive("#FE640B", "#FAB387"),
			SeverityHigh:   adaptive("#E64553", "#EBA0AC"),
		},
	}
}

// Severity buckets an overlap percentage.
type Severity int

// Severities, lowest first.
const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh

	severityCount
)

// Lower bounds of the medium and high buckets, in percent.
const (
	MediumOverlap = 20.0
	HighOverlap   = 50.0
)

// SeverityOf returns the bucket of pct.
func SeverityOf(pct float64) Severity {
	switch {
	case pct >= HighOverlap:
		return SeverityHigh
	case pct >= MediumOverlap:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Styles are the lipgloss styles used by the views.
type Styles struct {
	theme *Theme

	Title, Subtitle lipgloss.Style
	Normal, Muted   lipgloss.Style
	Selected, Error lipgloss.Style

	// Overlap marks report text shared with the corpus.
	Overlap lipgloss.Style

	// Editor frames the query input; EditorFocused while it has focus.
	Editor, EditorFocused lipgloss.Style

	Report    lipgloss.Style
	StatusBar lipgloss.Style
	Help      lipgloss.Style

	severity [severityCount]lipgloss.Style
}

// NewStyles builds styles from theme, or from DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	frame := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	s := &Styles{
		theme:         theme,
		Title:         fg(theme.Accent).Bold(true),
		Subtitle:      fg(theme.Heading).Bold(true),
		Normal:        fg(theme.Text),
		Muted:         fg(theme.Faint),
		Selected:      fg(theme.Text).Background(theme.Border).Bold(true),
		Error:         fg(theme.Error),
		Overlap:       fg(theme.Highlight).Bold(true).Underline(true),
		Editor:        frame,
		EditorFocused: frame.BorderForeground(theme.Accent),
		Report:        frame,
		StatusBar:     fg(theme.Faint).Background(theme.Bar).Padding(0, 1),
		Help:          fg(theme.Faint).Italic(true),
	}
	for i, c := range theme.Severity {
		s.severity[i] = fg(c).Bold(true)
	}
	return s
}

// DefaultStyles returns NewStyles(DefaultTheme()).
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Percentage renders text in the colour of pct's severity.
func (s *Styles) Percentage(text string, pct float64) string {
	return s.severity[SeverityOf(pct)].Render(text)
}
