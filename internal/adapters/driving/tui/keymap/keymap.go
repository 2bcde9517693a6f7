// Package keymap holds the TUI key bindings.
package keymap

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

var _ help.KeyMap = (*KeyMap)(nil)

// KeyMap lists every binding. Plain keys go to the query editor, so
// actions sit on control and function keys.
type KeyMap struct {
	Quit, Help, Back    key.Binding
	Check, Clear, Focus key.Binding
	Corpus              key.Binding
	Up, Down            key.Binding
}

func bind(helpKey, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc))
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:   bind("ctrl+c", "quit", "ctrl+c"),
		Help:   bind("f1", "help", "f1"),
		Back:   bind("esc", "back", "esc"),
		Check:  bind("ctrl+s", "check", "ctrl+s"),
		Clear:  bind("ctrl+l", "clear", "ctrl+l"),
		Focus:  bind("tab", "switch focus", "tab"),
		Corpus: bind("ctrl+o", "corpus", "ctrl+o"),
		Up:     bind("↑/k", "up", "up", "k"),
		Down:   bind("↓/j", "down", "down", "j"),
	}
}

// ShortHelp is shown in the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Check, k.Corpus, k.Help, k.Quit}
}

// ReportHelp replaces ShortHelp while the report has focus.
func (k *KeyMap) ReportHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Focus, k.Clear}
}

// FullHelp is the help screen, one column per group.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Check, k.Clear, k.Focus},
		{k.Up, k.Down},
		{k.Corpus, k.Back},
		{k.Help, k.Quit},
	}
}
