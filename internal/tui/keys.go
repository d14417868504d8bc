package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the terminal UI
type KeyMap struct {
	EndBreak   key.Binding
	SystemWide key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		EndBreak: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "end break"),
		),
		SystemWide: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "system-wide tracking"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (keys KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.EndBreak, keys.SystemWide, keys.Quit}
}
