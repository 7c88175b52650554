package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the game screen.
type KeyMap struct {
	// Cursor movement within the focused ticket.
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Ticket focus.
	NextTicket key.Binding
	PrevTicket key.Binding

	Mark       key.Binding
	Draw       key.Binding
	Reset      key.Binding
	Regenerate key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (hjkl) alongside the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "right"),
	),
	NextTicket: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next ticket"),
	),
	PrevTicket: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-tab", "previous ticket"),
	),
	Mark: key.NewBinding(
		key.WithKeys("enter", "m"),
		key.WithHelp("m", "mark"),
	),
	Draw: key.NewBinding(
		key.WithKeys("d", " "),
		key.WithHelp("d/space", "draw"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset draw"),
	),
	Regenerate: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "new tickets"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (keys KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Draw, keys.Mark, keys.NextTicket, keys.Reset, keys.Regenerate, keys.Quit}
}

// FullHelp implements help.KeyMap.
func (keys KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Up, keys.Down, keys.Left, keys.Right},
		{keys.NextTicket, keys.PrevTicket, keys.Mark},
		{keys.Draw, keys.Reset, keys.Regenerate, keys.Quit},
	}
}
