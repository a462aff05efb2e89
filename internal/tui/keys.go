package tui

import "charm.land/bubbles/v2/key"

// keyMap holds the board bindings. Navigation follows vim keys with arrows as
// alternatives; the shifted keys move the selected card.
type keyMap struct {
	Left        key.Binding
	Right       key.Binding
	Up          key.Binding
	Down        key.Binding
	MoveLeft    key.Binding
	MoveRight   key.Binding
	ReorderUp   key.Binding
	ReorderDown key.Binding
	Reload      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Left:        key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "prev column")),
		Right:       key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next column")),
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "prev card")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next card")),
		MoveLeft:    key.NewBinding(key.WithKeys("H", "<"), key.WithHelp("H", "move card left")),
		MoveRight:   key.NewBinding(key.WithKeys("L", ">"), key.WithHelp("L", "move card right")),
		ReorderUp:   key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "card up")),
		ReorderDown: key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "card down")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.MoveLeft, k.MoveRight, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.MoveLeft, k.MoveRight, k.ReorderUp, k.ReorderDown},
		{k.Reload, k.Help, k.Quit},
	}
}
