package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Grab      key.Binding
	Drop      key.Binding
	Cancel    key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Preview   key.Binding
	Filter    key.Binding
	HideLow   key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Grab:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "grab")),
		Drop:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space/enter", "drop")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		MoveUp:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Preview:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "notes")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		HideLow:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "hide low")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.MoveUp, k.MoveDown, k.Filter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Preview},
		{k.Grab, k.Drop, k.Cancel, k.MoveUp, k.MoveDown},
		{k.Filter, k.HideLow, k.Reload},
		{k.Help, k.Quit},
	}
}

// grabKeyMap is shown while a task is held.
type grabKeyMap struct{ k keyMap }

func (g grabKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{g.k.Up, g.k.Down, g.k.Drop, g.k.Cancel}
}

func (g grabKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{g.ShortHelp()} }
