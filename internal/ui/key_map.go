package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	search    key.Binding
	open      key.Binding
	add       key.Binding
	remove    key.Binding
	favorites key.Binding
	focus     key.Binding
	back      key.Binding
	quit      key.Binding
	forceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		search:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add favorite")),
		remove:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove favorite")),
		favorites: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "favorites")),
		focus:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "edit query")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.open},
		{k.add, k.remove, k.favorites},
		{k.focus, k.back, k.quit},
	}
}
