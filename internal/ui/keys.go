package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap describes the bindings shown in the help line. Dispatch itself is
// done by the input modes.
type keyMap struct {
	Open    key.Binding
	Close   key.Binding
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Preview key.Binding
	Remove  key.Binding
	Clear   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Open:    key.NewBinding(key.WithKeys("/", "ctrl+k", "alt+k"), key.WithHelp("/", "search")),
		Close:   key.NewBinding(key.WithKeys("esc", "ctrl+k", "alt+k"), key.WithHelp("esc", "close")),
		Up:      key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Preview: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "preview")),
		Remove:  key.NewBinding(key.WithKeys("x", "ctrl+x"), key.WithHelp("x", "forget")),
		Clear:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear history")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// closedKeys are the bindings that apply while the panel is hidden
func (k keyMap) closedKeys() []key.Binding {
	return []key.Binding{k.Open, k.Up, k.Down, k.Select, k.Remove, k.Clear, k.Help, k.Quit}
}

// openKeys are the bindings that apply inside the search panel
func (k keyMap) openKeys() []key.Binding {
	return []key.Binding{k.Close, k.Up, k.Down, k.Select, k.Preview, k.Clear}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return k.closedKeys()
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.closedKeys(), k.openKeys()}
}
