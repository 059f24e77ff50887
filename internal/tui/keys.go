package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings of the friend list. Forms read raw keys so that
// letters can be typed.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Add    key.Binding
	Filter key.Binding
	Split  key.Binding
	Clear  key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "select"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add friend"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Split: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "split form"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// shortHelp is the footer order.
func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Add, k.Filter, k.Split, k.Clear, k.Quit}
}
