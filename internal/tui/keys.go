package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap binds keys to game actions
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Activate key.Binding
	Booster  key.Binding
	Cancel   key.Binding
	Next     key.Binding
	Restart  key.Binding
	Continue key.Binding
	Pause    key.Binding
	Quit     key.Binding
}

// Keys is the default key map
var Keys = KeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "right")),
	Activate: key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "select")),
	Booster:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "booster")),
	Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next level")),
	Restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
	Continue: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "continue")),
	Pause:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp lists the bindings shown under the board
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activate, k.Booster, k.Cancel, k.Pause, k.Next, k.Restart, k.Continue, k.Quit}
}
