package monitor

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard bindings. Everything is on ctrl so plain
// keys stay available for the send box and live typing.
type KeyMap struct {
	Quit       key.Binding
	Connect    key.Binding
	CyclePort  key.Binding
	CycleBaud  key.Binding
	CycleEnd   key.Binding
	CycleStamp key.Binding
	LiveTyping key.Binding
	Capture    key.Binding
	Pause      key.Binding
	Send       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("^c", "quit"),
		),
		Connect: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("^o", "connect/disconnect"),
		),
		CyclePort: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("^p", "port"),
		),
		CycleBaud: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("^b", "baud"),
		),
		CycleEnd: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("^e", "line ending"),
		),
		CycleStamp: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("^t", "timestamps"),
		),
		LiveTyping: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("^l", "live typing"),
		),
		Capture: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("^g", "capture"),
		),
		Pause: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("^r", "pause plot"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
	}
}
