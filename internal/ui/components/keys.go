package components

import "charm.land/bubbles/v2/key"

// Shared key bindings.
var (
	KeyUp     = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up"))
	KeyDown   = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down"))
	KeyLeft   = key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("←/h", "less"))
	KeyRight  = key.NewBinding(key.WithKeys("right", "l", "+"), key.WithHelp("→/l", "more"))
	KeyEnter  = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select"))
	KeyBack   = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
	KeyQuit   = key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))
	KeyTheme  = key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme"))
	KeyNumber = key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"), key.WithHelp("1-4", "answer"))
)
