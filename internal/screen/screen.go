// Package screen defines the contract between the router and the views it
// mounts.
package screen

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// Screen is a view mounted in the router outlet.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens that list their own key
// bindings in the footer.
type KeyHintProvider interface {
	KeyHints() []key.Binding
}

// Closer is implemented by screens holding resources, such as pending
// timers, that must be released when the router replaces them.
type Closer interface {
	Close()
}
