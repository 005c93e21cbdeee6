package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/triviaz/internal/ui/theme"
)

// MenuItem is one row of a Menu. Value, when set, renders a current setting
// next to the label and Adjust is called with -1/+1 on left/right.
type MenuItem struct {
	Label    string
	Value    func() string
	Adjust   func(step int) tea.Cmd
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of items with a cursor.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a Menu with the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, it := range items {
		if !it.Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

// Update moves the cursor and runs item callbacks.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	item := m.Items[m.Selected]
	switch {
	case key.Matches(kmsg, KeyUp):
		m.move(-1)
	case key.Matches(kmsg, KeyDown):
		m.move(1)
	case key.Matches(kmsg, KeyLeft):
		if item.Adjust != nil && !item.Disabled {
			return m, item.Adjust(-1)
		}
	case key.Matches(kmsg, KeyRight):
		if item.Adjust != nil && !item.Disabled {
			return m, item.Adjust(1)
		}
	case key.Matches(kmsg, KeyEnter):
		if item.Disabled {
			return m, nil
		}
		if item.Action != nil {
			return m, item.Action()
		}
		if item.Adjust != nil {
			return m, item.Adjust(1)
		}
	}
	return m, nil
}

func (m *Menu) move(step int) {
	for i := m.Selected + step; i >= 0 && i < len(m.Items); i += step {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

// View renders the menu. labelWidth pads labels so values line up.
func (m Menu) View(labelWidth int) string {
	var b strings.Builder
	for i, it := range m.Items {
		label := it.Label
		if it.Value != nil {
			label = padRight(label, labelWidth) + "  ‹ " + it.Value() + " ›"
		}
		switch {
		case it.Disabled:
			b.WriteString(theme.Dim.Render("    " + label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + label))
		default:
			b.WriteString(theme.Unselected.Render("    " + label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func padRight(s string, w int) string {
	if n := w - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
