package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/triviaz/internal/ui/layout"
	"github.com/abhisek/triviaz/internal/ui/theme"
)

// ChoiceMsg reports the option the player picked.
type ChoiceMsg struct {
	Option string
}

// Choices is a multiple-choice option list. Once Reveal is called it shows
// the correct answer and the pick, and ignores input.
type Choices struct {
	Options []string
	Cursor  int

	revealed bool
	correct  string
	picked   string
}

// NewChoices creates an option list.
func NewChoices(options []string) Choices {
	return Choices{Options: options}
}

// Reveal locks the list. picked is "" when nothing was chosen.
func (c *Choices) Reveal(correct, picked string) {
	c.revealed = true
	c.correct = correct
	c.picked = picked
}

// Update handles the cursor, enter and digit shortcuts.
func (c Choices) Update(msg tea.Msg) (Choices, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || c.revealed || len(c.Options) == 0 {
		return c, nil
	}
	switch {
	case key.Matches(kmsg, KeyUp):
		c.Cursor = max(c.Cursor-1, 0)
	case key.Matches(kmsg, KeyDown):
		c.Cursor = min(c.Cursor+1, len(c.Options)-1)
	case key.Matches(kmsg, KeyEnter):
		return c, choose(c.Options[c.Cursor])
	case key.Matches(kmsg, KeyNumber):
		i := int(kmsg.String()[0] - '1')
		if i < len(c.Options) {
			c.Cursor = i
			return c, choose(c.Options[i])
		}
	}
	return c, nil
}

func choose(opt string) tea.Cmd {
	return func() tea.Msg { return ChoiceMsg{Option: opt} }
}

// View renders the options within width cells.
func (c Choices) View(width int) string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor && !c.revealed {
			prefix = "▸ "
		}
		line := layout.Truncate(fmt.Sprintf("%s%d) %s", prefix, i+1, opt), width)

		style := theme.Unselected
		switch {
		case c.revealed && opt == c.correct:
			style = theme.Correct
			line += " ✓"
		case c.revealed && opt == c.picked:
			style = theme.Incorrect
			line += " ✗"
		case c.revealed:
			style = theme.Dim
		case i == c.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteByte('\n')
	}
	return b.String()
}
