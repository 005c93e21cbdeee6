package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput wraps bubbles/textinput with the app's prompt.
type TextInput struct {
	Model textinput.Model
}

// NewTextInput creates a focused input limited to limit characters.
func NewTextInput(placeholder string, limit int) TextInput {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Focus()
	return TextInput{Model: ti}
}

// Init starts the cursor blink.
func (t TextInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards msg to the input.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input.
func (t TextInput) View() string { return t.Model.View() }

// Value returns the text entered so far.
func (t TextInput) Value() string { return t.Model.Value() }

// SetValue replaces the text.
func (t *TextInput) SetValue(s string) { t.Model.SetValue(s) }
