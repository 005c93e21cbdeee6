// Package login is the screen that asks for a player name.
package login

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaz/internal/router"
	"github.com/abhisek/triviaz/internal/screen"
	"github.com/abhisek/triviaz/internal/state"
	"github.com/abhisek/triviaz/internal/ui/components"
	"github.com/abhisek/triviaz/internal/ui/layout"
	"github.com/abhisek/triviaz/internal/ui/theme"
)

const maxNameLen = 32

// Session is the part of the session store the login screen needs.
type Session interface {
	GetState() state.SessionState
	Login(name string)
}

// LoginScreen reads a name and signs the player in.
type LoginScreen struct {
	session Session
	input   components.TextInput
	hint    string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen.
func New(session Session) *LoginScreen {
	return &LoginScreen{
		session: session,
		input:   components.NewTextInput("Your name", maxNameLen),
	}
}

func (l *LoginScreen) Init() tea.Cmd {
	return l.input.Init()
}

func (l *LoginScreen) Title() string {
	return "Welcome"
}

func (l *LoginScreen) KeyHints() []key.Binding {
	return []key.Binding{key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start playing"))}
}

func (l *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && key.Matches(kmsg, components.KeyEnter) {
		return l, l.submit()
	}
	var cmd tea.Cmd
	l.input, cmd = l.input.Update(msg)
	return l, cmd
}

func (l *LoginScreen) submit() tea.Cmd {
	name := strings.TrimSpace(l.input.Value())
	if name == "" {
		l.hint = "Please enter a name to continue."
		return nil
	}
	l.session.Login(name)
	if !l.session.GetState().HasIdentity() {
		l.hint = "Could not sign in. Try again."
		return nil
	}
	return router.Navigate(router.RouteRoot)
}

func (l *LoginScreen) View(width, height int) string {
	sections := []string{
		RenderBanner(width),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Test your knowledge!"),
		"",
		theme.Subtitle.Render("Who's playing?"),
		theme.Card.Width(min(layout.CardWidth(width), 44)).Render(l.input.View()),
	}
	if l.hint != "" {
		sections = append(sections, theme.Warning.Render(l.hint))
	}
	sections = append(sections, theme.Hint.Render("Your progress is saved under this name."))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return layout.Center(content, width, height)
}
