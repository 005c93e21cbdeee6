// Package dashboard is the home screen: quiz settings and navigation.
package dashboard

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaz/internal/router"
	"github.com/abhisek/triviaz/internal/screen"
	"github.com/abhisek/triviaz/internal/state"
	"github.com/abhisek/triviaz/internal/trivia"
	"github.com/abhisek/triviaz/internal/ui/components"
	"github.com/abhisek/triviaz/internal/ui/layout"
	"github.com/abhisek/triviaz/internal/ui/theme"
)

const labelWidth = 12

var difficulties = []state.Difficulty{
	state.DifficultyAny,
	state.DifficultyEasy,
	state.DifficultyMedium,
	state.DifficultyHard,
}

// Session is the part of the session store the dashboard needs.
type Session interface {
	GetState() state.SessionState
	SetAmount(raw string)
	SetCategory(category *int)
	SetMode(m state.Mode)
	SetDifficulty(d state.Difficulty)
	ToggleTheme()
	Logout()
}

// DashboardScreen edits quiz settings and starts quizzes.
type DashboardScreen struct {
	session Session
	catalog trivia.Catalog
	menu    components.Menu
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates a DashboardScreen. catalog supplies the category names.
func New(session Session, catalog trivia.Catalog) *DashboardScreen {
	if len(catalog) == 0 {
		catalog = trivia.DefaultCatalog()
	}
	d := &DashboardScreen{session: session, catalog: catalog}
	d.menu = components.NewMenu(d.items())
	return d
}

func (d *DashboardScreen) items() []components.MenuItem {
	settings := func() state.Settings { return d.session.GetState().Settings }

	return []components.MenuItem{
		{
			Label: "Questions",
			Value: func() string { return strconv.Itoa(settings().Amount) },
			Adjust: func(step int) tea.Cmd {
				d.session.SetAmount(strconv.Itoa(settings().Amount + step))
				return nil
			},
		},
		{
			Label: "Category",
			Value: func() string { return d.catalog.Name(settings().Category) },
			Adjust: func(step int) tea.Cmd {
				d.session.SetCategory(d.catalog.Next(settings().Category, step))
				return nil
			},
		},
		{
			Label: "Difficulty",
			Value: func() string { return difficultyLabel(settings().Difficulty) },
			Adjust: func(step int) tea.Cmd {
				d.session.SetDifficulty(nextDifficulty(settings().Difficulty, step))
				return nil
			},
		},
		{
			Label: "Mode",
			Value: func() string { return modeLabel(settings().Mode) },
			Adjust: func(int) tea.Cmd {
				if settings().Mode == state.ModeSpeed {
					d.session.SetMode(state.ModeStandard)
				} else {
					d.session.SetMode(state.ModeSpeed)
				}
				return nil
			},
		},
		{
			Label: "Theme",
			Value: func() string { return themeLabel(d.session.GetState().Theme) },
			Adjust: func(int) tea.Cmd {
				d.session.ToggleTheme()
				return nil
			},
		},
		{Label: "Start Quiz", Action: func() tea.Cmd { return router.Navigate(router.RouteQuiz) }},
		{Label: "Profile", Action: func() tea.Cmd { return router.Navigate(router.RouteProfile) }},
		{Label: "Logout", Action: func() tea.Cmd {
			d.session.Logout()
			return router.Navigate(router.RouteLogin)
		}},
	}
}

func nextDifficulty(d state.Difficulty, step int) state.Difficulty {
	i := max(slices.Index(difficulties, d), 0)
	n := len(difficulties)
	return difficulties[((i+step)%n+n)%n]
}

func difficultyLabel(d state.Difficulty) string {
	if d == state.DifficultyAny {
		return "Any"
	}
	s := string(d)
	return strings.ToUpper(s[:1]) + s[1:]
}

func modeLabel(m state.Mode) string {
	if m == state.ModeSpeed {
		return "Speed Run (10s)"
	}
	return "Standard"
}

func themeLabel(t state.Theme) string {
	if t == state.ThemeLight {
		return "Light"
	}
	return "Dark"
}

func (d *DashboardScreen) Init() tea.Cmd {
	return nil
}

func (d *DashboardScreen) Title() string {
	return "Dashboard"
}

func (d *DashboardScreen) KeyHints() []key.Binding {
	return []key.Binding{components.KeyUp, components.KeyDown, components.KeyLeft, components.KeyRight, components.KeyEnter}
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	d.menu, cmd = d.menu.Update(msg)
	return d, cmd
}

func (d *DashboardScreen) View(width, height int) string {
	st := d.session.GetState()
	cw := layout.CardWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Hi, %s!", st.Identity)))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Set up your next quiz."))
	b.WriteString("\n\n")
	b.WriteString(d.menu.View(labelWidth))

	if run := st.LastRun; run != nil {
		b.WriteString("\n")
		line := fmt.Sprintf("Last run: %d/%d (%d%%) · %s · %s",
			run.Score, run.Total, run.Percent(), d.catalog.Name(run.Category), modeLabel(run.Mode))
		b.WriteString(theme.Dim.Render(layout.Truncate(line, cw-6)))
	}

	card := theme.Card.Width(cw).Render(b.String())
	return layout.Center(lipgloss.JoinVertical(lipgloss.Left, card), width, height)
}
