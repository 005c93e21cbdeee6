// Package results shows the outcome of the last quiz.
package results

import (
	"fmt"
	"math"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/harmonica"

	"github.com/abhisek/triviaz/internal/router"
	"github.com/abhisek/triviaz/internal/screen"
	"github.com/abhisek/triviaz/internal/state"
	"github.com/abhisek/triviaz/internal/trivia"
	"github.com/abhisek/triviaz/internal/ui/components"
	"github.com/abhisek/triviaz/internal/ui/layout"
	"github.com/abhisek/triviaz/internal/ui/theme"
)

const fps = 60

type frameMsg struct{}

// Session is the part of the session store the results screen needs.
type Session interface {
	GetState() state.SessionState
}

// Tier is the headline shown for a score band.
type Tier struct {
	Headline string
	Message  string
}

// TierFor picks the headline for an accuracy percentage.
func TierFor(percent int) Tier {
	switch {
	case percent >= 90:
		return Tier{"Outstanding!", "You're a master at this!"}
	case percent >= 70:
		return Tier{"Great Job!", "You really know your stuff."}
	case percent >= 50:
		return Tier{"Well Done!", "You're getting there."}
	}
	return Tier{"Good effort!", "Keep practicing to improve!"}
}

// ResultsScreen renders the last run with an animated accuracy bar.
type ResultsScreen struct {
	run     *state.RunRecord
	catalog trivia.Catalog
	menu    components.Menu

	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen for the session's last run.
func New(session Session, catalog trivia.Catalog) *ResultsScreen {
	r := &ResultsScreen{
		run:     session.GetState().LastRun,
		catalog: catalog,
		spring:  harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.7),
	}
	if r.run != nil {
		r.target = float64(r.run.Percent()) / 100
	}
	r.menu = components.NewMenu([]components.MenuItem{
		{Label: "Play Again", Action: func() tea.Cmd { return router.Navigate(router.RouteQuiz) }},
		{Label: "Dashboard", Action: func() tea.Cmd { return router.Navigate(router.RouteRoot) }},
		{Label: "Profile", Action: func() tea.Cmd { return router.Navigate(router.RouteProfile) }},
	})
	return r
}

// Init leaves for the dashboard when there is nothing to show.
func (r *ResultsScreen) Init() tea.Cmd {
	if r.run == nil {
		return router.Navigate(router.RouteRoot)
	}
	return frame()
}

func frame() tea.Cmd {
	return tea.Tick(time.Second/fps, func(time.Time) tea.Msg { return frameMsg{} })
}

func (r *ResultsScreen) Title() string {
	return "Results"
}

func (r *ResultsScreen) KeyHints() []key.Binding {
	return []key.Binding{components.KeyUp, components.KeyDown, components.KeyEnter}
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case frameMsg:
		r.pos, r.vel = r.spring.Update(r.pos, r.vel, r.target)
		if r.settled() {
			r.pos, r.vel = r.target, 0
			return r, nil
		}
		return r, frame()
	case tea.KeyPressMsg:
		var cmd tea.Cmd
		r.menu, cmd = r.menu.Update(msg)
		return r, cmd
	}
	return r, nil
}

func (r *ResultsScreen) settled() bool {
	return math.Abs(r.pos-r.target) < 0.002 && math.Abs(r.vel) < 0.01
}

func (r *ResultsScreen) View(width, height int) string {
	if r.run == nil {
		return ""
	}
	run := r.run
	pct := run.Percent()
	tier := TierFor(pct)
	cw := layout.CardWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render(tier.Headline))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(tier.Message))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Bold(true).Render(fmt.Sprintf("You scored %d out of %d", run.Score, run.Total)))
	b.WriteString("\n\n")
	b.WriteString(components.Bar(r.pos, cw-6))
	b.WriteString("\n\n")
	b.WriteString(theme.Dim.Render(fmt.Sprintf("%s · %s", r.catalog.Name(run.Category), modeLabel(run.Mode))))
	b.WriteString("\n\n")
	b.WriteString(r.menu.View(0))

	return layout.Center(theme.Card.Width(cw).Render(b.String()), width, height)
}

func modeLabel(m state.Mode) string {
	if m == state.ModeSpeed {
		return "Speed Run"
	}
	return "Standard"
}
