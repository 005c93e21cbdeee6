// Package profile shows stats, achievements and recent history for the
// signed-in player.
package profile

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/triviaz/internal/router"
	"github.com/abhisek/triviaz/internal/screen"
	"github.com/abhisek/triviaz/internal/state"
	"github.com/abhisek/triviaz/internal/trivia"
	"github.com/abhisek/triviaz/internal/ui/components"
	"github.com/abhisek/triviaz/internal/ui/layout"
	"github.com/abhisek/triviaz/internal/ui/theme"
)

// recentRuns is how many history entries are listed.
const recentRuns = 10

var (
	keyReset   = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset history"))
	keyConfirm = key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm"))
	keyCancel  = key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel"))
)

// Session is the part of the session store the profile screen needs.
type Session interface {
	GetState() state.SessionState
	GetStats() *state.Stats
	GetAchievements() []state.AchievementStatus
	GetRecommendation() *state.Recommendation
	ClearHistory()
}

// ProfileScreen is read-only apart from the history reset.
type ProfileScreen struct {
	session    Session
	catalog    trivia.Catalog
	confirming bool
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

// New creates a ProfileScreen.
func New(session Session, catalog trivia.Catalog) *ProfileScreen {
	return &ProfileScreen{session: session, catalog: catalog}
}

func (p *ProfileScreen) Init() tea.Cmd {
	return nil
}

func (p *ProfileScreen) Title() string {
	return "Profile"
}

func (p *ProfileScreen) KeyHints() []key.Binding {
	if p.confirming {
		return []key.Binding{keyConfirm, keyCancel}
	}
	return []key.Binding{keyReset, components.KeyBack}
}

func (p *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return p, nil
	}

	if p.confirming {
		switch {
		case key.Matches(kmsg, keyConfirm):
			p.session.ClearHistory()
			p.confirming = false
		case key.Matches(kmsg, keyCancel):
			p.confirming = false
		}
		return p, nil
	}

	switch {
	case key.Matches(kmsg, keyReset):
		p.confirming = true
	case key.Matches(kmsg, components.KeyBack), key.Matches(kmsg, components.KeyEnter):
		return p, router.Navigate(router.RouteRoot)
	}
	return p, nil
}

func (p *ProfileScreen) View(width, height int) string {
	st := p.session.GetState()
	cw := layout.CardWidth(width)
	inner := cw - 6

	sections := []string{
		theme.Title.Render(st.Identity + "'s Profile"),
		"",
		p.renderStats(),
	}
	if rec := p.renderRecommendation(inner); rec != "" {
		sections = append(sections, "", rec)
	}
	sections = append(sections, "", p.renderAchievements(inner), "", p.renderHistory(st.History, inner))
	if p.confirming {
		sections = append(sections, "", theme.Warning.Render("Clear all history? This cannot be undone. (y/n)"))
	}

	card := theme.Card.Width(cw).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return layout.Center(card, width, height)
}

func (p *ProfileScreen) renderStats() string {
	st := p.session.GetStats()
	if st == nil {
		st = &state.Stats{}
	}
	cell := func(label, value string) string {
		return lipgloss.JoinVertical(lipgloss.Center,
			theme.Title.Render(value),
			theme.Dim.Render(label),
		)
	}
	gap := "    "
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cell("Games", fmt.Sprint(st.TotalGames)), gap,
		cell("Accuracy", fmt.Sprintf("%d%%", st.Accuracy)), gap,
		cell("Questions", fmt.Sprint(st.TotalQuestions)), gap,
		cell("Best Score", fmt.Sprint(st.BestScore)),
	)
}

func (p *ProfileScreen) renderRecommendation(width int) string {
	rec := p.session.GetRecommendation()
	if rec == nil {
		return ""
	}
	var text string
	switch rec.Kind {
	case state.RecommendImprove:
		text = fmt.Sprintf("💡 We noticed you could improve in %s (Avg: %d%%). Why not try a few rounds?",
			p.catalog.Name(&rec.Category), rec.Average)
	case state.RecommendExpert:
		text = "🌟 Expert Status: You're doing amazing across the board! Try increasing the difficulty or speed."
	default:
		return ""
	}
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(theme.Accent).
		PaddingLeft(1).
		Foreground(theme.Text).
		Render(text)
}

func (p *ProfileScreen) renderAchievements(width int) string {
	all := p.session.GetAchievements()
	unlocked := 0
	for _, a := range all {
		if a.Unlocked {
			unlocked++
		}
	}

	var b strings.Builder
	b.WriteString(theme.Subtitle.Bold(true).Render(fmt.Sprintf("Achievements (%d/%d)", unlocked, len(all))))
	for _, a := range all {
		b.WriteString("\n")
		line := layout.Truncate(fmt.Sprintf("%s %s  %s", a.Icon, a.Name, a.Description), width)
		if a.Unlocked {
			b.WriteString(theme.Body.Render(line))
		} else {
			b.WriteString(theme.Dim.Render(layout.Truncate("🔒 "+a.Name+"  "+a.Description, width)))
		}
	}
	return b.String()
}

func (p *ProfileScreen) renderHistory(history []state.RunRecord, width int) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Bold(true).Render("Recent History"))
	if len(history) == 0 {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("No games played yet."))
		return b.String()
	}

	recent := slices.Clone(history[max(len(history)-recentRuns, 0):])
	slices.Reverse(recent)
	for _, r := range recent {
		b.WriteString("\n")
		left := fmt.Sprintf("%-16s %2d/%-2d", layout.Truncate(p.catalog.Name(r.Category), 16), r.Score, r.Total)
		if r.Mode == state.ModeSpeed {
			left += " ⚡"
		}
		when := humanize.Time(r.CompletedAt)
		gap := max(width-lipgloss.Width(left)-lipgloss.Width(when), 1)
		b.WriteString(theme.Body.Render(left) + strings.Repeat(" ", gap) + theme.Dim.Render(when))
	}
	return b.String()
}
