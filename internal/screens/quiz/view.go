package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaz/internal/quiz"
	"github.com/abhisek/triviaz/internal/state"
	"github.com/abhisek/triviaz/internal/ui/layout"
	"github.com/abhisek/triviaz/internal/ui/theme"
)

// countdownWarn is when the countdown turns to the warning color.
const countdownWarn = 3

func (s *QuizScreen) View(width, height int) string {
	var body string
	switch s.machine.Phase() {
	case quiz.PhaseLoading:
		body = s.spinner.View() + " " + theme.Subtitle.Render("Loading questions...")
	case quiz.PhaseError:
		body = s.renderError(width)
	case quiz.PhaseActive:
		body = s.renderQuestion(width)
	default:
		body = theme.Subtitle.Render("Tallying your score...")
	}
	return layout.Center(body, width, height)
}

func (s *QuizScreen) renderError(width int) string {
	cw := layout.CardWidth(width)
	msg := lipgloss.NewStyle().Width(cw - 6).Foreground(theme.Error).Render(s.machine.ErrorMessage())

	var b strings.Builder
	b.WriteString(theme.Title.Render("Oops! Something went wrong"))
	b.WriteString("\n\n")
	b.WriteString(msg)
	b.WriteString("\n\n")
	b.WriteString(s.errMenu.View(0))
	return theme.Card.Width(cw).Render(b.String())
}

func (s *QuizScreen) renderQuestion(width int) string {
	q, _ := s.machine.Current()
	cw := layout.CardWidth(width)
	inner := cw - 6

	status := theme.Subtitle.Render(fmt.Sprintf("Question %d/%d", s.machine.Index()+1, s.machine.Len()))
	score := theme.Body.Render(fmt.Sprintf("Score: %d", s.machine.Score()))
	if s.machine.Settings().Mode == state.ModeSpeed {
		style := theme.Body
		if s.machine.Remaining() <= countdownWarn {
			style = theme.Warning
		}
		score += "  " + style.Render(fmt.Sprintf("⏱ %ds", s.machine.Remaining()))
	}
	gap := max(inner-lipgloss.Width(status)-lipgloss.Width(score), 1)

	var b strings.Builder
	b.WriteString(status + strings.Repeat(" ", gap) + score)
	b.WriteString("\n")
	meta := q.Category
	if q.Difficulty != "" {
		meta += " · " + q.Difficulty
	}
	b.WriteString(theme.Dim.Render(layout.Truncate(meta, inner)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(inner).Bold(true).Foreground(theme.Text).Render(q.Text))
	b.WriteString("\n\n")
	b.WriteString(s.choices.View(inner))
	b.WriteString("\n")
	b.WriteString(s.renderFeedback(q))
	return theme.Card.Width(cw).Render(b.String())
}

func (s *QuizScreen) renderFeedback(q quiz.Question) string {
	if !s.machine.Locked() {
		return theme.Hint.Render("Pick an answer")
	}
	if s.machine.TimedOut() {
		return theme.Incorrect.Render("Time's up! Answer: " + q.CorrectAnswer)
	}
	if picked, _ := s.machine.Selected(); picked == q.CorrectAnswer {
		return theme.Correct.Render("Correct!")
	}
	return theme.Incorrect.Render("Wrong! Answer: " + q.CorrectAnswer)
}
