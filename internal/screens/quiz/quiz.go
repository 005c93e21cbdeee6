// Package quiz is the screen that plays one quiz attempt.
package quiz

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"

	"github.com/abhisek/triviaz/internal/quiz"
	"github.com/abhisek/triviaz/internal/router"
	"github.com/abhisek/triviaz/internal/screen"
	"github.com/abhisek/triviaz/internal/state"
	"github.com/abhisek/triviaz/internal/ui/components"
	"github.com/abhisek/triviaz/internal/ui/theme"
)

const defaultFetchTimeout = 30 * time.Second

// attempts numbers every screen instance so fetch results and timer fires
// from a replaced attempt can be recognised and dropped.
var attempts atomic.Uint64

var keyEnd = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end quiz"))

// Session is the part of the session store the quiz needs.
type Session interface {
	GetState() state.SessionState
	SaveLastRun(state.RunRecord)
}

// Options tunes a quiz screen. Zero values use the defaults.
type Options struct {
	Feedback     quiz.Feedback
	Logger       *log.Logger
	FetchTimeout time.Duration
	Countdown    time.Duration
	AdvanceDelay time.Duration
}

// QuizScreen fetches questions for the current settings and runs them
// through a quiz.Machine.
type QuizScreen struct {
	provider quiz.Provider
	logger   *log.Logger
	timeout  time.Duration

	attempt uint64
	machine *quiz.Machine
	sched   *teaScheduler
	ctx     context.Context
	cancel  context.CancelFunc

	spinner  spinner.Model
	choices  components.Choices
	shown    int // index of the question the choices were built for
	errMenu  components.Menu
	finished bool
	leaving  bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.Closer = (*QuizScreen)(nil)

// New creates a quiz attempt for the session's current settings.
func New(session Session, provider quiz.Provider, opts Options) *QuizScreen {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	s := &QuizScreen{
		provider: provider,
		logger:   logger.WithPrefix("quiz"),
		timeout:  timeout,
		attempt:  attempts.Add(1),
		shown:    -1,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(theme.Subtitle),
		),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.sched = newScheduler(s.attempt)
	s.machine = quiz.New(quiz.Config{
		Settings:     session.GetState().Settings,
		Saver:        session,
		Scheduler:    s.sched,
		Feedback:     opts.Feedback,
		OnFinish:     func(state.RunRecord) { s.finished = true },
		Countdown:    opts.Countdown,
		AdvanceDelay: opts.AdvanceDelay,
	})
	s.errMenu = components.NewMenu([]components.MenuItem{
		{Label: "Adjust Settings", Action: func() tea.Cmd { return router.Navigate(router.RouteRoot) }},
		{Label: "Try Again", Action: func() tea.Cmd { return router.Navigate(router.RouteQuiz) }},
	})
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.fetch())
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) KeyHints() []key.Binding {
	switch s.machine.Phase() {
	case quiz.PhaseActive:
		if s.machine.Locked() {
			return []key.Binding{keyEnd}
		}
		return []key.Binding{components.KeyNumber, components.KeyUp, components.KeyDown, components.KeyEnter, keyEnd}
	case quiz.PhaseError:
		return []key.Binding{components.KeyUp, components.KeyDown, components.KeyEnter}
	}
	return nil
}

// Close cancels the fetch and every pending timer of this attempt.
func (s *QuizScreen) Close() {
	s.cancel()
	s.machine.Close()
	s.sched.stop()
}

// Machine exposes the attempt for inspection.
func (s *QuizScreen) Machine() *quiz.Machine { return s.machine }

func (s *QuizScreen) fetch() tea.Cmd {
	attempt, parent := s.attempt, s.ctx
	provider, settings, timeout := s.provider, s.machine.Settings(), s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		qs, err := quiz.Fetch(ctx, provider, settings)
		return fetchedMsg{attempt: attempt, questions: qs, err: err}
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchedMsg:
		if msg.attempt != s.attempt {
			return s, nil
		}
		if msg.err != nil {
			s.logger.Warn("fetch questions", "err", msg.err)
			s.machine.Fail(msg.err)
		} else {
			s.logger.Debug("questions ready", "count", len(msg.questions))
			s.machine.Begin(msg.questions)
		}
		return s, s.settle()

	case taskFiredMsg:
		if msg.attempt != s.attempt {
			return s, nil
		}
		s.sched.fire(msg.id)
		return s, s.settle()

	case components.ChoiceMsg:
		s.machine.Select(msg.Option)
		return s, s.settle()

	case spinner.TickMsg:
		if s.machine.Phase() != quiz.PhaseLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch s.machine.Phase() {
	case quiz.PhaseActive:
		if key.Matches(msg, keyEnd) {
			s.machine.EndNow()
			return s, s.settle()
		}
		var cmd tea.Cmd
		s.choices, cmd = s.choices.Update(msg)
		return s, cmd
	case quiz.PhaseError:
		var cmd tea.Cmd
		s.errMenu, cmd = s.errMenu.Update(msg)
		return s, cmd
	}
	return s, nil
}

// settle syncs the view with the machine after it ran, and collects the
// timer ticks it scheduled plus the hand-off to results once it finished.
func (s *QuizScreen) settle() tea.Cmd {
	if q, ok := s.machine.Current(); ok {
		if s.shown != s.machine.Index() {
			s.shown = s.machine.Index()
			s.choices = components.NewChoices(q.Options)
		}
		if s.machine.Locked() {
			picked, _ := s.machine.Selected()
			s.choices.Reveal(q.CorrectAnswer, picked)
		}
	}

	cmds := s.sched.drain()
	if s.finished && !s.leaving {
		s.leaving = true
		cmds = append(cmds, router.Navigate(router.RouteResults))
	}
	return tea.Batch(cmds...)
}
