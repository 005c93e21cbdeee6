package quiz

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/triviaz/internal/quiz"
)

// teaScheduler runs machine tasks on the Bubble Tea loop. Schedule queues a
// tick command; the screen drains the queue after each machine call and
// feeds taskFiredMsg back through fire. Cancelled ids are forgotten, so
// their ticks arrive to nothing.
type teaScheduler struct {
	attempt uint64
	next    int
	tasks   map[int]func()
	pending []tea.Cmd

	tick func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd
}

func newScheduler(attempt uint64) *teaScheduler {
	return &teaScheduler{
		attempt: attempt,
		tasks:   make(map[int]func()),
		tick:    tea.Tick,
	}
}

type schedTask struct {
	s  *teaScheduler
	id int
}

func (t schedTask) Cancel() { delete(t.s.tasks, t.id) }

func (s *teaScheduler) Schedule(d time.Duration, fire func()) quiz.Task {
	s.next++
	id, attempt := s.next, s.attempt
	s.tasks[id] = fire
	s.pending = append(s.pending, s.tick(d, func(time.Time) tea.Msg {
		return taskFiredMsg{attempt: attempt, id: id}
	}))
	return schedTask{s: s, id: id}
}

// fire runs the task with id unless it was cancelled or already ran.
func (s *teaScheduler) fire(id int) {
	fn, ok := s.tasks[id]
	if !ok {
		return
	}
	delete(s.tasks, id)
	fn()
}

// drain returns the ticks queued since the last call.
func (s *teaScheduler) drain() []tea.Cmd {
	cmds := s.pending
	s.pending = nil
	return cmds
}

func (s *teaScheduler) stop() {
	clear(s.tasks)
	s.pending = nil
}

func (s *teaScheduler) active() int { return len(s.tasks) }
