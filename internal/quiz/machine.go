package quiz

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/triviaz/internal/state"
)

const (
	DefaultCountdown    = 10 * time.Second
	DefaultAdvanceDelay = 1500 * time.Millisecond
	tickInterval        = time.Second
)

// Phase is the lifecycle stage of an attempt.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseError
	PhaseActive
	PhaseFinished
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	case PhaseClosed:
		return "closed"
	}
	return "unknown"
}

// Task is a pending scheduled callback.
type Task interface {
	Cancel()
}

// Scheduler runs fire once after d unless the returned Task is cancelled.
// fire must run on the same goroutine that drives the Machine.
type Scheduler interface {
	Schedule(d time.Duration, fire func()) Task
}

// Cue is an outcome the player should hear or feel.
type Cue int

const (
	CueCorrect Cue = iota
	CueWrong
	CueFinish
)

// Feedback plays cues. Implementations must not block.
type Feedback interface {
	Play(Cue)
}

// Saver receives the finished run.
type Saver interface {
	SaveLastRun(state.RunRecord)
}

// Config wires a Machine to its collaborators.
type Config struct {
	Settings  state.Settings
	Saver     Saver
	Scheduler Scheduler
	Feedback  Feedback // optional

	// OnFinish is called after the run has been saved.
	OnFinish func(state.RunRecord)

	Now          func() time.Time
	Countdown    time.Duration
	AdvanceDelay time.Duration
}

// Machine is one quiz attempt. It is not safe for concurrent use; every
// method and every scheduled callback must run on one goroutine.
type Machine struct {
	cfg Config

	phase     Phase
	err       error
	questions []Question
	index     int
	score     int
	locked    bool
	selected  string
	answered  bool // selected holds a real choice
	remaining int  // countdown seconds left in speed mode

	task Task
	gen  int // invalidates callbacks of cancelled tasks
	run  *state.RunRecord
}

// New creates a Machine in the loading phase.
func New(cfg Config) *Machine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Countdown <= 0 {
		cfg.Countdown = DefaultCountdown
	}
	if cfg.AdvanceDelay <= 0 {
		cfg.AdvanceDelay = DefaultAdvanceDelay
	}
	return &Machine{cfg: cfg, phase: PhaseLoading}
}

// Begin starts the quiz with the fetched questions. An empty set is treated
// like the question bank reporting too few results. Calls outside the
// loading phase are ignored, so a late fetch cannot revive a closed attempt.
func (m *Machine) Begin(questions []Question) {
	if m.phase != PhaseLoading {
		return
	}
	if len(questions) == 0 {
		m.Fail(&ProviderError{Code: CodeNoResults})
		return
	}
	m.questions = questions
	m.index = 0
	m.phase = PhaseActive
	m.enterQuestion()
}

// Fail moves a loading attempt to the error phase.
func (m *Machine) Fail(err error) {
	if m.phase != PhaseLoading {
		return
	}
	m.phase = PhaseError
	m.err = err
}

// Select submits option for the current question. It is a no-op unless a
// question is showing and input is unlocked.
func (m *Machine) Select(option string) {
	if m.phase != PhaseActive || m.locked {
		return
	}
	m.submit(option, true)
}

// EndNow finishes immediately. The current question counts toward the
// total only if it was already answered.
func (m *Machine) EndNow() {
	if m.phase != PhaseActive {
		return
	}
	m.finish()
}

// Close tears the attempt down. Pending timers are cancelled and every later
// call, including stale timer fires, is ignored.
func (m *Machine) Close() {
	m.cancelTask()
	if m.phase != PhaseFinished {
		m.phase = PhaseClosed
	}
}

func (m *Machine) enterQuestion() {
	m.locked = false
	m.selected = ""
	m.answered = false
	m.remaining = 0
	if m.cfg.Settings.Mode == state.ModeSpeed {
		m.remaining = int(m.cfg.Countdown / tickInterval)
		m.schedule(tickInterval, m.tick)
	}
}

func (m *Machine) tick() {
	m.remaining--
	if m.remaining > 0 {
		m.schedule(tickInterval, m.tick)
		return
	}
	m.remaining = 0
	m.submit("", false)
}

// submit locks input and scores. A timed-out question has answered=false
// and is always wrong.
func (m *Machine) submit(option string, answered bool) {
	m.cancelTask()
	m.locked = true
	m.selected = option
	m.answered = answered

	correct := answered && option == m.questions[m.index].CorrectAnswer
	if correct {
		m.score++
		m.play(CueCorrect)
	} else {
		m.play(CueWrong)
	}
	m.schedule(m.cfg.AdvanceDelay, m.advance)
}

func (m *Machine) advance() {
	if m.index+1 >= len(m.questions) {
		m.finish()
		return
	}
	m.index++
	m.enterQuestion()
}

func (m *Machine) finish() {
	m.cancelTask()

	total := m.index
	if m.locked {
		total++
	}
	// Ending before anything was answered reports 0/1, not 0/0.
	if total == 0 && m.score == 0 {
		total = 1
	}

	run := state.RunRecord{
		ID:          uuid.NewString(),
		Score:       m.score,
		Total:       total,
		Category:    m.cfg.Settings.Category,
		Mode:        m.cfg.Settings.Mode,
		CompletedAt: m.cfg.Now(),
	}
	m.run = &run
	m.phase = PhaseFinished

	if m.cfg.Saver != nil {
		m.cfg.Saver.SaveLastRun(run)
	}
	m.play(CueFinish)
	if m.cfg.OnFinish != nil {
		m.cfg.OnFinish(run)
	}
}

// schedule replaces any pending task with a new one.
func (m *Machine) schedule(d time.Duration, fn func()) {
	m.cancelTask()
	if m.cfg.Scheduler == nil {
		return
	}
	gen := m.gen
	m.task = m.cfg.Scheduler.Schedule(d, func() {
		if gen != m.gen || m.phase != PhaseActive {
			return
		}
		m.task = nil
		fn()
	})
}

func (m *Machine) cancelTask() {
	m.gen++
	if m.task != nil {
		m.task.Cancel()
		m.task = nil
	}
}

func (m *Machine) play(c Cue) {
	if m.cfg.Feedback != nil {
		m.cfg.Feedback.Play(c)
	}
}

// Phase returns the current lifecycle stage.
func (m *Machine) Phase() Phase { return m.phase }

// Err returns the failure that moved the attempt to the error phase.
func (m *Machine) Err() error { return m.err }

// ErrorMessage returns the player-facing text for Err.
func (m *Machine) ErrorMessage() string { return ErrorMessage(m.err) }

// Current returns the question being shown.
func (m *Machine) Current() (Question, bool) {
	if m.phase != PhaseActive || m.index >= len(m.questions) {
		return Question{}, false
	}
	return m.questions[m.index], true
}

// Index is the zero-based position of the current question.
func (m *Machine) Index() int { return m.index }

// Len is the number of questions in the attempt.
func (m *Machine) Len() int { return len(m.questions) }

// Score is the number of correct answers so far.
func (m *Machine) Score() int { return m.score }

// Locked reports whether the current question has been submitted.
func (m *Machine) Locked() bool { return m.locked }

// Selected returns the submitted option. ok is false when nothing was
// chosen, either because input is unlocked or the countdown ran out.
func (m *Machine) Selected() (option string, ok bool) {
	return m.selected, m.locked && m.answered
}

// TimedOut reports whether the current question was locked by the countdown.
func (m *Machine) TimedOut() bool { return m.locked && !m.answered }

// Remaining is the countdown in whole seconds. Zero outside speed mode.
func (m *Machine) Remaining() int { return m.remaining }

// Settings returns the settings this attempt was started with.
func (m *Machine) Settings() state.Settings { return m.cfg.Settings }

// Run returns the finished run, or nil before the attempt finishes.
func (m *Machine) Run() *state.RunRecord { return m.run }
