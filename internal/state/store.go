// Package state owns the session of the active identity: settings, run
// history, theme and unlocked achievements. All mutation goes through
// Store, which persists every change and notifies subscribers.
package state

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Persister stores sessions keyed by identity, plus a single record naming
// the identity that was active last.
type Persister interface {
	// Load returns the stored session for identity, or nil if none exists.
	Load(ctx context.Context, identity string) (*SessionState, error)

	// Save writes the full session for identity.
	Save(ctx context.Context, identity string, s SessionState) error

	// LoadActiveIdentity returns "" when no identity is active.
	LoadActiveIdentity(ctx context.Context) (string, error)

	// SaveActiveIdentity records identity as active. "" clears it.
	SaveActiveIdentity(ctx context.Context, identity string) error
}

// Store is the single source of truth for the active session.
type Store struct {
	mu      sync.Mutex
	p       Persister
	logger  *log.Logger
	state   SessionState
	subs    map[int]func(SessionState)
	nextSub int
	now     func() time.Time
}

// New creates a Store and restores the last active identity, if any.
// A nil persister keeps everything in memory.
func New(p Persister, logger *log.Logger) *Store {
	if p == nil {
		p = discardPersister{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Store{
		p:      p,
		logger: logger.WithPrefix("state"),
		state:  Defaults(),
		subs:   make(map[int]func(SessionState)),
		now:    time.Now,
	}

	id, err := p.LoadActiveIdentity(context.Background())
	if err != nil {
		s.logger.Warn("restore active identity", "err", err)
	}
	if id != "" {
		s.state = s.loadLocked(id)
		s.logger.Debug("restored session", "identity", id)
	}
	return s
}

// GetState returns a copy of the current session.
func (s *Store) GetState() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn to receive a snapshot after every mutation.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(SessionState)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Login saves the current session and switches to name, creating a fresh
// session when name has never played. Blank names are ignored.
func (s *Store) Login(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	s.mutate(func(st *SessionState) {
		s.persistLocked()
		*st = s.loadLocked(name)
		s.logger.Info("login", "identity", name)
	})
}

// Logout saves the current session and resets to defaults.
func (s *Store) Logout() {
	s.mutate(func(st *SessionState) {
		s.persistLocked()
		s.logger.Info("logout", "identity", st.Identity)
		*st = Defaults()
	})
}

// SetCategory sets the question category. nil means any category.
func (s *Store) SetCategory(category *int) {
	s.mutate(func(st *SessionState) {
		st.Settings.Category = cloneInt(category)
	})
}

// SetAmount parses a leading integer from raw. Unparseable or values below
// one become 5; values above 50 become 50.
func (s *Store) SetAmount(raw string) {
	n, ok := parseLeadingInt(raw)
	if !ok {
		n = fallbackAmount
	}
	s.mutate(func(st *SessionState) {
		st.Settings.Amount = clampAmount(n)
	})
}

// SetMode ignores unknown modes.
func (s *Store) SetMode(m Mode) {
	if !m.Valid() {
		return
	}
	s.mutate(func(st *SessionState) {
		st.Settings.Mode = m
	})
}

// SetDifficulty ignores unknown difficulties.
func (s *Store) SetDifficulty(d Difficulty) {
	if !d.Valid() {
		return
	}
	s.mutate(func(st *SessionState) {
		st.Settings.Difficulty = d
	})
}

// SetTheme accepts only light and dark. Anything else is a silent no-op.
func (s *Store) SetTheme(t Theme) {
	if t != ThemeLight && t != ThemeDark {
		return
	}
	s.mutate(func(st *SessionState) {
		st.Theme = t
	})
}

// ToggleTheme flips between dark and light.
func (s *Store) ToggleTheme() {
	s.mutate(func(st *SessionState) {
		if st.Theme == ThemeLight {
			st.Theme = ThemeDark
		} else {
			st.Theme = ThemeLight
		}
	})
}

// SaveLastRun appends run to history, evicting the oldest beyond
// MaxHistory, and evaluates achievements.
func (s *Store) SaveLastRun(run RunRecord) {
	run = cloneRun(run)
	run.Total = max(run.Total, 0)
	run.Score = min(max(run.Score, 0), run.Total)
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CompletedAt.IsZero() {
		run.CompletedAt = s.now()
	}

	s.mutate(func(st *SessionState) {
		st.History = append(st.History, run)
		if len(st.History) > MaxHistory {
			st.History = st.History[len(st.History)-MaxHistory:]
		}
		last := cloneRun(run)
		st.LastRun = &last

		var added []string
		st.Achievements, added = evaluateAchievements(st.Achievements, st.History, run)
		for _, id := range added {
			s.logger.Info("achievement unlocked", "identity", st.Identity, "id", id)
		}
	})
}

// ClearHistory drops history, the last run and achievements. Settings and
// identity are kept.
func (s *Store) ClearHistory() {
	s.mutate(func(st *SessionState) {
		st.History = []RunRecord{}
		st.LastRun = nil
		st.Achievements = []string{}
	})
}

// GetStats returns nil when there is no history.
func (s *Store) GetStats() *Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeStats(s.state.History)
}

// GetAchievements returns every catalog entry in display order.
func (s *Store) GetAchievements() []AchievementStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AchievementStatuses(s.state.Achievements)
}

// GetRecommendation returns nil when there is nothing to recommend.
func (s *Store) GetRecommendation() *Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Recommend(s.state.History)
}

// mutate applies fn under the lock, persists, then notifies subscribers
// after the lock is released so they may call back into the store.
func (s *Store) mutate(fn func(*SessionState)) {
	s.mu.Lock()
	fn(&s.state)
	s.persistLocked()
	snap := s.state.Clone()
	subs := make([]func(SessionState), 0, len(s.subs))
	for i := 0; i < s.nextSub; i++ {
		if sub, ok := s.subs[i]; ok {
			subs = append(subs, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap.Clone())
	}
}

// persistLocked writes the session and the active identity. Failures are
// logged and the store keeps working in memory.
func (s *Store) persistLocked() {
	ctx := context.Background()
	if s.state.Identity != "" {
		if err := s.p.Save(ctx, s.state.Identity, s.state.Clone()); err != nil {
			s.logger.Error("save session", "identity", s.state.Identity, "err", err)
		}
	}
	if err := s.p.SaveActiveIdentity(ctx, s.state.Identity); err != nil {
		s.logger.Error("save active identity", "err", err)
	}
}

func (s *Store) loadLocked(identity string) SessionState {
	loaded, err := s.p.Load(context.Background(), identity)
	if err != nil {
		s.logger.Error("load session", "identity", identity, "err", err)
	}
	st := Defaults()
	if err == nil && loaded != nil {
		st = loaded.Clone()
		st.normalize()
	}
	st.Identity = identity
	return st
}

// parseLeadingInt reads an optionally signed run of digits after leading
// whitespace and ignores whatever follows, so "12abc" is 12.
func parseLeadingInt(raw string) (int, bool) {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		if n <= MaxAmount*10 {
			n = n*10 + int(c-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

type discardPersister struct{}

func (discardPersister) Load(context.Context, string) (*SessionState, error) { return nil, nil }
func (discardPersister) Save(context.Context, string, SessionState) error { return nil }
func (discardPersister) LoadActiveIdentity(context.Context) (string, error) { return "", nil }
func (discardPersister) SaveActiveIdentity(context.Context, string) error { return nil }
