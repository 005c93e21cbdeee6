package state

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Mode is the quiz variant.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeSpeed    Mode = "speed"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeStandard || m == ModeSpeed
}

// Difficulty filters questions by difficulty. The empty value means any.
type Difficulty string

const (
	DifficultyAny    Difficulty = ""
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty (including any).
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyAny, DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Theme is the UI color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

const (
	// MaxHistory is the number of runs kept per identity.
	MaxHistory = 50

	DefaultAmount = 10
	MinAmount     = 1
	MaxAmount     = 50

	// fallbackAmount replaces unparseable or too small amounts.
	fallbackAmount = 5
)

// Settings holds the quiz configuration for the active identity.
type Settings struct {
	Amount     int        `json:"amount"`
	Category   *int       `json:"category"`
	Mode       Mode       `json:"mode"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
}

// RunRecord is one completed or early-terminated quiz attempt.
type RunRecord struct {
	ID          string    `json:"id,omitempty"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Category    *int      `json:"category"`
	Mode        Mode      `json:"mode"`
	CompletedAt time.Time `json:"date"`
}

// Percent returns the run accuracy as a rounded percentage.
func (r RunRecord) Percent() int {
	if r.Total <= 0 {
		return 0
	}
	return roundDiv(100*r.Score, r.Total)
}

// SessionState is everything persisted for one identity.
type SessionState struct {
	Identity     string      `json:"user,omitempty"`
	Settings     Settings    `json:"settings"`
	LastRun      *RunRecord  `json:"lastRun"`
	History      []RunRecord `json:"history"`
	Theme        Theme       `json:"theme"`
	Achievements []string    `json:"achievements"`
}

// HasIdentity reports whether a session is active.
func (s SessionState) HasIdentity() bool {
	return s.Identity != ""
}

// Unlocked reports whether the achievement id is in the unlocked set.
func (s SessionState) Unlocked(id string) bool {
	return slices.Contains(s.Achievements, id)
}

// Defaults returns a fresh session with no identity.
func Defaults() SessionState {
	return SessionState{
		Settings: Settings{
			Amount: DefaultAmount,
			Mode:   ModeStandard,
		},
		History:      []RunRecord{},
		Theme:        ThemeDark,
		Achievements: []string{},
	}
}

// Clone returns a deep copy so callers cannot mutate store internals.
func (s SessionState) Clone() SessionState {
	out := s
	out.Settings.Category = cloneInt(s.Settings.Category)
	if s.LastRun != nil {
		run := cloneRun(*s.LastRun)
		out.LastRun = &run
	}
	out.History = make([]RunRecord, len(s.History))
	for i, r := range s.History {
		out.History[i] = cloneRun(r)
	}
	out.Achievements = slices.Clone(s.Achievements)
	if out.Achievements == nil {
		out.Achievements = []string{}
	}
	return out
}

// Encode serializes a session for persistence.
func Encode(s SessionState) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

// Decode merges persisted data over Defaults so records written by older
// versions pick up defaults for fields they lack. Out-of-range values are
// normalized.
func Decode(data []byte) (SessionState, error) {
	s := Defaults()
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Defaults(), fmt.Errorf("decode session: %w", err)
	}
	s.normalize()
	return s, nil
}

func (s *SessionState) normalize() {
	s.Settings.Amount = clampAmount(s.Settings.Amount)
	if !s.Settings.Mode.Valid() {
		s.Settings.Mode = ModeStandard
	}
	if !s.Settings.Difficulty.Valid() {
		s.Settings.Difficulty = DifficultyAny
	}
	if s.Theme != ThemeDark && s.Theme != ThemeLight {
		s.Theme = ThemeDark
	}
	if s.History == nil {
		s.History = []RunRecord{}
	}
	if len(s.History) > MaxHistory {
		s.History = s.History[len(s.History)-MaxHistory:]
	}
	if s.Achievements == nil {
		s.Achievements = []string{}
	}
}

func clampAmount(n int) int {
	switch {
	case n < MinAmount:
		return fallbackAmount
	case n > MaxAmount:
		return MaxAmount
	}
	return n
}

func cloneRun(r RunRecord) RunRecord {
	r.Category = cloneInt(r.Category)
	return r
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// roundDiv returns round(a/b) for non-negative a and positive b.
func roundDiv(a, b int) int {
	return (2*a + b) / (2 * b)
}
