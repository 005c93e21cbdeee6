package state

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// mapPersister is an in-memory Persister that can be told to fail.
type mapPersister struct {
	sessions map[string]SessionState
	active   string
	failSave bool
	failLoad bool
	saves    int
}

func newMapPersister() *mapPersister {
	return &mapPersister{sessions: make(map[string]SessionState)}
}

func (m *mapPersister) Load(_ context.Context, id string) (*SessionState, error) {
	if m.failLoad {
		return nil, errors.New("disk on fire")
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	c := s.Clone()
	return &c, nil
}

func (m *mapPersister) Save(_ context.Context, id string, s SessionState) error {
	if m.failSave {
		return errors.New("disk full")
	}
	m.saves++
	m.sessions[id] = s.Clone()
	return nil
}

func (m *mapPersister) LoadActiveIdentity(context.Context) (string, error) {
	return m.active, nil
}

func (m *mapPersister) SaveActiveIdentity(_ context.Context, id string) error {
	if m.failSave {
		return errors.New("disk full")
	}
	m.active = id
	return nil
}

func intPtr(v int) *int { return &v }

func newLoggedInStore(t *testing.T) (*Store, *mapPersister) {
	t.Helper()
	p := newMapPersister()
	s := New(p, nil)
	s.Login("alice")
	return s, p
}

func TestDefaults(t *testing.T) {
	s := New(nil, nil)
	st := s.GetState()

	if st.HasIdentity() {
		t.Errorf("expected no identity, got %q", st.Identity)
	}
	if st.Settings.Amount != 10 {
		t.Errorf("amount = %d, want 10", st.Settings.Amount)
	}
	if st.Settings.Mode != ModeStandard {
		t.Errorf("mode = %q, want standard", st.Settings.Mode)
	}
	if st.Settings.Category != nil {
		t.Errorf("category = %v, want nil", *st.Settings.Category)
	}
	if st.Theme != ThemeDark {
		t.Errorf("theme = %q, want dark", st.Theme)
	}
	if st.LastRun != nil || len(st.History) != 0 || len(st.Achievements) != 0 {
		t.Error("expected empty run data")
	}
}

func TestSetAmount(t *testing.T) {
	s, _ := newLoggedInStore(t)

	for a := 1; a <= 50; a++ {
		s.SetAmount(fmt.Sprint(a))
		if got := s.GetState().Settings.Amount; got != a {
			t.Fatalf("SetAmount(%d) = %d", a, got)
		}
	}

	tests := []struct {
		raw  string
		want int
	}{
		{"0", 5},
		{"-3", 5},
		{"abc", 5},
		{"", 5},
		{"51", 50},
		{"1000000000000", 50},
		{"12abc", 12},
		{"  7", 7},
		{"3.9", 3},
	}
	for _, tt := range tests {
		s.SetAmount(tt.raw)
		if got := s.GetState().Settings.Amount; got != tt.want {
			t.Errorf("SetAmount(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestSaveLastRunEvictsOldest(t *testing.T) {
	s, _ := newLoggedInStore(t)

	for i := 0; i < 55; i++ {
		s.SaveLastRun(RunRecord{Score: i % 5, Total: 5, Mode: ModeStandard})
		want := min(50, i+1)
		if got := len(s.GetState().History); got != want {
			t.Fatalf("after %d runs history len = %d, want %d", i+1, got, want)
		}
	}

	st := s.GetState()
	// Runs 0..4 were evicted; the first kept run is run #5 (score 0).
	if st.History[0].Score != 0 || st.History[1].Score != 1 {
		t.Errorf("unexpected oldest entries: %+v", st.History[:2])
	}
	if st.LastRun == nil || st.LastRun.ID != st.History[len(st.History)-1].ID {
		t.Error("lastRun should be the most recent history entry")
	}
}

func TestSaveLastRunNormalizesRecord(t *testing.T) {
	s, _ := newLoggedInStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.SaveLastRun(RunRecord{Score: 12, Total: 10, Mode: ModeStandard})

	run := s.GetState().LastRun
	if run.Score != 10 {
		t.Errorf("score = %d, want clamped to 10", run.Score)
	}
	if run.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if !run.CompletedAt.Equal(now) {
		t.Errorf("completedAt = %v, want %v", run.CompletedAt, now)
	}
}

func TestGetStats(t *testing.T) {
	s, _ := newLoggedInStore(t)
	if s.GetStats() != nil {
		t.Fatal("expected nil stats for empty history")
	}

	s.SaveLastRun(RunRecord{Score: 5, Total: 10, Mode: ModeStandard})
	s.SaveLastRun(RunRecord{Score: 10, Total: 10, Mode: ModeStandard})

	got := *s.GetStats()
	want := Stats{TotalGames: 2, TotalQuestions: 20, TotalScore: 15, AvgScore: 8, Accuracy: 75, BestScore: 10}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func TestComputeStatsZeroQuestions(t *testing.T) {
	got := ComputeStats([]RunRecord{{Score: 0, Total: 0}})
	if got.Accuracy != 0 || got.AvgScore != 0 || got.TotalGames != 1 {
		t.Errorf("unexpected stats: %+v", got)
	}
}

func TestPerfectTenIdempotent(t *testing.T) {
	s, _ := newLoggedInStore(t)

	s.SaveLastRun(RunRecord{Score: 9, Total: 10, Mode: ModeStandard})
	if s.GetState().Unlocked("perfect_10") {
		t.Fatal("perfect_10 unlocked by 9/10")
	}

	s.SaveLastRun(RunRecord{Score: 10, Total: 10, Mode: ModeStandard})
	s.SaveLastRun(RunRecord{Score: 10, Total: 10, Mode: ModeStandard})

	count := 0
	for _, id := range s.GetState().Achievements {
		if id == "perfect_10" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("perfect_10 appears %d times, want 1", count)
	}
}

func TestAchievementPredicates(t *testing.T) {
	tests := []struct {
		name string
		runs []RunRecord
		want []string
	}{
		{
			name: "first run",
			runs: []RunRecord{{Score: 0, Total: 1, Mode: ModeStandard}},
			want: []string{"first_win"},
		},
		{
			name: "speedster needs 80 percent",
			runs: []RunRecord{{Score: 7, Total: 10, Mode: ModeSpeed}},
			want: []string{"first_win"},
		},
		{
			name: "speedster",
			runs: []RunRecord{{Score: 8, Total: 10, Mode: ModeSpeed}},
			want: []string{"first_win", "speedster"},
		},
		{
			name: "speedster not in standard mode",
			runs: []RunRecord{{Score: 10, Total: 10, Mode: ModeStandard}},
			want: []string{"first_win", "perfect_10"},
		},
		{
			name: "master",
			runs: []RunRecord{{Score: 50, Total: 50, Mode: ModeSpeed}},
			want: []string{"first_win", "speedster", "master"},
		},
		{
			name: "scholar after ten games",
			runs: func() []RunRecord {
				runs := make([]RunRecord, 10)
				for i := range runs {
					runs[i] = RunRecord{Score: 1, Total: 5, Mode: ModeStandard}
				}
				return runs
			}(),
			want: []string{"first_win", "scholar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newLoggedInStore(t)
			for _, r := range tt.runs {
				s.SaveLastRun(r)
			}
			got := s.GetState().Achievements
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("achievements = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetAchievementsCatalogOrder(t *testing.T) {
	s, _ := newLoggedInStore(t)
	s.SaveLastRun(RunRecord{Score: 10, Total: 10, Mode: ModeStandard})

	got := s.GetAchievements()
	wantIDs := []string{"first_win", "perfect_10", "speedster", "scholar", "master"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d achievements, want %d", len(got), len(wantIDs))
	}
	for i, a := range got {
		if a.ID != wantIDs[i] {
			t.Errorf("achievement[%d] = %s, want %s", i, a.ID, wantIDs[i])
		}
		wantUnlocked := a.ID == "first_win" || a.ID == "perfect_10"
		if a.Unlocked != wantUnlocked {
			t.Errorf("%s unlocked = %v, want %v", a.ID, a.Unlocked, wantUnlocked)
		}
	}
}

func TestClearHistoryKeepsSettingsAndIdentity(t *testing.T) {
	s, _ := newLoggedInStore(t)
	s.SetMode(ModeSpeed)
	s.SetCategory(intPtr(18))
	s.SaveLastRun(RunRecord{Score: 10, Total: 10, Mode: ModeSpeed})

	s.ClearHistory()

	st := s.GetState()
	if st.Identity != "alice" {
		t.Errorf("identity = %q, want alice", st.Identity)
	}
	if st.Settings.Mode != ModeSpeed || st.Settings.Category == nil || *st.Settings.Category != 18 {
		t.Errorf("settings changed: %+v", st.Settings)
	}
	if len(st.History) != 0 || st.LastRun != nil || len(st.Achievements) != 0 {
		t.Errorf("run data not cleared: %+v", st)
	}
}

func TestSetThemeIgnoresInvalid(t *testing.T) {
	s, _ := newLoggedInStore(t)
	notified := 0
	unsub := s.Subscribe(func(SessionState) { notified++ })
	defer unsub()

	s.SetTheme("solarized")
	if notified != 0 {
		t.Errorf("invalid theme notified %d times", notified)
	}
	if s.GetState().Theme != ThemeDark {
		t.Error("invalid theme mutated state")
	}

	s.SetTheme(ThemeLight)
	if notified != 1 || s.GetState().Theme != ThemeLight {
		t.Errorf("light theme: notified=%d theme=%s", notified, s.GetState().Theme)
	}

	s.ToggleTheme()
	if s.GetState().Theme != ThemeDark {
		t.Error("toggle should return to dark")
	}
}

func TestInvalidModeAndDifficultyIgnored(t *testing.T) {
	s, _ := newLoggedInStore(t)
	s.SetMode("turbo")
	s.SetDifficulty("nightmare")

	st := s.GetState()
	if st.Settings.Mode != ModeStandard || st.Settings.Difficulty != DifficultyAny {
		t.Errorf("invalid values applied: %+v", st.Settings)
	}

	s.SetDifficulty(DifficultyHard)
	if s.GetState().Settings.Difficulty != DifficultyHard {
		t.Error("hard difficulty not applied")
	}
}

func TestLoginSwitchesIdentityWithoutMerging(t *testing.T) {
	s, p := newLoggedInStore(t)
	s.SetMode(ModeSpeed)
	s.SaveLastRun(RunRecord{Score: 3, Total: 5, Mode: ModeSpeed})

	s.Login("bob")
	st := s.GetState()
	if st.Identity != "bob" {
		t.Fatalf("identity = %q, want bob", st.Identity)
	}
	if st.Settings.Mode != ModeStandard || len(st.History) != 0 {
		t.Errorf("bob inherited alice's state: %+v", st)
	}
	if p.active != "bob" {
		t.Errorf("active identity = %q, want bob", p.active)
	}

	s.Login("alice")
	st = s.GetState()
	if st.Settings.Mode != ModeSpeed || len(st.History) != 1 {
		t.Errorf("alice's state not restored: %+v", st)
	}
}

func TestLoginIgnoresBlankName(t *testing.T) {
	s := New(newMapPersister(), nil)
	notified := 0
	s.Subscribe(func(SessionState) { notified++ })

	s.Login("   ")
	if s.GetState().HasIdentity() || notified != 0 {
		t.Error("blank login should be ignored")
	}

	s.Login("  carol ")
	if s.GetState().Identity != "carol" {
		t.Errorf("identity = %q, want trimmed carol", s.GetState().Identity)
	}
}

func TestLogoutResetsAndClearsActive(t *testing.T) {
	s, p := newLoggedInStore(t)
	s.SaveLastRun(RunRecord{Score: 1, Total: 2, Mode: ModeStandard})

	s.Logout()

	if s.GetState().HasIdentity() {
		t.Error("identity should be cleared")
	}
	if p.active != "" {
		t.Errorf("active identity = %q, want empty", p.active)
	}
	if len(p.sessions["alice"].History) != 1 {
		t.Error("alice's history should have been persisted before logout")
	}
}

func TestRestoresActiveIdentityOnConstruction(t *testing.T) {
	s, p := newLoggedInStore(t)
	s.SetAmount("25")

	restored := New(p, nil)
	st := restored.GetState()
	if st.Identity != "alice" || st.Settings.Amount != 25 {
		t.Errorf("restored state = %+v", st)
	}
}

func TestPersistenceFailuresAreSwallowed(t *testing.T) {
	p := newMapPersister()
	p.failSave = true
	p.failLoad = true
	s := New(p, nil)

	s.Login("dave")
	s.SetAmount("20")
	s.SaveLastRun(RunRecord{Score: 1, Total: 1, Mode: ModeStandard})

	st := s.GetState()
	if st.Identity != "dave" || st.Settings.Amount != 20 || len(st.History) != 1 {
		t.Errorf("in-memory state not kept: %+v", st)
	}
}

func TestSubscribeFanOutAndUnsubscribe(t *testing.T) {
	s, _ := newLoggedInStore(t)

	var a, b []SessionState
	unsubA := s.Subscribe(func(st SessionState) { a = append(a, st) })
	s.Subscribe(func(st SessionState) { b = append(b, st) })

	s.SetAmount("20")
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("notifications a=%d b=%d, want 1 each", len(a), len(b))
	}
	if a[0].Settings.Amount != 20 {
		t.Errorf("snapshot amount = %d, want 20", a[0].Settings.Amount)
	}

	unsubA()
	unsubA()
	s.Login("alice")
	if len(a) != 1 {
		t.Errorf("unsubscribed callback still called")
	}
	if len(b) != 2 {
		t.Errorf("redundant login should still notify, got %d", len(b))
	}
}

func TestSubscriberCanReadStore(t *testing.T) {
	s, _ := newLoggedInStore(t)
	var seen int
	s.Subscribe(func(SessionState) { seen = s.GetState().Settings.Amount })

	s.SetAmount("33")
	if seen != 33 {
		t.Errorf("subscriber read %d, want 33", seen)
	}
}

func TestGetStateIsACopy(t *testing.T) {
	s, _ := newLoggedInStore(t)
	s.SetCategory(intPtr(9))
	s.SaveLastRun(RunRecord{Score: 1, Total: 2, Category: intPtr(9), Mode: ModeStandard})

	st := s.GetState()
	*st.Settings.Category = 99
	st.History[0].Score = 99
	st.Achievements = append(st.Achievements, "bogus")

	fresh := s.GetState()
	if *fresh.Settings.Category != 9 || fresh.History[0].Score != 1 || fresh.Unlocked("bogus") {
		t.Error("mutating a snapshot leaked into the store")
	}
}
