package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/triviaz/internal/screen"
	"github.com/abhisek/triviaz/internal/state"
)

type fakeSession struct{ identity string }

func (f *fakeSession) GetState() state.SessionState {
	s := state.Defaults()
	s.Identity = f.identity
	return s
}

type stubScreen struct {
	view    View
	initRan bool
	closed  bool
	got     []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return string(s.view) }
func (s *stubScreen) Title() string        { return string(s.view) }
func (s *stubScreen) Close()               { s.closed = true }

func newTestRouter(identity string) (*Router, *fakeSession, *[]*stubScreen) {
	sess := &fakeSession{identity: identity}
	var built []*stubScreen
	factories := map[View]Factory{}
	for _, v := range routes {
		factories[v] = func() screen.Screen {
			s := &stubScreen{view: v}
			built = append(built, s)
			return s
		}
	}
	return New(sess, factories, nil), sess, &built
}

func TestResolve(t *testing.T) {
	tests := []struct {
		token    string
		identity bool
		view     View
		redirect string
	}{
		{"/quiz", false, "", RouteLogin},
		{"", false, "", RouteLogin},
		{"/login", false, ViewLogin, ""},
		{"/login", true, "", RouteRoot},
		{"/xyz", true, "", RouteRoot},
		{"/xyz", false, "", RouteLogin},
		{"", true, ViewDashboard, ""},
		{"#/profile", true, ViewProfile, ""},
		{"/results", true, ViewResults, ""},
	}
	for _, tt := range tests {
		view, redirect := Resolve(tt.token, tt.identity)
		if view != tt.view || redirect != tt.redirect {
			t.Errorf("Resolve(%q, %v) = (%q, %q), want (%q, %q)",
				tt.token, tt.identity, view, redirect, tt.view, tt.redirect)
		}
	}
}

func TestGuards(t *testing.T) {
	tests := []struct {
		name       string
		identity   string
		token      string
		want       View
		dispatches int
	}{
		{"anonymous quiz goes to login", "", "/quiz", ViewLogin, 2},
		{"signed in login goes to root", "ada", "/login", ViewDashboard, 2},
		{"unknown goes to root", "ada", "/xyz", ViewDashboard, 2},
		{"anonymous unknown goes to login", "", "/xyz", ViewLogin, 2},
		{"direct hit", "ada", "/profile", ViewProfile, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRouter(tt.identity)
			r.Update(NavigateMsg{Token: tt.token})
			if r.Current() != tt.want {
				t.Errorf("view = %q, want %q", r.Current(), tt.want)
			}
			if r.Dispatches() != tt.dispatches {
				t.Errorf("dispatches = %d, want %d", r.Dispatches(), tt.dispatches)
			}
		})
	}
}

func TestInitMountsRoot(t *testing.T) {
	r, _, built := newTestRouter("")
	r.Init()
	if r.Current() != ViewLogin || r.Token() != RouteLogin {
		t.Fatalf("anonymous init mounted %q at %q", r.Current(), r.Token())
	}
	if !(*built)[0].initRan {
		t.Error("Init not called on mounted screen")
	}

	r2, _, _ := newTestRouter("ada")
	r2.Init()
	if r2.Current() != ViewDashboard || r2.Token() != RouteRoot {
		t.Errorf("signed in init mounted %q at %q", r2.Current(), r2.Token())
	}
}

func TestSingleOutletReplaces(t *testing.T) {
	r, _, built := newTestRouter("ada")
	r.Init()
	r.Update(NavigateMsg{Token: RouteQuiz})
	r.Update(NavigateMsg{Token: RouteQuiz})

	if len(*built) != 3 {
		t.Fatalf("built %d screens, want 3", len(*built))
	}
	first, second, third := (*built)[0], (*built)[1], (*built)[2]
	if !first.closed || !second.closed || third.closed {
		t.Errorf("closed flags = %v %v %v, want true true false", first.closed, second.closed, third.closed)
	}
	if r.Active() != third {
		t.Error("active screen is not the latest")
	}
}

func TestForwardsMessages(t *testing.T) {
	r, _, _ := newTestRouter("ada")
	if cmd := r.Update("early"); cmd != nil {
		t.Error("unmounted router returned a command")
	}
	r.Init()
	r.Update("hello")
	if got := r.Active().(*stubScreen).got; len(got) != 1 || got[0] != "hello" {
		t.Errorf("forwarded = %v", got)
	}
	if r.View(10, 10) != string(ViewDashboard) {
		t.Errorf("View = %q", r.View(10, 10))
	}
}

func TestLogoutRedirects(t *testing.T) {
	r, sess, _ := newTestRouter("ada")
	r.Update(NavigateMsg{Token: RouteProfile})
	sess.identity = ""
	r.Update(NavigateMsg{Token: RouteProfile})
	if r.Current() != ViewLogin {
		t.Errorf("after logout view = %q", r.Current())
	}
}

func TestMissingFactory(t *testing.T) {
	r := New(&fakeSession{identity: "ada"}, map[View]Factory{}, nil)
	if cmd := r.Dispatch(RouteRoot); cmd != nil {
		t.Error("expected nil command without a factory")
	}
	if r.Active() != nil {
		t.Error("nothing should be mounted")
	}
}

func TestNavigateCmd(t *testing.T) {
	msg := Navigate("/profile")()
	if nav, ok := msg.(NavigateMsg); !ok || nav.Token != "/profile" {
		t.Errorf("Navigate produced %#v", msg)
	}
}
