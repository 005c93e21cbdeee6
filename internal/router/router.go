// Package router maps route tokens to screens and enforces the login guard.
// It mounts exactly one screen at a time.
package router

import (
	"io"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"

	"github.com/abhisek/triviaz/internal/screen"
	"github.com/abhisek/triviaz/internal/state"
)

// Route tokens.
const (
	RouteRoot    = "/"
	RouteLogin   = "/login"
	RouteQuiz    = "/quiz"
	RouteResults = "/results"
	RouteProfile = "/profile"
)

// View names a screen kind.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewLogin     View = "login"
	ViewQuiz      View = "quiz"
	ViewResults   View = "results"
	ViewProfile   View = "profile"
)

var routes = map[string]View{
	RouteRoot:    ViewDashboard,
	RouteLogin:   ViewLogin,
	RouteQuiz:    ViewQuiz,
	RouteResults: ViewResults,
	RouteProfile: ViewProfile,
}

// maxRedirects bounds redirect chains. Guards converge in at most two.
const maxRedirects = 4

// Lookup returns the view mapped to token.
func Lookup(token string) (View, bool) {
	v, ok := routes[Normalize(token)]
	return v, ok
}

// Normalize strips a leading "#" and maps the empty token to the root.
func Normalize(token string) string {
	token = strings.TrimSpace(strings.TrimPrefix(token, "#"))
	if token == "" {
		return RouteRoot
	}
	return token
}

// Resolve applies the guards to token. It returns either the view to mount
// or, when redirect is non-empty, the token to dispatch instead.
func Resolve(token string, hasIdentity bool) (view View, redirect string) {
	token = Normalize(token)
	switch {
	case !hasIdentity && token != RouteLogin:
		return "", RouteLogin
	case hasIdentity && token == RouteLogin:
		return "", RouteRoot
	}
	v, ok := routes[token]
	if !ok {
		return "", RouteRoot
	}
	return v, ""
}

// NavigateMsg asks the router to dispatch a token.
type NavigateMsg struct {
	Token string
}

// Navigate returns a command that dispatches token.
func Navigate(token string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Token: token} }
}

// Session reports the current session state.
type Session interface {
	GetState() state.SessionState
}

// Factory builds a fresh screen.
type Factory func() screen.Screen

// Router owns the single outlet.
type Router struct {
	session   Session
	factories map[View]Factory
	logger    *log.Logger

	token      string
	view       View
	active     screen.Screen
	dispatches int
}

// New creates a Router. Nothing is mounted until Init or the first
// NavigateMsg.
func New(session Session, factories map[View]Factory, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Router{
		session:   session,
		factories: factories,
		logger:    logger.WithPrefix("router"),
	}
}

// Init performs the initial dispatch of the root token.
func (r *Router) Init() tea.Cmd {
	return r.Dispatch(RouteRoot)
}

// Dispatch resolves token and mounts the resulting screen, following
// redirects. Every dispatch, including a redirect, instantiates a fresh
// screen and closes the previous one.
func (r *Router) Dispatch(token string) tea.Cmd {
	token = Normalize(token)
	for hop := 0; ; hop++ {
		r.dispatches++
		view, redirect := Resolve(token, r.session.GetState().HasIdentity())
		if redirect == "" {
			return r.mount(token, view)
		}
		if hop == maxRedirects {
			r.logger.Error("redirect loop", "token", token)
			return nil
		}
		r.logger.Debug("redirect", "from", token, "to", redirect)
		token = redirect
	}
}

func (r *Router) mount(token string, view View) tea.Cmd {
	if c, ok := r.active.(screen.Closer); ok {
		c.Close()
	}
	r.token = token
	r.view = view
	r.active = nil

	f := r.factories[view]
	if f == nil {
		r.logger.Error("no screen registered", "view", view)
		return nil
	}
	r.active = f()
	return r.active.Init()
}

// Update handles navigation and forwards everything else to the mounted
// screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	if nav, ok := msg.(NavigateMsg); ok {
		return r.Dispatch(nav.Token)
	}
	if r.active == nil {
		return nil
	}
	next, cmd := r.active.Update(msg)
	r.active = next
	return cmd
}

// View renders the mounted screen.
func (r *Router) View(width, height int) string {
	if r.active == nil {
		return ""
	}
	return r.active.View(width, height)
}

// Active returns the mounted screen.
func (r *Router) Active() screen.Screen { return r.active }

// Token is the token of the mounted screen after redirects.
func (r *Router) Token() string { return r.token }

// Current is the view name of the mounted screen.
func (r *Router) Current() View { return r.view }

// Dispatches counts handler entries, redirects included.
func (r *Router) Dispatches() int { return r.dispatches }

// Close closes the mounted screen.
func (r *Router) Close() {
	if c, ok := r.active.(screen.Closer); ok {
		c.Close()
	}
	r.active = nil
}
