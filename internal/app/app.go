// Package app is the root Bubble Tea model: it frames the routed screen
// with a header and footer and handles the global keys.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"

	"github.com/abhisek/triviaz/internal/quiz"
	"github.com/abhisek/triviaz/internal/router"
	"github.com/abhisek/triviaz/internal/screen"
	"github.com/abhisek/triviaz/internal/screens/dashboard"
	"github.com/abhisek/triviaz/internal/screens/login"
	"github.com/abhisek/triviaz/internal/screens/profile"
	quizscreen "github.com/abhisek/triviaz/internal/screens/quiz"
	"github.com/abhisek/triviaz/internal/screens/results"
	"github.com/abhisek/triviaz/internal/state"
	"github.com/abhisek/triviaz/internal/trivia"
	"github.com/abhisek/triviaz/internal/ui/components"
	"github.com/abhisek/triviaz/internal/ui/layout"
	"github.com/abhisek/triviaz/internal/ui/theme"
)

// Deps are the collaborators shared by the screens.
type Deps struct {
	Store    *state.Store
	Provider quiz.Provider
	Catalog  trivia.Catalog
	Feedback quiz.Feedback
	Logger   *log.Logger

	// FetchTimeout bounds one question fetch. Zero uses the default.
	FetchTimeout time.Duration
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	store       *state.Store
	router      *router.Router
	unsubscribe func()
	width       int
	height      int
}

// NewModel wires the screens to the router. The theme follows the store.
func NewModel(deps Deps) (*AppModel, error) {
	if deps.Store == nil {
		return nil, errors.New("app: store is required")
	}
	if deps.Provider == nil {
		return nil, errors.New("app: question provider is required")
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	if len(deps.Catalog) == 0 {
		deps.Catalog = trivia.DefaultCatalog()
	}

	store := deps.Store
	factories := map[router.View]router.Factory{
		router.ViewLogin: func() screen.Screen { return login.New(store) },
		router.ViewDashboard: func() screen.Screen {
			return dashboard.New(store, deps.Catalog)
		},
		router.ViewQuiz: func() screen.Screen {
			return quizscreen.New(store, deps.Provider, quizscreen.Options{
				Feedback:     deps.Feedback,
				Logger:       deps.Logger,
				FetchTimeout: deps.FetchTimeout,
			})
		},
		router.ViewResults: func() screen.Screen { return results.New(store, deps.Catalog) },
		router.ViewProfile: func() screen.Screen { return profile.New(store, deps.Catalog) },
	}

	theme.Apply(store.GetState().Theme)
	m := &AppModel{
		store:  store,
		router: router.New(store, factories, deps.Logger),
	}
	m.unsubscribe = store.Subscribe(func(s state.SessionState) {
		if s.Theme != theme.Current() {
			theme.Apply(s.Theme)
		}
	})
	return m, nil
}

func (m *AppModel) Init() tea.Cmd {
	return m.router.Init()
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, components.KeyQuit):
			m.shutdown()
			return m, tea.Quit
		case key.Matches(msg, components.KeyTheme):
			m.store.ToggleTheme()
			return m, nil
		}
	}

	return m, m.router.Update(msg)
}

func (m *AppModel) shutdown() {
	m.router.Close()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m *AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.WindowTitle = "triviaz"
	v.BackgroundColor = theme.Bg
	return v
}

func (m *AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := ""
	var hints []key.Binding
	if active := m.router.Active(); active != nil {
		title = active.Title()
		if kh, ok := active.(screen.KeyHintProvider); ok {
			hints = kh.KeyHints()
		}
	}
	hints = append(hints, components.KeyTheme, components.KeyQuit)

	header := layout.RenderHeader(title, m.store.GetState().Identity, m.width)
	footer := layout.RenderFooter(hints, m.width)
	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Router exposes the router for inspection.
func (m *AppModel) Router() *router.Router { return m.router }

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(ctx context.Context, deps Deps) error {
	m, err := NewModel(deps)
	if err != nil {
		return err
	}
	defer m.shutdown()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
