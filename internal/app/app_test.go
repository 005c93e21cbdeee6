package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/triviaz/internal/quiz"
	"github.com/abhisek/triviaz/internal/router"
	"github.com/abhisek/triviaz/internal/state"
	"github.com/abhisek/triviaz/internal/ui/theme"
)

type noQuestions struct{}

func (noQuestions) Fetch(context.Context, quiz.Request) ([]quiz.Question, error) {
	return nil, &quiz.ProviderError{Code: quiz.CodeNoResults}
}

func newModel(t *testing.T) (*AppModel, *state.Store) {
	t.Helper()
	store := state.New(nil, nil)
	m, err := NewModel(Deps{Store: store, Provider: noQuestions{}})
	require.NoError(t, err)
	t.Cleanup(func() {
		m.shutdown()
		theme.Apply(state.ThemeDark)
	})
	return m, store
}

func TestNewModelRequiresDeps(t *testing.T) {
	_, err := NewModel(Deps{})
	assert.Error(t, err)
	_, err = NewModel(Deps{Store: state.New(nil, nil)})
	assert.Error(t, err)
}

func TestStartsAtLoginWithoutIdentity(t *testing.T) {
	m, _ := newModel(t)
	m.Init()
	assert.Equal(t, router.ViewLogin, m.Router().Current())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Contains(t, m.render(), "Welcome")
}

func TestStartsAtDashboardWithIdentity(t *testing.T) {
	m, store := newModel(t)
	store.Login("ada")
	m.Init()
	assert.Equal(t, router.ViewDashboard, m.Router().Current())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Contains(t, m.render(), "ada")
}

func TestThemeToggleFollowsStore(t *testing.T) {
	m, store := newModel(t)
	m.Init()

	m.Update(tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl})
	assert.Equal(t, state.ThemeLight, store.GetState().Theme)
	assert.Equal(t, state.ThemeLight, theme.Current())

	store.SetTheme(state.ThemeDark)
	assert.Equal(t, state.ThemeDark, theme.Current())
}

func TestQuitClosesScreen(t *testing.T) {
	m, _ := newModel(t)
	m.Init()

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestTooSmall(t *testing.T) {
	m, _ := newModel(t)
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	assert.Contains(t, m.render(), "Terminal too small")
}
