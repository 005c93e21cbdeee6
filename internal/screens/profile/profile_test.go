package profile

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/triviaz/internal/router"
	"github.com/abhisek/triviaz/internal/state"
	"github.com/abhisek/triviaz/internal/trivia"
)

func newProfile(t *testing.T) (*ProfileScreen, *state.Store) {
	t.Helper()
	store := state.New(nil, nil)
	store.Login("ada")
	return New(store, trivia.DefaultCatalog()), store
}

func play(store *state.Store, category, score, total int) {
	store.SaveLastRun(state.RunRecord{
		Score: score, Total: total, Category: &category,
		Mode: state.ModeStandard, CompletedAt: time.Now().Add(-time.Hour),
	})
}

func TestEmptyProfile(t *testing.T) {
	p, _ := newProfile(t)
	view := p.View(100, 60)

	assert.Contains(t, view, "ada's Profile")
	assert.Contains(t, view, "No games played yet.")
	assert.Contains(t, view, "Achievements (0/5)")
	assert.NotContains(t, view, "We noticed")
}

func TestRecommendationAndHistory(t *testing.T) {
	p, store := newProfile(t)
	play(store, 9, 9, 10)
	play(store, 23, 3, 10)
	play(store, 9, 10, 10)

	view := p.View(120, 60)
	assert.Contains(t, view, "improve in History")
	assert.Contains(t, view, "(Avg: 30%)")
	assert.Contains(t, view, "Achievements (2/5)")
	assert.Contains(t, view, "1 hour ago")
	assert.NotContains(t, view, "No games played yet.")
}

func TestResetRequiresConfirmation(t *testing.T) {
	p, store := newProfile(t)
	play(store, 9, 5, 10)

	p.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	assert.Contains(t, p.View(100, 60), "Clear all history?")
	p.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	assert.Len(t, store.GetState().History, 1)

	p.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	p.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	assert.Empty(t, store.GetState().History)
	assert.Contains(t, p.View(100, 60), "No games played yet.")
}

func TestBackNavigatesHome(t *testing.T) {
	p, _ := newProfile(t)
	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.Equal(t, router.NavigateMsg{Token: router.RouteRoot}, cmd())
}
