package ui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/loom"
	"github.com/jask/loom/internal/demo/feature"
	"github.com/jask/loom/internal/demo/notestore"
	"github.com/jask/loom/present"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	return newTestModelWith(t, present.Options{
		PresentDuration: time.Millisecond,
		DismissDuration: time.Millisecond,
		TimeoutFactor:   2,
	})
}

func newTestModelWith(t *testing.T, opts present.Options) Model {
	t.Helper()
	db, err := notestore.Open(filepath.Join(t.TempDir(), "ui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, notestore.Migrate(db))
	repo := notestore.NewRepo(db)

	store := loom.NewStore(feature.NewApp(), feature.NewReducer(repo, opts), loom.NewDeps[any]())
	t.Cleanup(store.Close)

	m := New(store, 10)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return refresh(t, next.(Model))
}

// refresh re-reads store state the way the update loop would.
func refresh(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(refreshMsg{})
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case " ":
			// terminals deliver space as a rune key; textinput reads Runes
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = refresh(t, next.(Model))
	}
	return m
}

func TestAddNoteThroughKeys(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	require.Contains(t, m.View(), "no notes yet")

	m = press(t, m, "a")
	require.True(t, m.adding)
	m = press(t, m, "b", "u", "y", " ", "m", "i", "l", "k")
	m = press(t, m, "enter")
	m.store.Wait()
	m = refresh(t, m)

	require.False(t, m.adding)
	require.Contains(t, m.View(), "buy milk")
}

func TestToggleAndSettingsFilter(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = press(t, m, "a", "x", "enter")
	m.store.Wait()
	m = refresh(t, m)

	// space toggles the selected row
	m = press(t, m, " ")
	m.store.Wait()
	m = refresh(t, m)
	require.Contains(t, m.View(), "[x] x")

	// settings modal presents, toggles the filter, closes
	m = press(t, m, "s")
	m.store.Wait() // presentation timeout
	m = refresh(t, m)
	require.Contains(t, m.View(), "settings")

	m = press(t, m, " ", "esc")
	m.store.Wait() // dismissal finishes, setting applies
	m = refresh(t, m)
	require.False(t, m.state.ShowDone)
	require.NotContains(t, m.View(), "[x] x")
}

func TestHelpStackNavigation(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = press(t, m, "?")
	require.Equal(t, 2, m.state.Help.Len())
	require.Contains(t, m.View(), "Finding notes")

	m = press(t, m, "enter")
	page, ok := m.state.Help.Top()
	require.True(t, ok)
	require.True(t, page.Expanded)

	m = press(t, m, "esc")
	require.Equal(t, 1, m.state.Help.Len())
}

func TestTransitionTicksReportCompletion(t *testing.T) {
	t.Parallel()

	// Long timeouts: the tick below must beat the safety net.
	m := newTestModelWith(t, present.Options{
		PresentDuration: 50 * time.Millisecond,
		DismissDuration: 50 * time.Millisecond,
		TimeoutFactor:   3,
	})

	m.store.Dispatch(feature.OpenSettings{})
	m = refresh(t, m)
	require.Equal(t, present.Presenting, m.state.Modal.Phase())

	// The model plays the external transition system.
	next, _ := m.Update(transitionDoneMsg{event: present.PresentationCompleted})
	m = refresh(t, next.(Model))
	require.Equal(t, present.Presented, m.state.Modal.Phase())
}
