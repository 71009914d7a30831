// Package ui is the terminal front end for the notes feature: a bubbletea
// model that renders store state, translates key presses into feature
// actions, and plays the external transition system for the presentation
// lifecycle (reporting completion after each transition's duration).
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/loom"
	"github.com/jask/loom/internal/demo/feature"
	"github.com/jask/loom/present"
)

// refreshMsg wakes the model after the store changed. State is re-read from
// the store; the channel only coalesces wake-ups.
type refreshMsg struct{}

// transitionDoneMsg reports a finished enter or exit transition.
type transitionDoneMsg struct {
	event present.Event
}

// Model adapts a loom store to bubbletea.
type Model struct {
	store   *loom.Store[feature.App, any]
	updates chan struct{}
	cancel  func()

	state     feature.App
	lastPhase present.Phase

	keys    keyMap
	input   textinput.Model
	seeded  string
	adding  bool
	cursor  int
	maxRows int
	width   int
	height  int
}

// New builds the model and subscribes it to store updates. maxRows caps how
// many notes the list renders at once.
func New(store *loom.Store[feature.App, any], maxRows int) Model {
	updates := make(chan struct{}, 1)
	cancel := store.Subscribe(func(feature.App) {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	input := textinput.New()
	input.CharLimit = 200
	if maxRows <= 0 {
		maxRows = 20
	}
	return Model{
		store:   store,
		updates: updates,
		cancel:  cancel,
		state:   store.State(),
		keys:    newKeyMap(),
		input:   input,
		maxRows: maxRows,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForUpdate(), func() tea.Msg { return refreshMsg{} })
}

func (m Model) waitForUpdate() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		<-updates
		return refreshMsg{}
	}
}

func transitionTick(d time.Duration, e present.Event) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return transitionDoneMsg{event: e} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case refreshMsg:
		m.state = m.store.State()
		cmds := []tea.Cmd{m.waitForUpdate()}
		if cmd := m.phaseCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		m = m.seedInput()
		m = m.clampCursor()
		return m, tea.Batch(cmds...)

	case transitionDoneMsg:
		m.store.Dispatch(feature.Transition{Event: msg.event})
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// phaseCmd schedules a completion report whenever the lifecycle enters a
// transition phase. The store's own timeout is the safety net if this model
// is wedged; a late tick after the timeout is absorbed by the guards.
func (m *Model) phaseCmd() tea.Cmd {
	phase := m.state.Modal.Phase()
	if phase == m.lastPhase {
		return nil
	}
	m.lastPhase = phase
	switch phase {
	case present.Presenting:
		return transitionTick(m.state.Modal.Duration(), present.PresentationCompleted)
	case present.Dismissing:
		return transitionTick(m.state.Modal.Duration(), present.DismissalCompleted)
	default:
		return nil
	}
}

// seedInput points the shared text input at whatever is being edited:
// the detail draft or the picker query. Re-seeded only when the target
// changes, so in-progress typing is not clobbered by store updates.
func (m Model) seedInput() Model {
	switch {
	case m.adding:
		return m
	case m.detailActive():
		if m.seeded != "detail" {
			dt, _ := feature.DetailCase.Extract(m.state.Dest)
			m.input.SetValue(dt.Draft)
			m.input.CursorEnd()
			m.input.Placeholder = "note body"
			m.input.Focus()
			m.seeded = "detail"
		}
	case m.pickerActive():
		if m.seeded != "picker" {
			m.input.SetValue("")
			m.input.Placeholder = "search notes"
			m.input.Focus()
			m.seeded = "picker"
		}
	default:
		if m.seeded != "" {
			m.input.Blur()
			m.input.SetValue("")
			m.seeded = ""
		}
	}
	return m
}

func (m Model) clampCursor() Model {
	n := len(m.state.VisibleNotes())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

func (m Model) detailActive() bool {
	_, ok := feature.DetailCase.Extract(m.state.Dest)
	return ok && m.state.Modal.Phase() != present.Idle
}

func (m Model) pickerActive() bool {
	_, ok := feature.PickerCase.Extract(m.state.Dest)
	return ok && m.state.Modal.Phase() != present.Idle
}

func (m Model) settingsActive() bool {
	_, ok := feature.SettingsCase.Extract(m.state.Dest)
	return ok && m.state.Modal.Phase() != present.Idle
}

func (m Model) sendCase(a feature.DestMsg) {
	m.store.Dispatch(a)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	quit := msg.String() == "ctrl+c" ||
		(key.Matches(msg, m.keys.Quit) && !m.adding && !m.detailActive() && !m.pickerActive())
	if quit {
		m.cancel()
		m.store.Close()
		return m, tea.Quit
	}

	switch {
	case m.adding:
		return m.handleAddKey(msg)
	case m.detailActive():
		return m.handleDetailKey(msg)
	case m.pickerActive():
		return m.handlePickerKey(msg)
	case m.settingsActive():
		return m.handleSettingsKey(msg)
	case m.state.Help.Len() > 1:
		return m.handleHelpKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.adding = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		if body := m.input.Value(); body != "" {
			m.store.Dispatch(feature.AddNote{Body: body})
		}
		m.adding = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.sendCase(feature.DestMsg{Dest: loom.CaseAction(feature.DetailCase, feature.DetailCancel{})})
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		m.sendCase(feature.DestMsg{Dest: loom.CaseAction(feature.DetailCase, feature.DetailSave{})})
		return m, nil
	default:
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if after := m.input.Value(); after != before {
			m.sendCase(feature.DestMsg{Dest: loom.CaseAction(feature.DetailCase, feature.DetailSetDraft{Text: after})})
		}
		return m, cmd
	}
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.store.Dispatch(feature.CloseModal{})
		return m, nil
	case msg.String() == "up":
		m.sendCase(feature.DestMsg{Dest: loom.CaseAction(feature.PickerCase, feature.PickerMove{Delta: -1})})
		return m, nil
	case msg.String() == "down":
		m.sendCase(feature.DestMsg{Dest: loom.CaseAction(feature.PickerCase, feature.PickerMove{Delta: 1})})
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		if p, ok := feature.PickerCase.Extract(m.state.Dest); ok {
			if selected, ok := p.Selected(); ok {
				m.sendCase(feature.DestMsg{Dest: loom.CaseAction(feature.PickerCase, feature.PickerChoose{ID: selected.ID})})
			}
		}
		return m, nil
	default:
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if after := m.input.Value(); after != before {
			m.sendCase(feature.DestMsg{Dest: loom.CaseAction(feature.PickerCase, feature.PickerSetQuery{Text: after})})
		}
		return m, cmd
	}
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.sendCase(feature.DestMsg{Dest: loom.CaseAction(feature.SettingsCase, feature.SettingsToggleShowDone{})})
	case key.Matches(msg, m.keys.Close):
		m.sendCase(feature.DestMsg{Dest: loom.CaseAction(feature.SettingsCase, feature.SettingsClose{})})
	}
	return m, nil
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.store.Dispatch(feature.HelpMsg{Nav: loom.PopScreen[feature.HelpPage, any]()})
	case key.Matches(msg, m.keys.Edit):
		top := m.state.Help.Len() - 1
		m.store.Dispatch(feature.HelpMsg{Nav: loom.ScreenAction[feature.HelpPage, any](top, feature.HelpToggleExpand{})})
	case key.Matches(msg, m.keys.Help):
		m.pushNextTopic()
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.state.VisibleNotes()
	switch {
	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.input.SetValue("")
		m.input.Placeholder = "new note"
		m.input.Focus()
		return m, nil
	case key.Matches(msg, m.keys.UpDown):
		switch msg.String() {
		case "up", "k":
			m.cursor--
		case "down", "j":
			m.cursor++
		}
		return m.clampCursor(), nil
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(visible) {
			m.store.Dispatch(feature.RowMsg{Row: loom.IdentifiedAction[string, any]{
				ID: visible[m.cursor].ID, Action: feature.RowToggle{},
			}})
		}
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		if m.cursor < len(visible) {
			m.store.Dispatch(feature.OpenDetail{ID: visible[m.cursor].ID})
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if m.cursor < len(visible) {
			m.store.Dispatch(feature.RemoveNote{ID: visible[m.cursor].ID})
		}
		return m, nil
	case key.Matches(msg, m.keys.Find):
		m.store.Dispatch(feature.OpenPicker{})
		return m, nil
	case key.Matches(msg, m.keys.Settings):
		m.store.Dispatch(feature.OpenSettings{})
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.pushNextTopic()
		return m, nil
	}
	return m, nil
}

// pushNextTopic walks the help topics in order, one push per press.
func (m Model) pushNextTopic() {
	topics := feature.HelpTopics()
	depth := m.state.Help.Len() - 1
	if depth >= len(topics) {
		return
	}
	m.store.Dispatch(feature.HelpMsg{Nav: loom.PushScreen[feature.HelpPage, any](topics[depth])})
}
