package feature

import (
	"github.com/jask/loom"
	"github.com/jask/loom/effect"
)

// SettingsState is the settings modal. Edits apply to the app only when
// the modal's dismissal finishes.
type SettingsState struct {
	ShowDone bool
}

// SettingsToggleShowDone flips whether done notes are listed.
type SettingsToggleShowDone struct{}

// SettingsClose dismisses the modal.
type SettingsClose struct{}

func settingsReducer() loom.Reducer[SettingsState, any] {
	return func(s SettingsState, a any, d loom.Deps[any]) (SettingsState, effect.Effect[any]) {
		switch a.(type) {
		case SettingsToggleShowDone:
			s.ShowDone = !s.ShowDone
			return s, effect.None[any]()
		case SettingsClose:
			return s, d.Dismiss()
		default:
			return s, effect.None[any]()
		}
	}
}
