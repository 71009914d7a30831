package feature

import (
	"context"

	"github.com/jask/loom"
	"github.com/jask/loom/effect"
	"github.com/jask/loom/internal/demo/notestore"
)

// DetailState is the modal note editor.
type DetailState struct {
	NoteID string
	Draft  string
	Saving bool
	Err    string
}

// DetailSetDraft replaces the draft text.
type DetailSetDraft struct{ Text string }

// DetailSave persists the draft, then dismisses the editor.
type DetailSave struct{}

// DetailSaved acknowledges the persisted draft.
type DetailSaved struct{}

// DetailSaveFailed keeps the editor open with the error.
type DetailSaveFailed struct{ Err error }

// DetailCancel dismisses the editor without saving.
type DetailCancel struct{}

// detailReducer knows nothing about the parent: closing itself goes
// through the dismiss capability.
func detailReducer(repo *notestore.Repo) loom.Reducer[DetailState, any] {
	return func(s DetailState, a any, d loom.Deps[any]) (DetailState, effect.Effect[any]) {
		switch act := a.(type) {
		case DetailSetDraft:
			s.Draft = act.Text
			s.Err = ""
			return s, effect.None[any]()
		case DetailSave:
			if s.Saving {
				return s, effect.None[any]()
			}
			s.Saving = true
			id, body, now := s.NoteID, s.Draft, d.Now()
			return s, effect.Run(func(ctx context.Context, send func(any)) {
				if err := repo.UpdateBody(ctx, id, body, now); err != nil {
					send(DetailSaveFailed{Err: err})
					return
				}
				send(DetailSaved{})
			})
		case DetailSaved:
			s.Saving = false
			return s, d.Dismiss()
		case DetailSaveFailed:
			s.Saving = false
			s.Err = act.Err.Error()
			return s, effect.None[any]()
		case DetailCancel:
			return s, d.Dismiss()
		default:
			return s, effect.None[any]()
		}
	}
}
