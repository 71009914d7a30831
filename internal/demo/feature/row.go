package feature

import (
	"context"

	"github.com/jask/loom"
	"github.com/jask/loom/effect"
	"github.com/jask/loom/internal/demo/notestore"
)

// RowState is one note in the list.
type RowState struct {
	ID     string
	Body   string
	Done   bool
	Saving bool
}

// RowToggle flips a row's done flag and persists it.
type RowToggle struct{}

// RowSaved acknowledges a persisted toggle.
type RowSaved struct{}

// RowSaveFailed reverts an optimistic toggle.
type RowSaveFailed struct{ Err error }

// rowReducer toggles optimistically and reverts if the write fails.
func rowReducer(repo *notestore.Repo) loom.Reducer[RowState, any] {
	return func(s RowState, a any, d loom.Deps[any]) (RowState, effect.Effect[any]) {
		switch a.(type) {
		case RowToggle:
			if s.Saving {
				return s, effect.None[any]()
			}
			s.Done = !s.Done
			s.Saving = true
			id, done, now := s.ID, s.Done, d.Now()
			return s, effect.Run(func(ctx context.Context, send func(any)) {
				if err := repo.SetDone(ctx, id, done, now); err != nil {
					send(RowSaveFailed{Err: err})
					return
				}
				send(RowSaved{})
			})
		case RowSaved:
			s.Saving = false
			return s, effect.None[any]()
		case RowSaveFailed:
			s.Done = !s.Done
			s.Saving = false
			return s, effect.None[any]()
		default:
			return s, effect.None[any]()
		}
	}
}
