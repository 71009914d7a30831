// Package feature is the notes application built on the loom engine: an
// identified collection of note rows, a modal destination (detail editor,
// fuzzy picker, settings) driven through the presentation lifecycle, and a
// help stack. Persistence goes through notestore as effects; the reducers
// stay pure.
package feature

import (
	"context"
	"fmt"

	"github.com/jask/loom"
	"github.com/jask/loom/effect"
	"github.com/jask/loom/internal/demo/notestore"
	"github.com/jask/loom/present"
)

// ---------------------------------------------------------------------------
// App state
// ---------------------------------------------------------------------------

// App is the root state.
type App struct {
	Notes    []loom.IdentifiedItem[string, RowState]
	Dest     loom.Destination
	Modal    present.State[loom.Destination]
	Help     loom.Stack[HelpPage]
	ShowDone bool
	Status   string
	Loading  bool

	// set when the picker chooses a note; consumed once its dismissal
	// finishes, so the detail editor opens after the picker is gone.
	pendingNoteID string
}

// NewApp returns the initial application state.
func NewApp() App {
	return App{ShowDone: true, Help: loom.NewStack(helpRootPage())}
}

// VisibleNotes returns the rows the list should render, honoring the
// show-done setting.
func (a App) VisibleNotes() []loom.IdentifiedItem[string, RowState] {
	if a.ShowDone {
		return a.Notes
	}
	visible := make([]loom.IdentifiedItem[string, RowState], 0, len(a.Notes))
	for _, item := range a.Notes {
		if !item.State.Done {
			visible = append(visible, item)
		}
	}
	return visible
}

// Destination cases. One per modal; declared once so tag and payload type
// stay paired everywhere.
var (
	DetailCase   = loom.NewCase[DetailState]("detail")
	PickerCase   = loom.NewCase[PickerState]("picker")
	SettingsCase = loom.NewCase[SettingsState]("settings")
)

var (
	pickerChoosePath = loom.ExactPath[PickerChoose](PickerCase.Tag())
	detailSavedPath  = loom.ExactPath[DetailSaved](DetailCase.Tag())
)

// ---------------------------------------------------------------------------
// App actions
// ---------------------------------------------------------------------------

// LoadNotes kicks off an initial load from the store.
type LoadNotes struct{}

// NotesLoaded delivers the loaded rows.
type NotesLoaded struct{ Notes []notestore.Note }

// LoadFailed reports a failed load.
type LoadFailed struct{ Err error }

// AddNote creates and persists a new note.
type AddNote struct{ Body string }

// AddFailed reports that persisting a new note failed; the optimistic row
// is rolled back.
type AddFailed struct {
	ID  string
	Err error
}

// RemoveNote deletes a note.
type RemoveNote struct{ ID string }

// SaveFailed reports a failed write from any persistence effect.
type SaveFailed struct{ Err error }

// RowMsg addresses one note row.
type RowMsg struct {
	Row loom.IdentifiedAction[string, any]
}

// DestMsg addresses the active modal destination.
type DestMsg struct {
	Dest loom.DestinationAction
}

// OpenDetail presents the detail editor for a note.
type OpenDetail struct{ ID string }

// OpenPicker presents the fuzzy picker over the current notes.
type OpenPicker struct{}

// OpenSettings presents the settings modal.
type OpenSettings struct{}

// CloseModal begins dismissing whatever modal is presented.
type CloseModal struct{}

// Transition is a presentation lifecycle report (completion or timeout).
type Transition struct{ Event present.Event }

// HelpMsg addresses the help navigation stack.
type HelpMsg struct {
	Nav loom.StackAction[HelpPage, any]
}

// ---------------------------------------------------------------------------
// Reducer
// ---------------------------------------------------------------------------

// NewReducer builds the application reducer. repo backs all persistence
// effects; opts sizes the modal transitions and their timeout safety nets.
func NewReducer(repo *notestore.Repo, opts present.Options) loom.Reducer[App, any] {
	plan := present.Transition(opts, func(e present.Event) any { return Transition{Event: e} })

	router := loom.NewRouter(
		loom.RouteCase(DetailCase, detailReducer(repo)),
		loom.RouteCase(PickerCase, pickerReducer()),
		loom.RouteCase(SettingsCase, settingsReducer()),
	)

	rows := loom.ForEach(
		func(a any) (loom.IdentifiedAction[string, any], bool) {
			rm, ok := a.(RowMsg)
			return rm.Row, ok
		},
		func(ia loom.IdentifiedAction[string, any]) any { return RowMsg{Row: ia} },
		func(s App) []loom.IdentifiedItem[string, RowState] { return s.Notes },
		func(s App, items []loom.IdentifiedItem[string, RowState]) App {
			s.Notes = items
			return s
		},
		rowReducer(repo),
	)

	help := loom.HandleStack(
		func(a any) (loom.StackAction[HelpPage, any], bool) {
			hm, ok := a.(HelpMsg)
			return hm.Nav, ok
		},
		func(sa loom.StackAction[HelpPage, any]) any { return HelpMsg{Nav: sa} },
		func(s App) loom.Stack[HelpPage] { return s.Help },
		func(s App, st loom.Stack[HelpPage]) App {
			s.Help = st
			return s
		},
		helpPageReducer,
	)

	return loom.Combine(coreReducer(repo, plan), destReducer(router), rows, help)
}

// destReducer routes modal actions to the active case's child reducer. A
// child's self-dismiss comes back out as this destination's dismiss
// envelope, which coreReducer turns into a lifecycle dismissal.
func destReducer(router *loom.Router) loom.Reducer[App, any] {
	return func(s App, a any, d loom.Deps[any]) (App, effect.Effect[any]) {
		dm, ok := a.(DestMsg)
		if !ok {
			return s, effect.None[any]()
		}
		next, eff := router.Reduce(s.Dest, dm.Dest, loom.Deps[loom.DestinationAction]{NewID: d.NewID, Now: d.Now})
		s.Dest = next
		tag := dm.Dest.Case
		mapped := effect.MapHandlingDismiss(eff,
			func(da loom.DestinationAction) any { return DestMsg{Dest: da} },
			any(DestMsg{Dest: loom.DestinationAction{Case: tag, Action: loom.DismissAction[any]()}}),
		)
		return s, mapped
	}
}

// coreReducer holds the app's own logic: loading, note CRUD, the modal
// lifecycle, and observation of child actions through case paths.
func coreReducer(repo *notestore.Repo, plan present.Plan[any]) loom.Reducer[App, any] {
	return func(s App, a any, d loom.Deps[any]) (App, effect.Effect[any]) {
		switch act := a.(type) {
		case LoadNotes:
			s.Loading = true
			return s, effect.Run(func(ctx context.Context, send func(any)) {
				notes, err := repo.List(ctx)
				if err != nil {
					send(LoadFailed{Err: err})
					return
				}
				send(NotesLoaded{Notes: notes})
			})

		case NotesLoaded:
			s.Loading = false
			s.Notes = rowsFromNotes(act.Notes)
			s.Status = fmt.Sprintf("%d notes", len(act.Notes))
			return s, effect.None[any]()

		case LoadFailed:
			s.Loading = false
			s.Status = "load failed: " + act.Err.Error()
			return s, effect.None[any]()

		case AddNote:
			now := d.Now()
			note := notestore.Note{ID: d.NewID(), Body: act.Body, CreatedAt: now, UpdatedAt: now}
			items := make([]loom.IdentifiedItem[string, RowState], len(s.Notes)+1)
			copy(items, s.Notes)
			items[len(s.Notes)] = loom.IdentifiedItem[string, RowState]{
				ID:    note.ID,
				State: RowState{ID: note.ID, Body: note.Body},
			}
			s.Notes = items
			s.Status = "added note"
			return s, effect.Run(func(ctx context.Context, send func(any)) {
				if err := repo.Insert(ctx, note); err != nil {
					send(AddFailed{ID: note.ID, Err: err})
				}
			})

		case AddFailed:
			// roll the optimistic row back, same shape as rowReducer's revert
			kept := make([]loom.IdentifiedItem[string, RowState], 0, len(s.Notes))
			for _, item := range s.Notes {
				if item.ID != act.ID {
					kept = append(kept, item)
				}
			}
			s.Notes = kept
			s.Status = "add failed: " + act.Err.Error()
			return s, effect.None[any]()

		case RemoveNote:
			kept := make([]loom.IdentifiedItem[string, RowState], 0, len(s.Notes))
			for _, item := range s.Notes {
				if item.ID != act.ID {
					kept = append(kept, item)
				}
			}
			s.Notes = kept
			id := act.ID
			return s, effect.Run(func(ctx context.Context, send func(any)) {
				if err := repo.Delete(ctx, id); err != nil {
					send(SaveFailed{Err: err})
				}
			})

		case SaveFailed:
			s.Status = "save failed: " + act.Err.Error()
			return s, effect.None[any]()

		case OpenDetail:
			row, ok := findRow(s.Notes, act.ID)
			if !ok {
				return s, effect.None[any]()
			}
			return presentDest(s, DetailCase.New(DetailState{NoteID: row.ID, Draft: row.Body}), plan)

		case OpenPicker:
			return presentDest(s, PickerCase.New(PickerState{Candidates: candidatesFrom(s.Notes)}), plan)

		case OpenSettings:
			return presentDest(s, SettingsCase.New(SettingsState{ShowDone: s.ShowDone}), plan)

		case CloseModal:
			return beginDismissal(s, plan)

		case Transition:
			next, ok := s.Modal.Handle(act.Event)
			if !ok {
				return s, effect.None[any]()
			}
			s.Modal = next
			if next.Phase() != present.Idle {
				return s, effect.None[any]()
			}
			return finishDismissal(s)

		case DestMsg:
			return observeDest(s, act, plan)

		default:
			return s, effect.None[any]()
		}
	}
}

// observeDest watches child actions going into the router: a dismiss
// envelope becomes a lifecycle dismissal, and a few child actions are
// observed for parent-side bookkeeping before the child handles them.
func observeDest(s App, act DestMsg, plan present.Plan[any]) (App, effect.Effect[any]) {
	if act.Dest.Action.IsDismiss() {
		return beginDismissal(s, plan)
	}

	if loom.Is(act.Dest, pickerChoosePath) {
		ca, _ := act.Dest.Action.Action()
		if choose, ok := ca.(PickerChoose); ok {
			s.pendingNoteID = choose.ID
		}
	}

	if dt, ok := loom.MatchCase(DetailCase, detailSavedPath, act.Dest, s.Dest); ok {
		items := make([]loom.IdentifiedItem[string, RowState], len(s.Notes))
		copy(items, s.Notes)
		for i := range items {
			if items[i].ID == dt.NoteID {
				items[i].State.Body = dt.Draft
			}
		}
		s.Notes = items
	}

	if status, ok := loom.Match(act.Dest, s.Dest,
		loom.On(PickerCase, pickerChoosePath, func(p PickerState) string {
			return fmt.Sprintf("picked from %d matches", len(p.Matches()))
		}),
		loom.On(DetailCase, detailSavedPath, func(dt DetailState) string {
			return "saved note"
		}),
	); ok {
		s.Status = status
	}
	return s, effect.None[any]()
}

// presentDest begins presenting dest. Guarded by the lifecycle: a second
// open while anything is on screen changes nothing.
func presentDest(s App, dest loom.Destination, plan present.Plan[any]) (App, effect.Effect[any]) {
	next, ok := s.Modal.Present(dest, plan.PresentDuration)
	if !ok {
		return s, effect.None[any]()
	}
	s.Modal = next
	s.Dest = dest
	return s, plan.Present
}

func beginDismissal(s App, plan present.Plan[any]) (App, effect.Effect[any]) {
	next, ok := s.Modal.BeginDismissal(plan.DismissDuration)
	if !ok {
		return s, effect.None[any]()
	}
	// The destination stays set: the exit transition still renders it.
	s.Modal = next
	return s, plan.Dismiss
}

// finishDismissal runs when the lifecycle reaches idle: settings written
// back, destination cleared in the same update, and a note picked during
// the modal opened next.
func finishDismissal(s App) (App, effect.Effect[any]) {
	if st, ok := SettingsCase.Extract(s.Dest); ok {
		s.ShowDone = st.ShowDone
	}
	s.Dest = loom.Destination{}
	if s.pendingNoteID == "" {
		return s, effect.None[any]()
	}
	id := s.pendingNoteID
	s.pendingNoteID = ""
	return s, effect.Run(func(ctx context.Context, send func(any)) {
		send(OpenDetail{ID: id})
	})
}

func findRow(items []loom.IdentifiedItem[string, RowState], id string) (RowState, bool) {
	for _, item := range items {
		if item.ID == id {
			return item.State, true
		}
	}
	return RowState{}, false
}

func rowsFromNotes(notes []notestore.Note) []loom.IdentifiedItem[string, RowState] {
	items := make([]loom.IdentifiedItem[string, RowState], len(notes))
	for i, n := range notes {
		items[i] = loom.IdentifiedItem[string, RowState]{
			ID:    n.ID,
			State: RowState{ID: n.ID, Body: n.Body, Done: n.Done},
		}
	}
	return items
}
