package loom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/loom/effect"
)

type rowsParent struct {
	Header string
	Rows   []IdentifiedItem[string, counterState]
}

type rowAction struct {
	row IdentifiedAction[string, counterAction]
}

func rowsReducer() Reducer[rowsParent, any] {
	return ForEach(
		func(a any) (IdentifiedAction[string, counterAction], bool) {
			ra, ok := a.(rowAction)
			return ra.row, ok
		},
		func(ia IdentifiedAction[string, counterAction]) any { return rowAction{row: ia} },
		func(p rowsParent) []IdentifiedItem[string, counterState] { return p.Rows },
		func(p rowsParent, rows []IdentifiedItem[string, counterState]) rowsParent {
			p.Rows = rows
			return p
		},
		counterReducer(nil),
	)
}

func twoRows() rowsParent {
	return rowsParent{
		Header: "rows",
		Rows: []IdentifiedItem[string, counterState]{
			{ID: "a", State: counterState{Count: 1}},
			{ID: "b", State: counterState{Count: 2}},
		},
	}
}

func TestForEachUpdatesOnlyAddressedItem(t *testing.T) {
	t.Parallel()

	r := rowsReducer()
	before := twoRows()
	after, eff := r(before, rowAction{row: IdentifiedAction[string, counterAction]{ID: "b", Action: counterIncrement}}, NewDeps[any]())
	require.True(t, effect.IsNone(eff))

	require.Len(t, after.Rows, 2)
	require.Equal(t, before.Rows[0], after.Rows[0], "item a untouched")
	require.Equal(t, "a", after.Rows[0].ID)
	require.Equal(t, "b", after.Rows[1].ID, "order preserved")
	require.Equal(t, 3, after.Rows[1].State.Count)

	// The input value itself is untouched: slices are copied, not mutated.
	require.Equal(t, twoRows(), before)
}

func TestForEachMissingIDIsNoOp(t *testing.T) {
	t.Parallel()

	r := rowsReducer()
	before := twoRows()
	after, eff := r(before, rowAction{row: IdentifiedAction[string, counterAction]{ID: "ghost", Action: counterIncrement}}, NewDeps[any]())
	require.Equal(t, before, after)
	require.True(t, effect.IsNone(eff))
}

func TestForEachIgnoresUnrelatedActions(t *testing.T) {
	t.Parallel()

	r := rowsReducer()
	before := twoRows()
	after, eff := r(before, "unrelated", NewDeps[any]())
	require.Equal(t, before, after)
	require.True(t, effect.IsNone(eff))
}

func TestForEachMapsEffectBackWithSameID(t *testing.T) {
	t.Parallel()

	r := rowsReducer()
	before := twoRows()
	_, eff := r(before, rowAction{row: IdentifiedAction[string, counterAction]{ID: "a", Action: counterIncrementLater}}, NewDeps[any]())

	var got []any
	effect.Perform(context.Background(), eff, func(a any) { got = append(got, a) })
	require.Equal(t, []any{rowAction{row: IdentifiedAction[string, counterAction]{ID: "a", Action: counterIncrement}}}, got)
}
