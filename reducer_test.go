package loom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/loom/effect"
)

func TestCombineRunsInOrderAndBatchesEffects(t *testing.T) {
	t.Parallel()

	double := func(s tallyState, a tallyAction, d Deps[tallyAction]) (tallyState, effect.Effect[tallyAction]) {
		s.Count *= 2
		return s, effect.Run(func(_ context.Context, send func(tallyAction)) { send(tallyIncrement) })
	}
	addTen := func(s tallyState, a tallyAction, d Deps[tallyAction]) (tallyState, effect.Effect[tallyAction]) {
		s.Count += 10
		return s, effect.None[tallyAction]()
	}

	// (3*2)+10, not (3+10)*2: order matters.
	combined := Combine(double, addTen)
	got, eff := combined(tallyState{Count: 3}, tallyIncrement, NewDeps[tallyAction]())
	require.Equal(t, 16, got.Count)

	var actions []tallyAction
	effect.Perform(context.Background(), eff, func(a tallyAction) { actions = append(actions, a) })
	require.Equal(t, []tallyAction{tallyIncrement}, actions)
}

func TestNewDepsGenerators(t *testing.T) {
	t.Parallel()

	deps := NewDeps[any]()
	a, b := deps.NewID(), deps.NewID()
	require.NotEmpty(t, a)
	require.NotEmpty(t, b)
	require.NotEqual(t, a, b)
	require.False(t, deps.Now().IsZero())
}

func TestDismissOutsidePresentationIsNoOp(t *testing.T) {
	t.Parallel()

	deps := NewDeps[string]()
	var got []string
	effect.Perform(context.Background(), deps.Dismiss(), func(a string) { got = append(got, a) })
	require.Empty(t, got)
}
