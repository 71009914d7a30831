package loom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/loom/effect"
)

// ---------------------------------------------------------------------------
// Fixture cases: a settings panel and a counter detail
// ---------------------------------------------------------------------------

type settingsState struct {
	Theme string
}

type settingsAction struct {
	SetTheme string
}

func settingsReducer(s settingsState, a settingsAction, d Deps[settingsAction]) (settingsState, effect.Effect[settingsAction]) {
	if a.SetTheme != "" {
		s.Theme = a.SetTheme
	}
	return s, effect.None[settingsAction]()
}

var (
	settingsCase = NewCase[settingsState]("settings")
	detailCase   = NewCase[counterState]("detail")
)

func testRouter() *Router {
	return NewRouter(
		RouteCase(settingsCase, settingsReducer),
		RouteCase(detailCase, counterReducer(nil)),
	)
}

func TestCaseIdentityLaw(t *testing.T) {
	t.Parallel()

	s := settingsState{Theme: "dark"}
	got, ok := settingsCase.Extract(settingsCase.New(s))
	require.True(t, ok)
	require.Equal(t, s, got)

	c := counterState{Count: 9}
	gotC, ok := detailCase.Extract(detailCase.New(c))
	require.True(t, ok)
	require.Equal(t, c, gotC)
}

func TestExtractIsTotal(t *testing.T) {
	t.Parallel()

	// Absent slot.
	_, ok := settingsCase.Extract(Destination{})
	require.False(t, ok)

	// Wrong case.
	_, ok = settingsCase.Extract(detailCase.New(counterState{}))
	require.False(t, ok)
}

func TestNewCaseRejectsEmptyTag(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { NewCase[int]("") })
}

func TestNewRouterRejectsDuplicateTags(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		NewRouter(
			RouteCase(settingsCase, settingsReducer),
			RouteCase(NewCase[settingsState]("settings"), settingsReducer),
		)
	})
}

func TestRouterRunsMatchingCase(t *testing.T) {
	t.Parallel()

	r := testRouter()
	d := settingsCase.New(settingsState{Theme: "light"})
	next, eff := r.Reduce(d, CaseAction(settingsCase, settingsAction{SetTheme: "dark"}), NewDeps[DestinationAction]())
	require.True(t, effect.IsNone(eff))

	got, ok := settingsCase.Extract(next)
	require.True(t, ok)
	require.Equal(t, "dark", got.Theme)
}

func TestRouterNoOps(t *testing.T) {
	t.Parallel()

	r := testRouter()
	deps := NewDeps[DestinationAction]()

	// Absent slot.
	next, eff := r.Reduce(Destination{}, CaseAction(settingsCase, settingsAction{SetTheme: "dark"}), deps)
	require.Equal(t, Destination{}, next)
	require.True(t, effect.IsNone(eff))

	// Tag does not match the live destination.
	live := detailCase.New(counterState{Count: 1})
	next, eff = r.Reduce(live, CaseAction(settingsCase, settingsAction{SetTheme: "dark"}), deps)
	require.Equal(t, live, next)
	require.True(t, effect.IsNone(eff))

	// Unroutable action shape for the live case.
	next, eff = r.Reduce(live, CaseAction(detailCase, "not a counter action"), deps)
	require.Equal(t, live, next)
	require.True(t, effect.IsNone(eff))

	// Dismiss envelope: state unchanged; clearing belongs to the wrapper.
	next, eff = r.Reduce(live, DismissCase(detailCase), deps)
	require.Equal(t, live, next)
	require.True(t, effect.IsNone(eff))
}

func TestRouterMapsChildEffects(t *testing.T) {
	t.Parallel()

	r := testRouter()
	live := detailCase.New(counterState{Count: 1})
	_, eff := r.Reduce(live, CaseAction(detailCase, counterIncrementLater), NewDeps[DestinationAction]())

	var got []DestinationAction
	effect.Perform(context.Background(), eff, func(a DestinationAction) { got = append(got, a) })
	require.Equal(t, []DestinationAction{CaseAction(detailCase, counterIncrement)}, got)
}

// ---------------------------------------------------------------------------
// Case paths and matching
// ---------------------------------------------------------------------------

func TestIsPrefixAndExact(t *testing.T) {
	t.Parallel()

	prefix := settingsCase.Path()
	exact := ExactPath[settingsAction]("settings")

	presented := CaseAction(settingsCase, settingsAction{SetTheme: "dark"})
	dismiss := DismissCase(settingsCase)
	other := CaseAction(detailCase, counterIncrement)

	require.True(t, Is(presented, prefix))
	require.True(t, Is(dismiss, prefix), "prefix matches any envelope for the case")
	require.False(t, Is(other, prefix))

	require.True(t, Is(presented, exact))
	require.False(t, Is(dismiss, exact), "exact never matches a dismiss envelope")
	require.False(t, Is(CaseAction(settingsCase, counterIncrement), exact), "exact requires the declared action type")
}

func TestMatchCaseConjunctionLaw(t *testing.T) {
	t.Parallel()

	path := settingsCase.Path()
	action := CaseAction(settingsCase, settingsAction{SetTheme: "dark"})
	live := settingsCase.New(settingsState{Theme: "light"})
	stale := detailCase.New(counterState{})

	type probe struct {
		action DestinationAction
		dest   Destination
	}
	for _, p := range []probe{
		{action, live},
		{action, stale},
		{action, Destination{}},
		{CaseAction(detailCase, counterIncrement), live},
	} {
		got, ok := MatchCase(settingsCase, path, p.action, p.dest)
		wantIs := Is(p.action, path)
		_, wantExtract := settingsCase.Extract(p.dest)
		require.Equal(t, wantIs && wantExtract, ok)
		if ok {
			require.Equal(t, settingsState{Theme: "light"}, got)
		}
	}
}

func TestMatchFirstWinsInDeclarationOrder(t *testing.T) {
	t.Parallel()

	live := settingsCase.New(settingsState{Theme: "light"})
	action := CaseAction(settingsCase, settingsAction{SetTheme: "dark"})

	got, ok := Match(action, live,
		On(detailCase, detailCase.Path(), func(counterState) string { return "detail" }),
		On(settingsCase, ExactPath[settingsAction]("settings"), func(settingsState) string { return "exact" }),
		On(settingsCase, settingsCase.Path(), func(settingsState) string { return "prefix" }),
	)
	require.True(t, ok)
	require.Equal(t, "exact", got, "first matching handler wins")
}

func TestMatchReportsUnmatchedExplicitly(t *testing.T) {
	t.Parallel()

	live := settingsCase.New(settingsState{})

	// A handler legitimately returning a zero value still counts as matched.
	got, ok := Match(CaseAction(settingsCase, settingsAction{}), live,
		On(settingsCase, settingsCase.Path(), func(settingsState) string { return "" }),
	)
	require.True(t, ok)
	require.Equal(t, "", got)

	// No handler for the action's case.
	_, ok = Match(CaseAction(detailCase, counterIncrement), live,
		On(settingsCase, settingsCase.Path(), func(settingsState) string { return "settings" }),
	)
	require.False(t, ok)
}
