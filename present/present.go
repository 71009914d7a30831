// Package present coordinates enter/exit timing between a reducer core and
// an external transition system (an animation engine, a terminal repaint, a
// test harness — anything that eventually reports done or times out).
//
// The machine cycles idle → presenting → presented → dismissing → idle.
// Every transition re-validates the current phase first, so duplicate and
// out-of-order completion/timeout events degrade to silent no-ops instead
// of corrupting the cycle.
package present

import "time"

// Phase is the lifecycle position.
type Phase int

const (
	Idle Phase = iota
	Presenting
	Presented
	Dismissing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Presenting:
		return "presenting"
	case Presented:
		return "presented"
	case Dismissing:
		return "dismissing"
	default:
		return "unknown"
	}
}

// Event is a transition report from the external system, or the
// corresponding safety-net timeout. Completed and timeout race; whichever
// arrives first wins and the loser is a no-op.
type Event int

const (
	PresentationCompleted Event = iota
	PresentationTimeout
	DismissalCompleted
	DismissalTimeout
)

func (e Event) String() string {
	switch e {
	case PresentationCompleted:
		return "presentationCompleted"
	case PresentationTimeout:
		return "presentationTimeout"
	case DismissalCompleted:
		return "dismissalCompleted"
	case DismissalTimeout:
		return "dismissalTimeout"
	default:
		return "unknown"
	}
}

// State is the presentation lifecycle value. The zero value is idle.
//
// Content is set when presentation begins and retained through dismissal:
// the exit transition still needs it. It is zeroed only by Finish, and the
// caller must clear whatever paired state (typically a loom.Destination) it
// mirrors in the same reducer application.
type State[T any] struct {
	phase    Phase
	content  T
	duration time.Duration
}

// IdleState returns the idle lifecycle state (also the zero value).
func IdleState[T any]() State[T] { return State[T]{} }

// Phase returns the current lifecycle phase.
func (s State[T]) Phase() Phase { return s.phase }

// Content returns the presented content, or false when idle.
func (s State[T]) Content() (T, bool) {
	if s.phase == Idle {
		var zero T
		return zero, false
	}
	return s.content, true
}

// Duration returns the expected duration of the in-flight transition. Zero
// outside presenting/dismissing.
func (s State[T]) Duration() time.Duration {
	if s.phase == Presenting || s.phase == Dismissing {
		return s.duration
	}
	return 0
}

// Present begins presenting content. Guarded: only valid from idle, so a
// re-entrant present intent while something is already on screen changes
// nothing.
func (s State[T]) Present(content T, duration time.Duration) (State[T], bool) {
	if s.phase != Idle {
		return s, false
	}
	return State[T]{phase: Presenting, content: content, duration: duration}, true
}

// Complete marks the enter transition finished. Guarded: only valid while
// presenting, so the completed/timeout race resolves to exactly one
// transition.
func (s State[T]) Complete() (State[T], bool) {
	if s.phase != Presenting {
		return s, false
	}
	return State[T]{phase: Presented, content: s.content}, true
}

// BeginDismissal starts the exit transition. Guarded: only valid from
// presented. Content is deliberately retained; the exit transition still
// renders it.
func (s State[T]) BeginDismissal(duration time.Duration) (State[T], bool) {
	if s.phase != Presented {
		return s, false
	}
	return State[T]{phase: Dismissing, content: s.content, duration: duration}, true
}

// Finish completes dismissal and returns to idle with zeroed content.
// Guarded: only valid while dismissing. Callers must clear the paired
// destination in the same update.
func (s State[T]) Finish() (State[T], bool) {
	if s.phase != Dismissing {
		return s, false
	}
	return State[T]{}, true
}

// Handle applies a transition event through the guarded transitions.
// Returns the (possibly unchanged) state and whether a transition happened.
func (s State[T]) Handle(e Event) (State[T], bool) {
	switch e {
	case PresentationCompleted, PresentationTimeout:
		return s.Complete()
	case DismissalCompleted, DismissalTimeout:
		return s.Finish()
	default:
		return s, false
	}
}
