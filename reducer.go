// Package loom is a composable reducer/effect engine: a unidirectional
// state core that lets independently testable features compose without a
// child ever knowing about its parent or siblings.
//
// A feature is a state type, a closed action type, and a Reducer. Parents
// embed children with the composition operators (IfLet, IfLetPresentation,
// ForEach, Router, HandleStack); child effects are mapped back into the
// parent's action vocabulary through the effect package.
package loom

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jask/loom/effect"
)

// Reducer is a pure function from (state, action, dependencies) to
// (new state, effect). State is treated as an immutable value: reducers
// replace it wholesale, never mutate it in place.
type Reducer[S, A any] func(state S, action A, deps Deps[A]) (S, effect.Effect[A])

// Deps is the dependency set handed to every reducer application. It
// carries consumer-supplied generators plus the dismiss capability, the
// inversion-of-control handle a child uses to request its own removal
// without referencing any parent type.
type Deps[A any] struct {
	// NewID generates identifiers for new child state.
	NewID func() string
	// Now is the current-time source.
	Now func() time.Time
}

// NewDeps returns the root dependency set: uuid identifiers and wall-clock
// time.
func NewDeps[A any]() Deps[A] {
	return Deps[A]{
		NewID: uuid.NewString,
		Now:   time.Now,
	}
}

// Dismiss returns an effect that dispatches a dismiss envelope addressed to
// the nearest enclosing presentation slot, through the exact wrapping the
// parent used to integrate it. Outside any presentation it is a no-op.
func (d Deps[A]) Dismiss() effect.Effect[A] {
	return effect.SelfDismiss[A]()
}

// DismissAfter is Dismiss preceded by an asynchronous cleanup task; the
// parent never observes the dismissal before cleanup has returned.
func (d Deps[A]) DismissAfter(cleanup func(ctx context.Context)) effect.Effect[A] {
	return effect.SelfDismissAfter[A](cleanup)
}

// childDeps re-roots a dependency set in a child's action vocabulary.
// Generators are shared; the dismiss capability re-arms itself one envelope
// layer down automatically because the sentinel is addressed by the nearest
// consuming wrapper, not by value.
func childDeps[A, CA any](d Deps[A]) Deps[CA] {
	return Deps[CA]{NewID: d.NewID, Now: d.Now}
}

// Combine runs reducers in order on the accumulated state and batches
// their effects. Use it to sequence a feature's own logic with the
// composition operators that integrate its children.
func Combine[S, A any](reducers ...Reducer[S, A]) Reducer[S, A] {
	return func(s S, a A, d Deps[A]) (S, effect.Effect[A]) {
		effects := make([]effect.Effect[A], 0, len(reducers))
		for _, r := range reducers {
			var e effect.Effect[A]
			s, e = r(s, a, d)
			if !effect.IsNone(e) {
				effects = append(effects, e)
			}
		}
		return s, effect.Batch(effects...)
	}
}
