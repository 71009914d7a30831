package loom

import "github.com/jask/loom/effect"

// ---------------------------------------------------------------------------
// Presentation envelope
// ---------------------------------------------------------------------------

// PresentationAction is the envelope a parent uses to address an optional
// child slot: either a wrapped child action or a dismiss request.
type PresentationAction[CA any] struct {
	action  CA
	dismiss bool
}

// Presented wraps a child action for delivery to the active child.
func Presented[CA any](action CA) PresentationAction[CA] {
	return PresentationAction[CA]{action: action}
}

// DismissAction requests that the slot be cleared.
func DismissAction[CA any]() PresentationAction[CA] {
	return PresentationAction[CA]{dismiss: true}
}

// Action returns the wrapped child action, or false for a dismiss envelope.
func (p PresentationAction[CA]) Action() (CA, bool) {
	if p.dismiss {
		var zero CA
		return zero, false
	}
	return p.action, true
}

// IsDismiss reports whether this envelope is a dismiss request.
func (p PresentationAction[CA]) IsDismiss() bool { return p.dismiss }

// ---------------------------------------------------------------------------
// Optional-child operators
// ---------------------------------------------------------------------------

// IfLet embeds an optional child feature into a parent reducer.
//
// Actions the extractor does not recognize, and actions arriving while the
// slot is absent, leave the parent state unchanged; neither is an error.
// Otherwise the child reducer runs on the extracted state and the result is
// re-embedded, with the child's effect mapped into the parent vocabulary.
func IfLet[S, A, CS, CA any](
	getChild func(S) (CS, bool),
	setChild func(S, CS) S,
	toChild func(A) (CA, bool),
	fromChild func(CA) A,
	child Reducer[CS, CA],
) Reducer[S, A] {
	return func(s S, a A, d Deps[A]) (S, effect.Effect[A]) {
		ca, ok := toChild(a)
		if !ok {
			return s, effect.None[A]()
		}
		cs, ok := getChild(s)
		if !ok {
			return s, effect.None[A]()
		}
		next, ce := child(cs, ca, childDeps[A, CA](d))
		return setChild(s, next), effect.Map(ce, fromChild)
	}
}

// IfLetPresentation is IfLet for children addressed through the
// presentation envelope. It is the single authority for clearing the slot:
// a dismiss envelope clears it directly, without running the child.
//
// setChild receives present=false to clear the slot and present=true to
// store updated child state. A child's self-dismiss effect (Deps.Dismiss)
// is consumed here and becomes this slot's dismiss envelope.
func IfLetPresentation[S, A, CS, CA any](
	getChild func(S) (CS, bool),
	setChild func(s S, cs CS, present bool) S,
	toChild func(A) (PresentationAction[CA], bool),
	fromChild func(PresentationAction[CA]) A,
	child Reducer[CS, CA],
) Reducer[S, A] {
	return func(s S, a A, d Deps[A]) (S, effect.Effect[A]) {
		pa, ok := toChild(a)
		if !ok {
			return s, effect.None[A]()
		}
		if pa.IsDismiss() {
			var zero CS
			return setChild(s, zero, false), effect.None[A]()
		}
		ca, _ := pa.Action()
		cs, ok := getChild(s)
		if !ok {
			return s, effect.None[A]()
		}
		next, ce := child(cs, ca, childDeps[A, CA](d))
		mapped := effect.MapHandlingDismiss(ce,
			func(c CA) A { return fromChild(Presented(c)) },
			fromChild(DismissAction[CA]()),
		)
		return setChild(s, next, true), mapped
	}
}
