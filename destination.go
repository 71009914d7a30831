package loom

import (
	"fmt"

	"github.com/jask/loom/effect"
)

// ---------------------------------------------------------------------------
// Destination: single-slot sum of optional child features
// ---------------------------------------------------------------------------

// Tag identifies one case of a Destination.
type Tag string

// Destination records which optional child feature is currently active and
// with what state. The zero value is the absent slot. Exactly one case can
// be active at a time; the active case's payload is always the type its
// Case descriptor was declared with, because Destination values can only be
// built through Case.New.
type Destination struct {
	tag   Tag
	state any
}

// Present reports whether any case is active.
func (d Destination) Present() bool { return d.tag != "" }

// ActiveTag returns the active case's tag, or false when the slot is absent.
func (d Destination) ActiveTag() (Tag, bool) {
	if d.tag == "" {
		return "", false
	}
	return d.tag, true
}

// Case is a typed descriptor for one Destination case. Declare one per case
// at package level; every construction and extraction for that case goes
// through it, which is what keeps tag and payload type paired.
type Case[S any] struct {
	tag Tag
}

// NewCase declares a Destination case holding state of type S. Panics on an
// empty tag; the empty tag is reserved for the absent slot.
func NewCase[S any](tag Tag) Case[S] {
	if tag == "" {
		panic("loom: destination case tag must not be empty")
	}
	return Case[S]{tag: tag}
}

// Tag returns the case's tag.
func (c Case[S]) Tag() Tag { return c.tag }

// New constructs a Destination with this case active. Total; cannot fail.
func (c Case[S]) New(state S) Destination {
	return Destination{tag: c.tag, state: state}
}

// Extract returns the nested state when this case is the active one. Total;
// a mismatched or absent destination yields false, never a panic.
func (c Case[S]) Extract(d Destination) (S, bool) {
	if d.tag != c.tag {
		var zero S
		return zero, false
	}
	s, ok := d.state.(S)
	return s, ok
}

// ---------------------------------------------------------------------------
// Destination routing
// ---------------------------------------------------------------------------

// DestinationAction addresses the active case of a Destination with an
// enveloped child action.
type DestinationAction struct {
	Case   Tag
	Action PresentationAction[any]
}

// CaseAction wraps a child action into a DestinationAction for c's case.
func CaseAction[S any](c Case[S], action any) DestinationAction {
	return DestinationAction{Case: c.tag, Action: Presented(action)}
}

// DismissCase returns the dismiss envelope for c's case.
func DismissCase[S any](c Case[S]) DestinationAction {
	return DestinationAction{Case: c.tag, Action: DismissAction[any]()}
}

// Route binds one case to its child reducer. Build with RouteCase.
type Route struct {
	tag    Tag
	reduce func(state, action any, d Deps[DestinationAction]) (any, effect.Effect[DestinationAction], bool)
}

// RouteCase binds c's case to child. Actions and state that do not have the
// case's declared types are reported unroutable and leave state untouched.
func RouteCase[S, CA any](c Case[S], child Reducer[S, CA]) Route {
	tag := c.tag
	return Route{
		tag: tag,
		reduce: func(state, action any, d Deps[DestinationAction]) (any, effect.Effect[DestinationAction], bool) {
			cs, ok := state.(S)
			if !ok {
				return state, nil, false
			}
			ca, ok := action.(CA)
			if !ok {
				return state, nil, false
			}
			next, ce := child(cs, ca, childDeps[DestinationAction, CA](d))
			mapped := effect.Map(ce, func(a CA) DestinationAction {
				return DestinationAction{Case: tag, Action: Presented[any](a)}
			})
			return next, mapped, true
		},
	}
}

// Router is the routing reducer synthesized from a set of case routes. Its
// Reduce method has the Reducer[Destination, DestinationAction] shape, so a
// parent embeds it with IfLetPresentation like any other child feature.
type Router struct {
	byTag map[Tag]Route
}

// NewRouter builds a Router from case routes. Duplicate tags are a
// programmer error and panic at construction.
func NewRouter(routes ...Route) *Router {
	byTag := make(map[Tag]Route, len(routes))
	for _, r := range routes {
		if _, exists := byTag[r.tag]; exists {
			panic(fmt.Sprintf("loom: duplicate destination route for tag %q", r.tag))
		}
		byTag[r.tag] = r
	}
	return &Router{byTag: byTag}
}

// Reduce routes a DestinationAction to the active case's reducer.
//
// A tag that does not match the live destination, an absent slot, an
// unroutable action shape, and an unknown tag are all silent no-ops: the
// action raced with a destination change and is simply stale. A dismiss
// envelope also returns state unchanged — clearing the slot is owned by the
// enclosing IfLetPresentation, the single clearing authority.
func (r *Router) Reduce(d Destination, a DestinationAction, deps Deps[DestinationAction]) (Destination, effect.Effect[DestinationAction]) {
	if !d.Present() || a.Case != d.tag {
		return d, effect.None[DestinationAction]()
	}
	if a.Action.IsDismiss() {
		return d, effect.None[DestinationAction]()
	}
	route, ok := r.byTag[a.Case]
	if !ok {
		return d, effect.None[DestinationAction]()
	}
	ca, _ := a.Action.Action()
	next, eff, ok := route.reduce(d.state, ca, deps)
	if !ok {
		return d, effect.None[DestinationAction]()
	}
	return Destination{tag: d.tag, state: next}, eff
}

// ---------------------------------------------------------------------------
// Case paths and matching
// ---------------------------------------------------------------------------

// CasePath matches destination actions either by case alone (prefix: any
// action addressed to the case, dismiss included) or by case plus the
// concrete type of the wrapped child action (exact).
type CasePath struct {
	tag   Tag
	exact func(any) bool
}

// Path returns the prefix path for c's case.
func (c Case[S]) Path() CasePath { return CasePath{tag: c.tag} }

// ExactPath returns the path matching only child actions of type CA
// addressed to tag.
func ExactPath[CA any](tag Tag) CasePath {
	return CasePath{tag: tag, exact: func(a any) bool {
		_, ok := a.(CA)
		return ok
	}}
}

// PathTag returns the case tag the path addresses.
func (p CasePath) PathTag() Tag { return p.tag }

// Is reports whether a matches path. Prefix paths match every envelope for
// the case, dismiss included; exact paths see through the envelope and
// match only a presented action of the declared type.
func Is(a DestinationAction, path CasePath) bool {
	if a.Case != path.tag {
		return false
	}
	if path.exact == nil {
		return true
	}
	ca, ok := a.Action.Action()
	return ok && path.exact(ca)
}

// MatchCase returns the nested state only when Is(a, path) holds AND the
// live destination currently has the path's case active. The conjunction is
// the point: it refuses to hand out state for an action that no longer
// matches what is presented.
func MatchCase[S any](c Case[S], path CasePath, a DestinationAction, d Destination) (S, bool) {
	if c.tag != path.tag || !Is(a, path) {
		var zero S
		return zero, false
	}
	return c.Extract(d)
}

// HandlerCase pairs a path with a typed handler for Match. Build with On.
type HandlerCase[R any] struct {
	path CasePath
	run  func(state any) (R, bool)
}

// On builds a Match handler: when path matches the action and c's case is
// live, fn runs on the extracted state.
func On[S, R any](c Case[S], path CasePath, fn func(S) R) HandlerCase[R] {
	return HandlerCase[R]{
		path: path,
		run: func(state any) (R, bool) {
			s, ok := state.(S)
			if !ok {
				var zero R
				return zero, false
			}
			return fn(s), true
		},
	}
}

// Match evaluates handlers in declaration order and returns the first
// result whose path matches the action and whose case is live, with
// matched=false when none does. The comma-ok form is deliberate: a handler
// may legitimately return a zero value.
func Match[R any](a DestinationAction, d Destination, handlers ...HandlerCase[R]) (R, bool) {
	for _, h := range handlers {
		if !Is(a, h.path) || d.tag != h.path.tag {
			continue
		}
		if v, ok := h.run(d.state); ok {
			return v, true
		}
	}
	var zero R
	return zero, false
}
