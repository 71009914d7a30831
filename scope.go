package loom

import "sync"

// ---------------------------------------------------------------------------
// View-layer scoping
// ---------------------------------------------------------------------------

// Scoped is a narrowed read/dispatch handle for one destination case or one
// collection element, for consumption by a rendering layer. Reads report an
// explicit absent marker instead of failing when the target does not
// currently exist.
type Scoped[CS, CA any] struct {
	read      func() (CS, bool)
	send      func(CA)
	subscribe func(func(CS, bool)) func()
}

// State returns the narrowed state, with present=false when the target is
// not currently active.
func (v *Scoped[CS, CA]) State() (CS, bool) { return v.read() }

// Send dispatches a child action, wrapped through the parent's envelope.
func (v *Scoped[CS, CA]) Send(action CA) { v.send(action) }

// Subscribe registers fn to observe the narrowed state. The returned
// function cancels the subscription.
func (v *Scoped[CS, CA]) Subscribe(fn func(CS, bool)) (cancel func()) {
	return v.subscribe(fn)
}

// ScopeCase derives a handle narrowed to one destination case. Reads go
// through Case.Extract; dispatched child actions are wrapped into the
// case's presented envelope and embedded into the parent action.
//
// Subscription callbacks always see the store's latest state, one at a
// time: the wrapper re-reads under its own lock instead of trusting the
// delivered value, since raw subscriber delivery order is unspecified
// under concurrent dispatches. The callback must not dispatch
// synchronously.
func ScopeCase[S, A, CS, CA any](
	store *Store[S, A],
	getDest func(S) Destination,
	c Case[CS],
	embed func(DestinationAction) A,
) *Scoped[CS, CA] {
	return &Scoped[CS, CA]{
		read: func() (CS, bool) {
			return c.Extract(getDest(store.State()))
		},
		send: func(action CA) {
			store.Dispatch(embed(CaseAction(c, action)))
		},
		subscribe: func(fn func(CS, bool)) func() {
			var mu sync.Mutex
			return store.Subscribe(func(S) {
				mu.Lock()
				defer mu.Unlock()
				fn(c.Extract(getDest(store.State())))
			})
		},
	}
}

// ScopeID derives a handle narrowed to one element of an identified
// collection. Subscriptions are filtered: fn fires when the element appears
// or disappears, and otherwise only when changed reports its state
// different from the last observed value. A nil changed disables the
// content filter (every parent update while present notifies).
//
// As with ScopeCase, the subscription re-reads the store's latest state
// under its own lock, so observed values are monotonic even when dispatches
// race. The callback must not dispatch synchronously.
func ScopeID[S, A any, ID comparable, CS, CA any](
	store *Store[S, A],
	getItems func(S) []IdentifiedItem[ID, CS],
	id ID,
	embed func(IdentifiedAction[ID, CA]) A,
	changed func(prev, next CS) bool,
) *Scoped[CS, CA] {
	lookup := func(s S) (CS, bool) {
		for _, item := range getItems(s) {
			if item.ID == id {
				return item.State, true
			}
		}
		var zero CS
		return zero, false
	}
	return &Scoped[CS, CA]{
		read: func() (CS, bool) {
			return lookup(store.State())
		},
		send: func(action CA) {
			store.Dispatch(embed(IdentifiedAction[ID, CA]{ID: id, Action: action}))
		},
		subscribe: func(fn func(CS, bool)) func() {
			var mu sync.Mutex
			last, present := lookup(store.State())
			return store.Subscribe(func(S) {
				mu.Lock()
				defer mu.Unlock()
				cur, ok := lookup(store.State())
				notify := ok != present || (ok && (changed == nil || changed(last, cur)))
				last, present = cur, ok
				if notify {
					fn(cur, ok)
				}
			})
		},
	}
}
