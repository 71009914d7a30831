package loom

import (
	"context"
	"sync"

	"github.com/jask/loom/effect"
)

// Store owns a feature's state and runs its single dispatch loop: exactly
// one reducer application executes at a time, and concurrently arriving
// Dispatch calls are serialized, so every mutation happens inside a reducer
// application in a deterministic order.
//
// Effects run as independent goroutines outside the loop and feed their
// actions back through Dispatch. There is no cancellation of in-flight
// effects; a started effect runs to completion and its actions are
// delivered regardless of continued relevance — stale ones are absorbed by
// the state guards in the composition operators and in present.State.
type Store[S, A any] struct {
	mu      sync.Mutex
	state   S
	reducer Reducer[S, A]
	deps    Deps[A]
	subs    map[int]func(S)
	nextSub int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStore creates a store with the given initial state, reducer and
// dependency set.
func NewStore[S, A any](initial S, reducer Reducer[S, A], deps Deps[A]) *Store[S, A] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Store[S, A]{
		state:   initial,
		reducer: reducer,
		deps:    deps,
		subs:    make(map[int]func(S)),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// State returns the current state value.
func (s *Store[S, A]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies action through the reducer, notifies subscribers with
// the resulting state, and starts the returned effect on its own goroutine.
// Safe for concurrent use; applications are serialized in arrival order.
// After Close, Dispatch is a no-op.
func (s *Store[S, A]) Dispatch(action A) {
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	next, eff := s.reducer(s.state, action, s.deps)
	s.state = next
	subs := make([]func(S), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	if !effect.IsNone(eff) {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			effect.Perform(s.ctx, eff, s.Dispatch)
		}()
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

// Subscribe registers fn to observe every state produced by Dispatch. The
// returned function cancels the subscription.
//
// Notification runs outside the state lock, so under concurrent dispatches
// the states handed to fn may arrive out of application order. Subscribers
// that need the latest state re-read State() in the callback; the scoped
// handles built by ScopeCase and ScopeID do this.
func (s *Store[S, A]) Subscribe(fn func(S)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Close stops accepting dispatches and cancels the context handed to
// in-flight effect tasks. Effects already running drain on their own; use
// Wait to block for them.
func (s *Store[S, A]) Close() {
	s.cancel()
}

// Wait blocks until every effect started so far has finished dispatching.
func (s *Store[S, A]) Wait() {
	s.wg.Wait()
}
