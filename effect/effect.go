// Package effect describes side effects as inert data.
//
// An Effect never executes itself. Reducers return effects; a single outer
// runtime interprets them with Perform and funnels any resulting actions
// back through its own dispatch. This keeps reducers pure and makes every
// effect inspectable and composable before anything runs.
package effect

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Effect is a description of asynchronous work that may dispatch zero or
// more actions of type A. A nil Effect is equivalent to None.
//
// The concrete node set is sealed: None, Run, Batch, Sequence, Map,
// TimedDispatch and the self-dismiss sentinel. Perform is the only
// interpreter.
type Effect[A any] interface {
	isEffect(A)
}

type noneEffect[A any] struct{}

type runEffect[A any] struct {
	task func(ctx context.Context, send func(A))
}

type batchEffect[A any] struct {
	members []Effect[A]
}

type sequenceEffect[A any] struct {
	members []Effect[A]
}

type timedEffect[A any] struct {
	delay  time.Duration
	action A
}

// dismissEffect is the self-dismiss sentinel. It carries no address: the
// nearest enclosing presentation wrapper consumes it (MapHandlingDismiss)
// and turns it into that slot's dismiss envelope. Plain Map passes it
// through unchanged so a deeply nested child's dismiss still reaches the
// nearest presenting ancestor.
type dismissEffect[A any] struct {
	cleanup func(ctx context.Context)
}

func (noneEffect[A]) isEffect(A)     {}
func (runEffect[A]) isEffect(A)      {}
func (batchEffect[A]) isEffect(A)    {}
func (sequenceEffect[A]) isEffect(A) {}
func (timedEffect[A]) isEffect(A)    {}
func (dismissEffect[A]) isEffect(A)  {}

// None returns an effect that dispatches nothing.
func None[A any]() Effect[A] { return noneEffect[A]{} }

// IsNone reports whether e dispatches nothing. Nil counts as none.
func IsNone[A any](e Effect[A]) bool {
	if e == nil {
		return true
	}
	_, ok := e.(noneEffect[A])
	return ok
}

// Run wraps an asynchronous task. The task receives a send callback and may
// invoke it zero or more times before returning. Failures inside the task
// are the task's own responsibility; there is no implicit recover.
func Run[A any](task func(ctx context.Context, send func(A))) Effect[A] {
	return runEffect[A]{task: task}
}

// Batch combines effects that should run together. Members execute
// concurrently; no relative ordering is guaranteed between them. Nil and
// None members are dropped.
func Batch[A any](effects ...Effect[A]) Effect[A] {
	members := make([]Effect[A], 0, len(effects))
	for _, e := range effects {
		if IsNone(e) {
			continue
		}
		if b, ok := e.(batchEffect[A]); ok {
			members = append(members, b.members...)
			continue
		}
		members = append(members, e)
	}
	switch len(members) {
	case 0:
		return noneEffect[A]{}
	case 1:
		return members[0]
	default:
		return batchEffect[A]{members: members}
	}
}

// Sequence runs effects one after another, each starting only once the
// previous one has finished dispatching. Ordering holds even for members
// that are themselves concurrent batches. A sequence is a node of its own,
// not a pre-baked task: Map and MapHandlingDismiss recurse into its members,
// so a dismiss sentinel inside a sequence still reaches the nearest
// presentation wrapper.
func Sequence[A any](effects ...Effect[A]) Effect[A] {
	members := make([]Effect[A], 0, len(effects))
	for _, e := range effects {
		if IsNone(e) {
			continue
		}
		members = append(members, e)
	}
	switch len(members) {
	case 0:
		return noneEffect[A]{}
	case 1:
		return members[0]
	default:
		return sequenceEffect[A]{members: members}
	}
}

// TimedDispatch schedules action to be dispatched after delay. Panics if
// delay is negative; that is a programmer error, caught at construction.
func TimedDispatch[A any](delay time.Duration, action A) Effect[A] {
	if delay < 0 {
		panic(fmt.Sprintf("effect: TimedDispatch delay must not be negative, got %v", delay))
	}
	return timedEffect[A]{delay: delay, action: action}
}

// Map rewrites every action dispatched by e through transform. This is how
// a child feature's effect learns to speak its parent's action vocabulary.
//
// The self-dismiss sentinel is preserved unchanged: addressing a dismissal
// is the job of the nearest presentation wrapper, not of plain mapping.
func Map[A, B any](e Effect[A], transform func(A) B) Effect[B] {
	switch n := e.(type) {
	case nil, noneEffect[A]:
		return noneEffect[B]{}
	case runEffect[A]:
		return runEffect[B]{task: func(ctx context.Context, send func(B)) {
			n.task(ctx, func(a A) { send(transform(a)) })
		}}
	case batchEffect[A]:
		members := make([]Effect[B], len(n.members))
		for i, m := range n.members {
			members[i] = Map(m, transform)
		}
		return batchEffect[B]{members: members}
	case sequenceEffect[A]:
		members := make([]Effect[B], len(n.members))
		for i, m := range n.members {
			members[i] = Map(m, transform)
		}
		return sequenceEffect[B]{members: members}
	case timedEffect[A]:
		return timedEffect[B]{delay: n.delay, action: transform(n.action)}
	case dismissEffect[A]:
		return dismissEffect[B]{cleanup: n.cleanup}
	default:
		return noneEffect[B]{}
	}
}

// SelfDismiss returns the dismiss sentinel: an effect that, once it reaches
// the nearest enclosing presentation wrapper, dispatches that slot's
// dismiss envelope. Outside any presentation it is a no-op.
func SelfDismiss[A any]() Effect[A] {
	return dismissEffect[A]{}
}

// SelfDismissAfter is SelfDismiss preceded by an asynchronous cleanup task.
// The dismissal is never observable before cleanup has returned.
func SelfDismissAfter[A any](cleanup func(ctx context.Context)) Effect[A] {
	return dismissEffect[A]{cleanup: cleanup}
}

// MapHandlingDismiss is Map plus sentinel consumption: any self-dismiss in
// e becomes a dispatch of onDismiss (after the sentinel's cleanup has run).
// Presentation wrappers use this to give the sentinel its address.
func MapHandlingDismiss[A, B any](e Effect[A], transform func(A) B, onDismiss B) Effect[B] {
	switch n := e.(type) {
	case nil, noneEffect[A]:
		return noneEffect[B]{}
	case runEffect[A]:
		return runEffect[B]{task: func(ctx context.Context, send func(B)) {
			n.task(ctx, func(a A) { send(transform(a)) })
		}}
	case batchEffect[A]:
		members := make([]Effect[B], len(n.members))
		for i, m := range n.members {
			members[i] = MapHandlingDismiss(m, transform, onDismiss)
		}
		return batchEffect[B]{members: members}
	case sequenceEffect[A]:
		members := make([]Effect[B], len(n.members))
		for i, m := range n.members {
			members[i] = MapHandlingDismiss(m, transform, onDismiss)
		}
		return sequenceEffect[B]{members: members}
	case timedEffect[A]:
		return timedEffect[B]{delay: n.delay, action: transform(n.action)}
	case dismissEffect[A]:
		return runEffect[B]{task: func(ctx context.Context, send func(B)) {
			if n.cleanup != nil {
				n.cleanup(ctx)
			}
			send(onDismiss)
		}}
	default:
		return noneEffect[B]{}
	}
}

// Perform interprets e, blocking until every dispatched action has been
// handed to send. Batch members each run on their own goroutine; ordering
// is only guaranteed within one member's own sequential code. A sentinel
// that was never consumed by a presentation wrapper runs its cleanup and
// dispatches nothing.
func Perform[A any](ctx context.Context, e Effect[A], send func(A)) {
	switch n := e.(type) {
	case nil, noneEffect[A]:
	case runEffect[A]:
		n.task(ctx, send)
	case batchEffect[A]:
		var wg sync.WaitGroup
		for _, m := range n.members {
			wg.Add(1)
			go func(m Effect[A]) {
				defer wg.Done()
				Perform(ctx, m, send)
			}(m)
		}
		wg.Wait()
	case sequenceEffect[A]:
		for _, m := range n.members {
			Perform(ctx, m, send)
		}
	case timedEffect[A]:
		t := time.NewTimer(n.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
			send(n.action)
		}
	case dismissEffect[A]:
		if n.cleanup != nil {
			n.cleanup(ctx)
		}
	}
}
