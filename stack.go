package loom

import "github.com/jask/loom/effect"

// ---------------------------------------------------------------------------
// Stack navigation
// ---------------------------------------------------------------------------

// Stack is an ordered sequence of screen states for a linear multi-screen
// flow, index-addressed and owned by value: frames never alias each other.
// Once rooted it stays non-empty; the root screen is never removable.
type Stack[T any] []T

// NewStack returns a stack rooted at root with the given screens above it.
func NewStack[T any](root T, rest ...T) Stack[T] {
	s := make(Stack[T], 0, 1+len(rest))
	s = append(s, root)
	return append(s, rest...)
}

// Len returns the number of screens on the stack.
func (s Stack[T]) Len() int { return len(s) }

// Top returns the topmost screen, or false for an unrooted (empty) stack.
func (s Stack[T]) Top() (T, bool) {
	if len(s) == 0 {
		var zero T
		return zero, false
	}
	return s[len(s)-1], true
}

// At returns the screen at index i, or false when i is out of range.
func (s Stack[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(s) {
		var zero T
		return zero, false
	}
	return s[i], true
}

// Push returns a new stack with screen appended.
func (s Stack[T]) Push(screen T) Stack[T] {
	next := make(Stack[T], len(s)+1)
	copy(next, s)
	next[len(s)] = screen
	return next
}

// Pop returns a new stack without the topmost screen. Popping a
// single-screen stack returns it unchanged: the root stays.
func (s Stack[T]) Pop() Stack[T] {
	if len(s) <= 1 {
		return s
	}
	next := make(Stack[T], len(s)-1)
	copy(next, s[:len(s)-1])
	return next
}

// PopToRoot returns a new stack truncated to the root screen.
func (s Stack[T]) PopToRoot() Stack[T] {
	if len(s) <= 1 {
		return s
	}
	return Stack[T]{s[0]}
}

// SetPath returns a stack holding exactly the given path.
func SetPath[T any](path ...T) Stack[T] {
	next := make(Stack[T], len(path))
	copy(next, path)
	return next
}

// ---------------------------------------------------------------------------
// Stack actions and routing
// ---------------------------------------------------------------------------

type stackOp int

const (
	stackPush stackOp = iota
	stackPop
	stackPopToRoot
	stackSetPath
	stackElement
)

// StackAction is the closed set of operations on a navigation stack:
// push, pop, popToRoot, setPath, and "screen action at index i".
type StackAction[T, CA any] struct {
	op     stackOp
	screen T
	path   []T
	index  int
	action CA
}

// PushScreen pushes a new screen.
func PushScreen[T, CA any](screen T) StackAction[T, CA] {
	return StackAction[T, CA]{op: stackPush, screen: screen}
}

// PopScreen removes the topmost screen (no-op at the root).
func PopScreen[T, CA any]() StackAction[T, CA] {
	return StackAction[T, CA]{op: stackPop}
}

// PopToRoot truncates the stack to its root screen.
func PopToRoot[T, CA any]() StackAction[T, CA] {
	return StackAction[T, CA]{op: stackPopToRoot}
}

// SetStackPath replaces the whole stack. An empty path is a no-op when
// handled: a rooted stack never goes back below one screen.
func SetStackPath[T, CA any](path ...T) StackAction[T, CA] {
	return StackAction[T, CA]{op: stackSetPath, path: path}
}

// ScreenAction addresses the screen at index with a child action.
func ScreenAction[T, CA any](index int, action CA) StackAction[T, CA] {
	return StackAction[T, CA]{op: stackElement, index: index, action: action}
}

// Element returns the index and child action for a screen action, or false
// for the structural operations.
func (a StackAction[T, CA]) Element() (int, CA, bool) {
	if a.op != stackElement {
		var zero CA
		return 0, zero, false
	}
	return a.index, a.action, true
}

// HandleStack embeds a navigation stack into a parent reducer. Structural
// operations apply directly; a screen action runs the screen reducer on
// stack[i] only, leaving every other index untouched, with the resulting
// effect mapped back to the same index. An out-of-range index (the screen
// was popped while the action was in flight) is a no-op.
func HandleStack[S, A, T, CA any](
	toStack func(A) (StackAction[T, CA], bool),
	fromStack func(StackAction[T, CA]) A,
	getStack func(S) Stack[T],
	setStack func(S, Stack[T]) S,
	screen Reducer[T, CA],
) Reducer[S, A] {
	return func(s S, a A, d Deps[A]) (S, effect.Effect[A]) {
		sa, ok := toStack(a)
		if !ok {
			return s, effect.None[A]()
		}
		stack := getStack(s)
		switch sa.op {
		case stackPush:
			return setStack(s, stack.Push(sa.screen)), effect.None[A]()
		case stackPop:
			return setStack(s, stack.Pop()), effect.None[A]()
		case stackPopToRoot:
			return setStack(s, stack.PopToRoot()), effect.None[A]()
		case stackSetPath:
			if len(sa.path) == 0 {
				return s, effect.None[A]()
			}
			return setStack(s, SetPath(sa.path...)), effect.None[A]()
		case stackElement:
			frame, ok := stack.At(sa.index)
			if !ok {
				return s, effect.None[A]()
			}
			next, ce := screen(frame, sa.action, childDeps[A, CA](d))
			updated := make(Stack[T], len(stack))
			copy(updated, stack)
			updated[sa.index] = next
			index := sa.index
			mapped := effect.Map(ce, func(c CA) A {
				return fromStack(ScreenAction[T, CA](index, c))
			})
			return setStack(s, updated), mapped
		default:
			return s, effect.None[A]()
		}
	}
}
