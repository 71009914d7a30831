package loom

import "github.com/jask/loom/effect"

// IdentifiedItem is one element of an identified collection. IDs must be
// unique within the collection at any instant.
type IdentifiedItem[ID comparable, S any] struct {
	ID    ID
	State S
}

// IdentifiedAction addresses one element of an identified collection.
type IdentifiedAction[ID comparable, CA any] struct {
	ID     ID
	Action CA
}

// ForEach embeds an identified collection of child features into a parent
// reducer.
//
// An action addressing an id that is no longer in the collection (removed
// while the action was in flight) is a no-op, never an error. When the
// element is found, only that element is replaced; length, order, and every
// other element are preserved by value.
func ForEach[S, A any, ID comparable, CS, CA any](
	toChild func(A) (IdentifiedAction[ID, CA], bool),
	fromChild func(IdentifiedAction[ID, CA]) A,
	getItems func(S) []IdentifiedItem[ID, CS],
	setItems func(S, []IdentifiedItem[ID, CS]) S,
	child Reducer[CS, CA],
) Reducer[S, A] {
	return func(s S, a A, d Deps[A]) (S, effect.Effect[A]) {
		ia, ok := toChild(a)
		if !ok {
			return s, effect.None[A]()
		}
		items := getItems(s)
		idx := -1
		for i := range items {
			if items[i].ID == ia.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return s, effect.None[A]()
		}
		next, ce := child(items[idx].State, ia.Action, childDeps[A, CA](d))
		updated := make([]IdentifiedItem[ID, CS], len(items))
		copy(updated, items)
		updated[idx].State = next
		id := ia.ID
		mapped := effect.Map(ce, func(c CA) A {
			return fromChild(IdentifiedAction[ID, CA]{ID: id, Action: c})
		})
		return setItems(s, updated), mapped
	}
}
