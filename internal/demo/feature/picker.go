package feature

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/loom"
	"github.com/jask/loom/effect"
)

// minPickerScore drops candidates that bear no resemblance to the query.
const minPickerScore = 0.2

// PickerCandidate is one selectable note.
type PickerCandidate struct {
	ID   string
	Body string
}

// PickerState is the fuzzy note picker: a query ranked against a snapshot
// of candidates taken when the picker opened.
type PickerState struct {
	Query      string
	Cursor     int
	Candidates []PickerCandidate
}

// Matches returns the candidates ranked against the query, best first.
// Substring hits rank above pure edit-distance similarity; candidates below
// the score floor are dropped. An empty query returns everything in order.
func (s PickerState) Matches() []PickerCandidate {
	if s.Query == "" {
		return s.Candidates
	}
	q := strings.ToLower(s.Query)
	type scored struct {
		candidate PickerCandidate
		score     float64
	}
	ranked := make([]scored, 0, len(s.Candidates))
	for _, c := range s.Candidates {
		body := strings.ToLower(c.Body)
		score := similarity(q, body)
		if strings.Contains(body, q) {
			score++
		}
		if score < minPickerScore {
			continue
		}
		ranked = append(ranked, scored{candidate: c, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	matches := make([]PickerCandidate, len(ranked))
	for i, r := range ranked {
		matches[i] = r.candidate
	}
	return matches
}

// Selected returns the candidate under the cursor, or false when the
// ranking is empty.
func (s PickerState) Selected() (PickerCandidate, bool) {
	matches := s.Matches()
	if len(matches) == 0 {
		return PickerCandidate{}, false
	}
	i := s.Cursor
	if i < 0 {
		i = 0
	}
	if i >= len(matches) {
		i = len(matches) - 1
	}
	return matches[i], true
}

func similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(max(len(a), len(b)))
}

// PickerSetQuery replaces the query and resets the cursor.
type PickerSetQuery struct{ Text string }

// PickerMove shifts the cursor by delta, clamped to the ranking.
type PickerMove struct{ Delta int }

// PickerChoose picks a note and dismisses the picker. The parent observes
// the choice through a case path.
type PickerChoose struct{ ID string }

func pickerReducer() loom.Reducer[PickerState, any] {
	return func(s PickerState, a any, d loom.Deps[any]) (PickerState, effect.Effect[any]) {
		switch act := a.(type) {
		case PickerSetQuery:
			s.Query = act.Text
			s.Cursor = 0
			return s, effect.None[any]()
		case PickerMove:
			matches := len(s.Matches())
			if matches == 0 {
				s.Cursor = 0
				return s, effect.None[any]()
			}
			s.Cursor += act.Delta
			if s.Cursor < 0 {
				s.Cursor = 0
			}
			if s.Cursor >= matches {
				s.Cursor = matches - 1
			}
			return s, effect.None[any]()
		case PickerChoose:
			return s, d.Dismiss()
		default:
			return s, effect.None[any]()
		}
	}
}

func candidatesFrom(items []loom.IdentifiedItem[string, RowState]) []PickerCandidate {
	candidates := make([]PickerCandidate, len(items))
	for i, item := range items {
		candidates[i] = PickerCandidate{ID: item.ID, Body: item.State.Body}
	}
	return candidates
}
