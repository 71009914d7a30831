package feature

import (
	"github.com/jask/loom"
	"github.com/jask/loom/effect"
)

// HelpPage is one screen of the help flow.
type HelpPage struct {
	Title    string
	Body     string
	Expanded bool
}

// HelpToggleExpand flips the current page between summary and full text.
type HelpToggleExpand struct{}

func helpPageReducer(s HelpPage, a any, d loom.Deps[any]) (HelpPage, effect.Effect[any]) {
	switch a.(type) {
	case HelpToggleExpand:
		s.Expanded = !s.Expanded
		return s, effect.None[any]()
	default:
		return s, effect.None[any]()
	}
}

func helpRootPage() HelpPage {
	return HelpPage{
		Title: "Help",
		Body:  "a: add  enter: edit  space: toggle  d: delete  /: find  s: settings  ?: more help  esc: back  q: quit",
	}
}

// HelpTopics returns the pages reachable from the root help screen.
func HelpTopics() []HelpPage {
	return []HelpPage{
		{
			Title: "Finding notes",
			Body:  "The picker ranks notes against your query by edit distance; substring hits rank first. Enter opens the selected note once the picker has closed.",
		},
		{
			Title: "Editing",
			Body:  "Saving persists the draft before the editor closes; cancel discards it. A failed save keeps the editor open with the error.",
		},
	}
}
