package model

import (
	"fmt"
	"strings"
)

// Tab selects which status subset a list shows.
type Tab string

const (
	TabAll       Tab = "all"
	TabPending   Tab = "pending"
	TabCompleted Tab = "completed"
)

// DefaultTab is the tab selected on startup.
const DefaultTab = TabAll

// Tabs is the fixed, ordered set of tab options.
var Tabs = []Tab{TabAll, TabPending, TabCompleted}

// EmptyPlaceholder is shown instead of rows when a view has nothing to show.
const EmptyPlaceholder = "No todos found"

func ParseTab(s string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tabs {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want all, pending or completed)", ErrInvalidTab, s)
}

// Label is the trigger text for the tab.
func (t Tab) Label() string {
	switch t {
	case TabPending:
		return "Pending"
	case TabCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Matches reports whether todo belongs in this tab's view.
func (t Tab) Matches(todo Todo) bool {
	return t == TabAll || Status(t) == todo.Status
}

// Filter derives the view for tab from the full list, keeping order.
// It never modifies todos.
func Filter(todos []Todo, tab Tab) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if tab.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Next cycles forward through Tabs; Prev cycles backward.
func (t Tab) Next() Tab { return Tabs[(t.index()+1)%len(Tabs)] }
func (t Tab) Prev() Tab { return Tabs[(t.index()+len(Tabs)-1)%len(Tabs)] }

func (t Tab) index() int {
	for i, known := range Tabs {
		if known == t {
			return i
		}
	}
	return 0
}
