package internal

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Todo struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"isCompleted"`
	Created     time.Time  `json:"created"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Filter selects which todos the list shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// GetAllFilters returns the filters in display order.
func GetAllFilters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

// ParseFilter accepts "all", "active" or "completed". An empty string is "all".
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("invalid filter %q (want all, active or completed)", s)
	}
}

// Next cycles all -> active -> completed -> all.
func (f Filter) Next() Filter {
	filters := GetAllFilters()
	for i, x := range filters {
		if x == f {
			return filters[(i+1)%len(filters)]
		}
	}
	return FilterAll
}

// Label is the button caption for f.
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

func (f Filter) Match(t Todo) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

func NewTodo(text string, now time.Time) *Todo {
	return &Todo{
		ID:      uuid.New().String(),
		Text:    strings.TrimSpace(text),
		Created: now,
	}
}

// SetCompleted records or clears the completion time along with the flag.
func (t *Todo) SetCompleted(done bool, now time.Time) {
	if t.Completed == done {
		return
	}
	t.Completed = done
	if done {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
}

// ShortID is the prefix shown in listings and accepted by Find.
func (t *Todo) ShortID() string {
	if len(t.ID) > 8 {
		return t.ID[:8]
	}
	return t.ID
}

func (t *Todo) DisplayCheckbox() string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}

// SortTodos orders active todos before completed ones, each group by
// creation time. The sort is stable.
func SortTodos(todos []Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		if todos[i].Completed != todos[j].Completed {
			return !todos[i].Completed
		}
		return todos[i].Created.Before(todos[j].Created)
	})
}

// FilterTodos returns the todos f matches, in order.
func FilterTodos(todos []Todo, f Filter) []Todo {
	var visible []Todo
	for _, t := range todos {
		if f.Match(t) {
			visible = append(visible, t)
		}
	}
	return visible
}

// CountActive returns how many todos are not completed.
func CountActive(todos []Todo) int {
	n := 0
	for _, t := range todos {
		if !t.Completed {
			n++
		}
	}
	return n
}

// ItemsLeftLabel renders "1 item left" / "N items left".
func ItemsLeftLabel(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}
