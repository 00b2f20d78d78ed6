package todo

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownFilter = errors.New("unknown filter")

// Item is a single task in the list. Key is unique within a list.
type Item struct {
	Key      int64  `json:"key"`
	Text     string `json:"text"`
	Complete bool   `json:"complete"`
	Editing  bool   `json:"editing,omitempty"`
}

type Filter string

const (
	FilterAll       Filter = "ALL"
	FilterActive    Filter = "ACTIVE"
	FilterCompleted Filter = "COMPLETED"
)

func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToUpper(strings.TrimSpace(s))); f {
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// Next returns the mode after f in the ALL, ACTIVE, COMPLETED cycle.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterActive
	case FilterActive:
		return FilterCompleted
	default:
		return FilterAll
	}
}

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

// Apply returns the items matching mode in their original order. The result
// never shares a backing array with items. Unknown modes behave like ALL.
func Apply(mode Filter, items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		switch mode {
		case FilterActive:
			if it.Complete {
				continue
			}
		case FilterCompleted:
			if !it.Complete {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}
