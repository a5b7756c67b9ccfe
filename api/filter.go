package api

import (
	"fmt"

	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
)

// Filter selects which drops a list contains.
type Filter string

const (
	FilterActive Filter = "active"
	FilterTrash  Filter = "trash"
	FilterAll    Filter = "all"
)

// ErrInvalidFilter represents an unknown filter name
const ErrInvalidFilter ErrorCode = "InvalidFilter"

// Filters returns every supported filter.
func Filters() []Filter {
	return []Filter{FilterActive, FilterTrash, FilterAll}
}

// ParseFilter validates s as a filter name.
func ParseFilter(s string) (Filter, error) {
	f := Filter(s)
	if !lo.Contains(Filters(), f) {
		return "", failure.New(ErrInvalidFilter,
			failure.Message(fmt.Sprintf("Unknown filter %q, expected one of active, trash, all", s)),
			failure.Context{"filter": s},
		)
	}
	return f, nil
}

func (f Filter) String() string {
	return string(f)
}
