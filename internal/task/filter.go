package task

import (
	"fmt"
	"strings"
)

// Filter selects which tasks are visible.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ValidFilters lists the accepted filter names.
var ValidFilters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter converts user input into a Filter. Matching is
// case-insensitive and an empty string means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive:
		return FilterActive, nil
	case FilterCompleted:
		return FilterCompleted, nil
	}
	return "", NewError(KindInvalidInput, "parse filter", "",
		fmt.Sprintf("unknown filter %q: must be one of %v", s, ValidFilters))
}

// Matches reports whether t is visible under f. The zero Filter matches
// everything.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Apply returns the tasks visible under f, preserving relative order.
func Apply(f Filter, tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Stats are aggregate counts over an entire collection.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Active    int `json:"active"`
}

// ComputeStats counts over tasks. Callers pass the unfiltered collection.
func ComputeStats(tasks []Task) Stats {
	var s Stats
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Active++
		}
	}
	s.Total = s.Completed + s.Active
	return s
}

// String renders stats the way the CLI prints them.
func (s Stats) String() string {
	return fmt.Sprintf("%d total, %d active, %d completed", s.Total, s.Active, s.Completed)
}
