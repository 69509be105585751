package opportunity

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"arbitrage-scanner/internal/domain"
)

var ErrUnknownColumn = errors.New("unknown column")

type valueClass int

const (
	classNumber valueClass = iota
	classText
	classPlaceholder
)

type sortValue struct {
	class valueClass
	num   float64
	text  string
}

func classify(s string) sortValue {
	if strings.TrimSpace(s) == "" || s == domain.Placeholder {
		return sortValue{class: classPlaceholder, text: s}
	}
	if f, ok := ParseNumber(s); ok {
		return sortValue{class: classNumber, num: f, text: s}
	}
	return sortValue{class: classText, text: s}
}

// Compare orders two cell values ascending. Two numbers compare numerically,
// anything else compares as text, and numbers rank before text.
// Placeholders are not handled here; see Sort.
func Compare(a, b string) int {
	return compareValues(classify(a), classify(b))
}

func compareValues(a, b sortValue) int {
	if a.class == classNumber && b.class == classNumber {
		return cmp.Compare(a.num, b.num)
	}
	if a.class != b.class {
		return cmp.Compare(a.class, b.class)
	}
	return strings.Compare(a.text, b.text)
}

// Sort returns a stably sorted copy of rows ordered by key. Placeholders
// always go last, whichever the direction.
func Sort(rows []domain.Row, key string, dir domain.Direction) ([]domain.Row, error) {
	if !domain.IsRowKey(key) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}

	type keyed struct {
		row domain.Row
		val sortValue
	}
	items := make([]keyed, len(rows))
	for i, r := range rows {
		v, _ := r.Field(key)
		items[i] = keyed{row: r, val: classify(v)}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		ap := a.val.class == classPlaceholder
		bp := b.val.class == classPlaceholder
		switch {
		case ap && bp:
			return 0
		case ap:
			return 1
		case bp:
			return -1
		}
		c := compareValues(a.val, b.val)
		if dir == domain.Descending {
			return -c
		}
		return c
	})

	out := make([]domain.Row, len(items))
	for i, it := range items {
		out[i] = it.row
	}
	return out, nil
}

// SortState is the active sort column and direction of one table view.
type SortState struct {
	Key       string           `json:"key"`
	Direction domain.Direction `json:"direction"`
}

// NewSortState starts on the first column, descending.
func NewSortState() SortState {
	return SortState{Key: domain.Columns[0].Key, Direction: domain.Descending}
}

// Toggle applies a user sort action on key: the active column flips direction,
// any other column becomes active with descending order.
func (s SortState) Toggle(key string) (SortState, error) {
	if !domain.IsRowKey(key) {
		return s, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}
	if s.Key == key {
		return SortState{Key: key, Direction: s.Direction.Reverse()}, nil
	}
	return SortState{Key: key, Direction: domain.Descending}, nil
}

// Apply sorts rows with the state.
func (s SortState) Apply(rows []domain.Row) ([]domain.Row, error) {
	return Sort(rows, s.Key, s.Direction)
}

// View is the full projection used by every surface: filter, then sort.
func View(rows []domain.Row, c domain.FilterCriteria, s SortState) ([]domain.Row, error) {
	return s.Apply(Filter(rows, c))
}
