package tui

import "slices"

const historyLimit = 8

// PairHistory keeps the most recent pair lookups of one session, newest first.
type PairHistory struct {
	items []string
}

// Add moves pair to the front, dropping duplicates and anything past the limit.
func (h *PairHistory) Add(pair string) {
	if pair == "" {
		return
	}
	h.items = slices.DeleteFunc(h.items, func(p string) bool { return p == pair })
	h.items = slices.Insert(h.items, 0, pair)
	if len(h.items) > historyLimit {
		h.items = h.items[:historyLimit]
	}
}

func (h *PairHistory) Items() []string {
	return slices.Clone(h.items)
}

func (h *PairHistory) Clear() {
	h.items = nil
}
