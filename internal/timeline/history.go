package timeline

// History is the bounded undo/redo stack: immutable timeline snapshots plus
// an index addressing the committed entry. New edits prune any redo branch;
// when the stack would exceed MaxHistory the oldest entry is evicted and the
// index slides down with it, so the oldest undoable state is lost silently
// rather than growing unbounded.
type History struct {
	entries []*Timeline
	index   int
}

// NewHistory returns a history seeded with a single snapshot of the initial
// timeline.
func NewHistory(initial *Timeline) *History {
	return &History{entries: []*Timeline{initial.Clone()}, index: 0}
}

// Record appends a snapshot of the timeline after a state-changing command,
// discarding any entries past the current index first.
func (h *History) Record(t *Timeline) {
	h.entries = append(h.entries[:h.index+1], t.Clone())
	h.index++
	if len(h.entries) > MaxHistory {
		h.entries = h.entries[1:]
		h.index--
	}
}

// Undo steps the index back and returns a copy of that snapshot. It reports
// false at the lower bound.
func (h *History) Undo() (*Timeline, bool) {
	if h.index <= 0 {
		return nil, false
	}
	h.index--
	return h.entries[h.index].Clone(), true
}

// Redo steps the index forward and returns a copy of that snapshot. It
// reports false at the upper bound.
func (h *History) Redo() (*Timeline, bool) {
	if h.index >= len(h.entries)-1 {
		return nil, false
	}
	h.index++
	return h.entries[h.index].Clone(), true
}

// Len returns the number of snapshots.
func (h *History) Len() int {
	return len(h.entries)
}

// Index returns the position of the committed snapshot.
func (h *History) Index() int {
	return h.index
}
