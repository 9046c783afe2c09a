package timeline

// Editor owns the (Timeline, Selection, History) triple and exposes the
// command surface. It is single-threaded: every command runs to completion
// (validate, normalize, diff, possibly snapshot) before the caller regains
// control, and either fully commits or fully no-ops. Mutating commands report
// whether anything changed; a false return means history and index are
// untouched.
type Editor struct {
	timeline  *Timeline
	selection Selection
	history   *History
}

// NewEditor returns an editor with no timeline loaded. Commands are no-ops
// until SetTimeline seeds one.
func NewEditor() *Editor {
	return &Editor{selection: NewSelection()}
}

// SetTimeline replaces the live timeline, resets history to a single entry
// (the initial state) and clears the selection. Passing nil discards the
// editor state entirely. Seeded clips go through the same validation as any
// other entry point: each clip is normalized, empty ids get generated ones,
// and duplicate ids keep their first occurrence.
func (e *Editor) SetTimeline(t *Timeline) {
	e.selection = NewSelection()
	if t == nil {
		e.timeline = nil
		e.history = nil
		return
	}

	next := t.Clone()
	clips := make([]Clip, 0, len(next.Clips))
	seen := make(map[string]struct{}, len(next.Clips))
	for _, c := range next.Clips {
		if c.ID == "" {
			c.ID = NewClipID()
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		clips = append(clips, Normalize(c))
	}
	next.Clips = clips

	e.timeline = next
	e.history = NewHistory(e.timeline)
}

// Timeline returns a copy of the committed timeline, or nil when none is
// loaded. Callers get a copy so nothing outside the editor can invalidate a
// committed state.
func (e *Editor) Timeline() *Timeline {
	if e.timeline == nil {
		return nil
	}
	return e.timeline.Clone()
}

// Selection returns the selected clip ids in sorted order.
func (e *Editor) Selection() []string {
	return e.selection.IDs()
}

// HistoryLen returns the number of history snapshots (0 when no timeline is
// loaded).
func (e *Editor) HistoryLen() int {
	if e.history == nil {
		return 0
	}
	return e.history.Len()
}

// HistoryIndex returns the committed snapshot index (-1 when no timeline is
// loaded).
func (e *Editor) HistoryIndex() int {
	if e.history == nil {
		return -1
	}
	return e.history.Index()
}

// AddClip appends a normalized clip unless its id is already taken.
func (e *Editor) AddClip(c Clip) bool {
	if e.timeline == nil {
		return false
	}
	next, changed := AddClip(e.timeline, c)
	return e.commit(next, changed)
}

// UpdateClip merges a patch into the clip and re-normalizes it.
func (e *Editor) UpdateClip(id string, p ClipPatch) bool {
	if e.timeline == nil {
		return false
	}
	next, changed := UpdateClip(e.timeline, id, p)
	return e.commit(next, changed)
}

// UpdateClipColor sets or removes (nil) the clip's display color.
func (e *Editor) UpdateClipColor(id string, color *string) bool {
	if e.timeline == nil {
		return false
	}
	next, changed := UpdateClipColor(e.timeline, id, color)
	return e.commit(next, changed)
}

// RemoveClip deletes the clip and deselects it in the same committed
// transition.
func (e *Editor) RemoveClip(id string) bool {
	if e.timeline == nil {
		return false
	}
	next, changed := RemoveClip(e.timeline, id)
	if !e.commit(next, changed) {
		return false
	}
	delete(e.selection, id)
	return true
}

// DuplicateClip copies the clip and replaces the selection with exactly the
// duplicate's id.
func (e *Editor) DuplicateClip(id string) bool {
	if e.timeline == nil {
		return false
	}
	next, dupID, changed := DuplicateClip(e.timeline, id)
	if !e.commit(next, changed) {
		return false
	}
	e.selection = NewSelection()
	e.selection[dupID] = struct{}{}
	return true
}

// SplitClipAt divides the clip at an interior source time. Non-interior
// points and splits that would violate the minimum duration are no-ops.
func (e *Editor) SplitClipAt(id string, at float64) bool {
	if e.timeline == nil {
		return false
	}
	next, changed := SplitClipAt(e.timeline, id, at)
	return e.commit(next, changed)
}

// ReorderClips rebuilds the clip sequence from orderedIDs (replace-and-prune
// semantics). Ids pruned from the timeline also leave the selection.
func (e *Editor) ReorderClips(orderedIDs []string) bool {
	if e.timeline == nil {
		return false
	}
	next, changed := ReorderClips(e.timeline, orderedIDs)
	if !e.commit(next, changed) {
		return false
	}
	e.pruneSelection()
	return true
}

// SelectClip updates the selection: non-additive replaces it with {id},
// additive toggles the id's membership. Unknown ids are no-ops. Selection
// changes never touch history.
func (e *Editor) SelectClip(id string, additive bool) bool {
	if e.timeline == nil || e.timeline.IndexOf(id) < 0 {
		return false
	}
	if !additive {
		e.selection = NewSelection()
		e.selection[id] = struct{}{}
		return true
	}
	if e.selection.Has(id) {
		delete(e.selection, id)
	} else {
		e.selection[id] = struct{}{}
	}
	return true
}

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() {
	e.selection = NewSelection()
}

// Undo steps back one history entry and replaces the live timeline with it.
// No-op at the lower bound.
func (e *Editor) Undo() bool {
	if e.history == nil {
		return false
	}
	t, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.timeline = t
	e.pruneSelection()
	return true
}

// Redo steps forward one history entry. No-op at the upper bound.
func (e *Editor) Redo() bool {
	if e.history == nil {
		return false
	}
	t, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.timeline = t
	e.pruneSelection()
	return true
}

// commit installs the next timeline and records a snapshot, unless the
// command reported no change or the result is structurally identical to the
// committed state.
func (e *Editor) commit(next *Timeline, changed bool) bool {
	if !changed || next.Equal(e.timeline) {
		return false
	}
	e.timeline = next
	e.history.Record(next)
	return true
}

// pruneSelection drops selected ids that no longer resolve to a clip.
func (e *Editor) pruneSelection() {
	for id := range e.selection {
		if e.timeline == nil || e.timeline.IndexOf(id) < 0 {
			delete(e.selection, id)
		}
	}
}
