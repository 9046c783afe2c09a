package timeline

import (
	"encoding/json"

	"github.com/google/uuid"
)

// The mutation engine. Every command takes a timeline value and returns the
// next timeline plus a changed flag; the input is never mutated. Commands
// never fail on malformed input: a missing id, an out-of-range number or a
// bad split point is a no-op or is corrected by normalization, so the engine
// stays responsive to fast, imprecise interactive input.

// ClipPatch is a partial update for a clip. Nil fields are left unchanged.
// Color is updated through UpdateClipColor, which can also remove it.
type ClipPatch struct {
	AssetID        *string         `json:"asset_id,omitempty"`
	Start          *float64        `json:"start,omitempty"`
	End            *float64        `json:"end,omitempty"`
	SourceDuration *float64        `json:"source_duration,omitempty"`
	Position       *float64        `json:"position,omitempty"`
	Track          *int            `json:"track,omitempty"`
	Transition     *Transition     `json:"transition_to_next,omitempty"`
	Crop           json.RawMessage `json:"crop,omitempty"`
}

// AddClip appends the normalized clip unless a clip with the same id already
// exists, in which case the call is a no-op (set semantics keyed by id, first
// write wins). An empty id gets a generated one.
func AddClip(t *Timeline, c Clip) (*Timeline, bool) {
	if c.ID == "" {
		c.ID = NewClipID()
	}
	if t.IndexOf(c.ID) >= 0 {
		return t, false
	}
	next := t.Clone()
	next.Clips = append(next.Clips, Normalize(c.Clone()))
	return next, true
}

// UpdateClip merges the patch into the clip with the given id and re-runs
// the full normalization pipeline. Missing id is a no-op.
func UpdateClip(t *Timeline, id string, p ClipPatch) (*Timeline, bool) {
	i := t.IndexOf(id)
	if i < 0 {
		return t, false
	}
	next := t.Clone()
	c := next.Clips[i]
	if p.AssetID != nil {
		c.AssetID = *p.AssetID
	}
	if p.Start != nil {
		c.Start = *p.Start
	}
	if p.End != nil {
		c.End = *p.End
	}
	if p.SourceDuration != nil {
		sd := *p.SourceDuration
		c.SourceDuration = &sd
	}
	if p.Position != nil {
		c.Position = *p.Position
	}
	if p.Track != nil {
		c.Track = *p.Track
	}
	if p.Transition != nil {
		c.Transition = *p.Transition
	}
	if p.Crop != nil {
		c.Crop = append(json.RawMessage(nil), p.Crop...)
	}
	next.Clips[i] = Normalize(c)
	return next, true
}

// UpdateClipColor sets the clip's display color, or removes it when color is
// nil. Missing id is a no-op.
func UpdateClipColor(t *Timeline, id string, color *string) (*Timeline, bool) {
	i := t.IndexOf(id)
	if i < 0 {
		return t, false
	}
	next := t.Clone()
	if color == nil {
		next.Clips[i].Color = ""
	} else {
		next.Clips[i].Color = *color
	}
	return next, true
}

// RemoveClip deletes the clip with the given id. Missing id is a no-op.
func RemoveClip(t *Timeline, id string) (*Timeline, bool) {
	i := t.IndexOf(id)
	if i < 0 {
		return t, false
	}
	next := t.Clone()
	next.Clips = append(next.Clips[:i], next.Clips[i+1:]...)
	return next, true
}

// DuplicateClip copies the clip with the given id: the duplicate gets a fresh
// id, a position immediately abutting the original, a reset transition, and
// is inserted right after the original in the clip sequence. It returns the
// duplicate's id. Missing id is a no-op.
func DuplicateClip(t *Timeline, id string) (*Timeline, string, bool) {
	i := t.IndexOf(id)
	if i < 0 {
		return t, "", false
	}
	next := t.Clone()
	orig := next.Clips[i]

	dup := orig.Clone()
	dup.ID = NewClipID()
	dup.Position = orig.Position + orig.Duration()
	dup.Transition = NoTransition()

	next.Clips = append(next.Clips, Clip{})
	copy(next.Clips[i+2:], next.Clips[i+1:])
	next.Clips[i+1] = dup
	return next, dup.ID, true
}

// SplitClipAt divides the clip into two contiguous clips at source time at.
// The first segment keeps the original id with its transition severed; the
// second gets a fresh id, a position advanced by the first segment's length,
// and inherits the original transition. The split point must be strictly
// interior and both segments must satisfy the minimum duration, otherwise
// the whole split is rejected as a no-op.
func SplitClipAt(t *Timeline, id string, at float64) (*Timeline, bool) {
	i := t.IndexOf(id)
	if i < 0 {
		return t, false
	}
	orig := t.Clips[i]
	if at <= orig.Start || at >= orig.End {
		return t, false
	}
	if at-orig.Start < MinClipDuration || orig.End-at < MinClipDuration {
		return t, false
	}

	next := t.Clone()
	first := next.Clips[i]
	second := first.Clone()

	first.End = at
	first.Transition = NoTransition()

	second.ID = NewClipID()
	second.Start = at
	second.Position = orig.Position + (at - orig.Start)

	next.Clips[i] = first
	next.Clips = append(next.Clips, Clip{})
	copy(next.Clips[i+2:], next.Clips[i+1:])
	next.Clips[i+1] = second
	return next, true
}

// ReorderClips rebuilds the clip sequence to contain exactly the clips whose
// id appears in orderedIDs, in that order. Ids that do not match an existing
// clip are ignored; existing clips omitted from orderedIDs are dropped. This
// is a full replace-and-prune, so callers must pass the complete desired id
// set. A repeated id keeps its first occurrence.
func ReorderClips(t *Timeline, orderedIDs []string) (*Timeline, bool) {
	next := t.Clone()
	reordered := make([]Clip, 0, len(next.Clips))
	taken := make(map[string]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, dup := taken[id]; dup {
			continue
		}
		if i := next.IndexOf(id); i >= 0 {
			reordered = append(reordered, next.Clips[i])
			taken[id] = struct{}{}
		}
	}
	next.Clips = reordered
	if sameOrder(t.Clips, reordered) {
		return t, false
	}
	return next, true
}

func sameOrder(a, b []Clip) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// NewClipID returns a fresh clip id.
func NewClipID() string {
	return uuid.NewString()
}
