package timeline

import "sort"

// Output holds the render target settings for a timeline. Mutation commands
// carry it through unchanged; only an explicit timeline replace updates it.
type Output struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	FPS     float64 `json:"fps"`
	Bitrate int     `json:"bitrate"`
	Format  string  `json:"format"`
}

// Timeline is the aggregate root: the ordered clip sequence plus output
// settings for a project. Insertion order is the canonical z-order within a
// track.
type Timeline struct {
	ProjectID string `json:"project_id"`
	Clips     []Clip `json:"clips"`
	Output    Output `json:"output"`
}

// New returns an empty timeline for the given project.
func New(projectID string, output Output) *Timeline {
	return &Timeline{ProjectID: projectID, Output: output}
}

// Clone returns a deep copy of the timeline.
func (t *Timeline) Clone() *Timeline {
	out := &Timeline{ProjectID: t.ProjectID, Output: t.Output}
	if t.Clips != nil {
		out.Clips = make([]Clip, len(t.Clips))
		for i, c := range t.Clips {
			out.Clips[i] = c.Clone()
		}
	}
	return out
}

// Equal reports structural equality between two timelines. It is the diff
// the history controller uses to decide whether a command changed anything.
func (t *Timeline) Equal(other *Timeline) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.ProjectID != other.ProjectID || t.Output != other.Output {
		return false
	}
	if len(t.Clips) != len(other.Clips) {
		return false
	}
	for i := range t.Clips {
		if !t.Clips[i].Equal(other.Clips[i]) {
			return false
		}
	}
	return true
}

// IndexOf returns the position of the clip with the given id, or -1.
func (t *Timeline) IndexOf(id string) int {
	for i := range t.Clips {
		if t.Clips[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the clip with the given id, or false when absent.
func (t *Timeline) Find(id string) (Clip, bool) {
	if i := t.IndexOf(id); i >= 0 {
		return t.Clips[i], true
	}
	return Clip{}, false
}

// Selection is the set of clip ids in the user's current multi-select. It
// lives alongside the timeline, not inside it, and is never snapshotted into
// history.
type Selection map[string]struct{}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return make(Selection)
}

// Has reports whether the id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the selected ids in sorted order.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a copy of the selection.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}
