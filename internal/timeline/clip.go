// Package timeline implements the in-memory timeline editing engine:
// the clip model, the mutation commands that keep a timeline valid under
// arbitrary user input, and the bounded undo/redo history.
package timeline

import (
	"bytes"
	"encoding/json"
	"math"
)

const (
	// MinClipDuration is the lower bound on End-Start for any clip, in seconds.
	MinClipDuration = 0.1

	// MaxHistory bounds the undo/redo stack. When a new snapshot would exceed
	// it, the oldest entry is evicted.
	MaxHistory = 50
)

const (
	TransitionNone = "none"
	TransitionFade = "fade"
)

// Transition describes the effect applied when the next clip (by timeline
// adjacency) begins.
type Transition struct {
	Type     string  `json:"type"`
	Duration float64 `json:"duration"`
}

// NoTransition is the zero transition a cut or a fresh duplicate gets.
func NoTransition() Transition {
	return Transition{Type: TransitionNone, Duration: 0}
}

// Clip is a trimmed, placed reference to a media asset. Start and End are
// source-relative trim points in seconds; Position is the offset on the
// timeline where the clip begins playing.
type Clip struct {
	ID             string          `json:"id"`
	AssetID        string          `json:"asset_id"`
	Start          float64         `json:"start"`
	End            float64         `json:"end"`
	SourceDuration *float64        `json:"source_duration,omitempty"`
	Position       float64         `json:"position"`
	Track          int             `json:"track"`
	Color          string          `json:"color,omitempty"`
	Transition     Transition      `json:"transition_to_next"`
	Crop           json.RawMessage `json:"crop,omitempty"`
}

// Duration returns the trimmed length of the clip in seconds.
func (c Clip) Duration() float64 {
	return c.End - c.Start
}

// Clone returns a deep copy of the clip.
func (c Clip) Clone() Clip {
	out := c
	if c.SourceDuration != nil {
		sd := *c.SourceDuration
		out.SourceDuration = &sd
	}
	if c.Crop != nil {
		out.Crop = append(json.RawMessage(nil), c.Crop...)
	}
	return out
}

// Equal reports structural equality between two clips.
func (c Clip) Equal(other Clip) bool {
	if c.ID != other.ID || c.AssetID != other.AssetID ||
		c.Start != other.Start || c.End != other.End ||
		c.Position != other.Position || c.Track != other.Track ||
		c.Color != other.Color || c.Transition != other.Transition {
		return false
	}
	if (c.SourceDuration == nil) != (other.SourceDuration == nil) {
		return false
	}
	if c.SourceDuration != nil && *c.SourceDuration != *other.SourceDuration {
		return false
	}
	return bytes.Equal(c.Crop, other.Crop)
}

// Normalize applies the clip validation rules and returns the corrected clip.
// The rules apply uniformly on creation and on every update, so no caller can
// construct an invalid clip:
//
//  1. A SourceDuration that is not a finite non-negative number becomes nil
//     (unknown), never NaN.
//  2. A NaN or infinite Start becomes 0; a NaN End collapses onto Start so
//     the duration floor can reopen it. Trim arithmetic must always compare.
//  3. When SourceDuration is known, End is clamped into [0, SourceDuration]
//     first, then Start into [0, End].
//  4. A negative (or NaN) Position is clamped to 0.
//  5. If End-Start would fall below MinClipDuration, End is raised until the
//     difference reaches the floor. Start is never lowered by this rule.
func Normalize(c Clip) Clip {
	if c.SourceDuration != nil {
		sd := *c.SourceDuration
		if math.IsNaN(sd) || math.IsInf(sd, 0) || sd < 0 {
			c.SourceDuration = nil
		}
	}

	if math.IsNaN(c.Position) || c.Position < 0 {
		c.Position = 0
	}

	if math.IsNaN(c.Start) || math.IsInf(c.Start, 0) {
		c.Start = 0
	}
	if math.IsNaN(c.End) {
		c.End = c.Start
	}

	if c.SourceDuration != nil {
		sd := *c.SourceDuration
		c.End = clamp(c.End, 0, sd)
		c.Start = clamp(c.Start, 0, c.End)
	}

	if c.End-c.Start < MinClipDuration {
		c.End = c.Start + MinClipDuration
		// Start+MinClipDuration can round down to a sum whose difference from
		// Start is still short of the floor (e.g. Start=0.9). Nudge End up
		// until the difference itself clears it.
		for c.End-c.Start < MinClipDuration {
			c.End = math.Nextafter(c.End, math.Inf(1))
		}
	}

	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
