// Package export turns a committed timeline into interchange formats for
// external editors. Only CMX3600-style EDL is supported.
package export

// ResolvedClip is a timeline clip whose asset reference has been resolved to
// a media path, flattened to record order.
type ResolvedClip struct {
	ClipName  string
	MediaPath string
	StartMs   int
	EndMs     int
	Track     int
}

// Request addresses a project export.
type Request struct {
	Title     string  `json:"title,omitempty"`
	FrameRate float64 `json:"frame_rate,omitempty"`
	OutputDir string  `json:"output_dir"`
}

// Response reports the written export.
type Response struct {
	Status          string   `json:"status"`
	Format          string   `json:"format"`
	OutputPath      string   `json:"output_path"`
	ClipCount       int      `json:"clip_count"`
	UnresolvedClips []string `json:"unresolved_clips"`
}
