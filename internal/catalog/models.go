// Package catalog is the asset catalog: the registry of media files clips
// reference. It owns the file path, mime type and the authoritative source
// duration hint for each asset; the timeline engine treats asset ids as
// opaque and never validates them here.
package catalog

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Folder is a watched directory assets are imported from.
type Folder struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	DisplayName string    `json:"display_name"`
	Present     bool      `json:"present"`
	CreatedAt   time.Time `json:"created_at"`
}

// Asset is an importable media file. DurationS is the probed source duration
// in seconds; nil means unknown.
type Asset struct {
	ID          string    `json:"id"`
	FolderID    string    `json:"folder_id"`
	Path        string    `json:"path"`
	Filename    string    `json:"filename"`
	Mime        string    `json:"mime"`
	Size        int64     `json:"size"`
	DurationS   *float64  `json:"duration_s,omitempty"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}

var videoMimeByExt = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
}

// NewID returns a fresh catalog entity id.
func NewID() string {
	return uuid.NewString()
}

// IsVideoFile reports whether the filename has a recognized video extension.
func IsVideoFile(filename string) bool {
	_, ok := videoMimeByExt[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// MimeForFile returns the mime type for a recognized video filename, or an
// empty string.
func MimeForFile(filename string) string {
	return videoMimeByExt[strings.ToLower(filepath.Ext(filename))]
}
