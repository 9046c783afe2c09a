package api

import (
	"time"

	"github.com/cutroom/cutroom-agent/internal/catalog"
	"github.com/cutroom/cutroom-agent/internal/project"
	"github.com/cutroom/cutroom-agent/internal/session"
	"github.com/cutroom/cutroom-agent/internal/timeline"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeS  int64  `json:"uptime_s"`
	DeviceID string `json:"device_id"`
}

type StatusResponse struct {
	State         string `json:"state"`
	ProjectsCount int    `json:"projects_count"`
	AssetsCount   int    `json:"assets_count"`
	FoldersCount  int    `json:"folders_count"`
}

type CreateProjectRequest struct {
	Name   string `json:"name"`
	Preset string `json:"preset,omitempty"`
}

type ProjectResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

func ProjectToResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

// EditResponse is the committed state after any timeline command: the caller
// can detect "nothing happened" from changed plus the unchanged history
// counters.
type EditResponse struct {
	Changed      bool               `json:"changed"`
	Timeline     *timeline.Timeline `json:"timeline"`
	Selection    []string           `json:"selection"`
	HistoryLen   int                `json:"history_len"`
	HistoryIndex int                `json:"history_index"`
}

func ResultToResponse(r *session.Result) EditResponse {
	return EditResponse{
		Changed:      r.Changed,
		Timeline:     r.Timeline,
		Selection:    r.Selection,
		HistoryLen:   r.HistoryLen,
		HistoryIndex: r.HistoryIndex,
	}
}

type SetTimelineRequest struct {
	Timeline *timeline.Timeline `json:"timeline"`
}

type AddClipRequest struct {
	Clip timeline.Clip `json:"clip"`
}

type UpdateClipColorRequest struct {
	Color *string `json:"color"`
}

type SplitClipRequest struct {
	At float64 `json:"at"`
}

type ReorderClipsRequest struct {
	IDs []string `json:"ids"`
}

type SelectClipRequest struct {
	ID       string `json:"id"`
	Additive bool   `json:"additive,omitempty"`
}

type AddFolderRequest struct {
	Path        string `json:"path"`
	DisplayName string `json:"display_name,omitempty"`
}

type AddFolderResponse struct {
	FolderID string `json:"folder_id"`
	Imported int    `json:"imported"`
}

type FolderResponse struct {
	ID          string `json:"id"`
	Path        string `json:"path"`
	DisplayName string `json:"display_name"`
	Present     bool   `json:"present"`
	CreatedAt   string `json:"created_at"`
}

type FoldersResponse struct {
	Folders []FolderResponse `json:"folders"`
}

func FolderToResponse(f *catalog.Folder) FolderResponse {
	return FolderResponse{
		ID:          f.ID,
		Path:        f.Path,
		DisplayName: f.DisplayName,
		Present:     f.Present,
		CreatedAt:   f.CreatedAt.Format(time.RFC3339),
	}
}

type AssetResponse struct {
	ID        string   `json:"id"`
	FolderID  string   `json:"folder_id"`
	Path      string   `json:"path"`
	Filename  string   `json:"filename"`
	Mime      string   `json:"mime"`
	Size      int64    `json:"size"`
	DurationS *float64 `json:"duration_s,omitempty"`
	CreatedAt string   `json:"created_at"`
}

type AssetsResponse struct {
	Assets []AssetResponse `json:"assets"`
}

func AssetToResponse(a *catalog.Asset) AssetResponse {
	return AssetResponse{
		ID:        a.ID,
		FolderID:  a.FolderID,
		Path:      a.Path,
		Filename:  a.Filename,
		Mime:      a.Mime,
		Size:      a.Size,
		DurationS: a.DurationS,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

type SetAssetDurationRequest struct {
	DurationS float64 `json:"duration_s"`
}

type PresetsResponse struct {
	Presets []PresetResponse `json:"presets"`
}

type PresetResponse struct {
	Name    string  `json:"name"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	FPS     float64 `json:"fps"`
	Bitrate int     `json:"bitrate"`
	Format  string  `json:"format"`
}
