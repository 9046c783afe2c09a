package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/cutroom/cutroom-agent/internal/export"
)

func exportEDLHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")

		var req export.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if err := export.ValidateOutputDir(req.OutputDir); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		res, err := cfg.Sessions.State(r.Context(), projectID)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		title := export.SanitizeName(req.Title, 120)
		if title == "" {
			if p, err := cfg.Projects.GetProject(r.Context(), projectID); err == nil && p != nil {
				title = export.SanitizeName(p.Name, 120)
			}
		}
		if title == "" {
			title = "cutroom_export"
		}

		frameRate := req.FrameRate
		if frameRate <= 0 {
			frameRate = res.Timeline.Output.FPS
		}
		if frameRate <= 0 {
			frameRate = 30
		}

		resolved, unresolved, err := export.ResolveTimeline(r.Context(), res.Timeline, cfg.Assets)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if len(resolved) == 0 {
			WriteError(w, http.StatusUnprocessableEntity, "no clips could be resolved", "NO_CLIPS")
			return
		}

		edl := export.GenerateEDL(resolved, title, frameRate)
		outputPath := filepath.Join(req.OutputDir, title+".edl")
		if err := os.WriteFile(outputPath, []byte(edl), 0o644); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to write EDL file", "INTERNAL_ERROR")
			return
		}

		cfg.Logger.Info("EDL exported",
			"project_id", projectID,
			"path", outputPath,
			"clips", len(resolved),
			"unresolved", len(unresolved))

		WriteJSON(w, http.StatusOK, export.Response{
			Status:          "completed",
			Format:          "edl",
			OutputPath:      outputPath,
			ClipCount:       len(resolved),
			UnresolvedClips: unresolved,
		})
	}
}
