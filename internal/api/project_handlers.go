package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cutroom/cutroom-agent/internal/config"
	"github.com/cutroom/cutroom-agent/internal/session"
	"github.com/cutroom/cutroom-agent/internal/timeline"
)

func createProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Name == "" {
			WriteError(w, http.StatusBadRequest, "name is required", "BAD_REQUEST")
			return
		}

		presetName := req.Preset
		if presetName == "" {
			presetName = cfg.DefaultPreset
		}
		preset, err := config.PresetByName(presetName)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		p, err := cfg.Projects.CreateProject(r.Context(), req.Name)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		if _, err := cfg.Sessions.SetTimeline(r.Context(), p.ID, timeline.New(p.ID, preset.Output())); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusCreated, ProjectToResponse(p))
	}
}

func listProjectsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := cfg.Projects.ListProjects(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list projects", "INTERNAL_ERROR")
			return
		}

		resp := ProjectsResponse{Projects: make([]ProjectResponse, len(projects))}
		for i, p := range projects {
			resp.Projects[i] = ProjectToResponse(p)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p, err := cfg.Projects.GetProject(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if p == nil {
			WriteError(w, http.StatusNotFound, "project not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, ProjectToResponse(p))
	}
}

func deleteProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := cfg.Projects.DeleteProject(r.Context(), id); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		cfg.Sessions.Evict(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func getTimelineHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		res, err := cfg.Sessions.State(r.Context(), id)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, ResultToResponse(res))
	}
}

func setTimelineHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req SetTimelineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		res, err := cfg.Sessions.SetTimeline(r.Context(), id, req.Timeline)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, ResultToResponse(res))
	}
}

func undoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applyCommand(w, r, cfg, func(e *timeline.Editor) bool { return e.Undo() })
	}
}

func redoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applyCommand(w, r, cfg, func(e *timeline.Editor) bool { return e.Redo() })
	}
}

func selectClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.ID == "" {
			WriteError(w, http.StatusBadRequest, "id is required", "BAD_REQUEST")
			return
		}
		applyCommand(w, r, cfg, func(e *timeline.Editor) bool {
			return e.SelectClip(req.ID, req.Additive)
		})
	}
}

// applyCommand routes one editor command through the session manager and
// writes the committed state.
func applyCommand(w http.ResponseWriter, r *http.Request, cfg ServerConfig, cmd func(*timeline.Editor) bool) {
	projectID := chi.URLParam(r, "id")
	res, err := cfg.Sessions.Apply(r.Context(), projectID, cmd)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, ResultToResponse(res))
}

func writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrProjectNotFound) {
		WriteError(w, http.StatusNotFound, "project not found", "NOT_FOUND")
		return
	}
	WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
}
