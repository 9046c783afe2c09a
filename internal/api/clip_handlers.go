package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cutroom/cutroom-agent/internal/timeline"
)

func addClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Clip.AssetID == "" {
			WriteError(w, http.StatusBadRequest, "clip.asset_id is required", "BAD_REQUEST")
			return
		}

		// The engine never fetches durations itself; resolve the catalog hint
		// here so trim clamping has a ceiling to work against.
		if req.Clip.SourceDuration == nil {
			if asset, err := cfg.Assets.GetAsset(r.Context(), req.Clip.AssetID); err == nil && asset != nil {
				req.Clip.SourceDuration = asset.DurationS
			}
		}

		applyCommand(w, r, cfg, func(e *timeline.Editor) bool {
			return e.AddClip(req.Clip)
		})
	}
}

func updateClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clipID := chi.URLParam(r, "clipID")

		var patch timeline.ClipPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		applyCommand(w, r, cfg, func(e *timeline.Editor) bool {
			return e.UpdateClip(clipID, patch)
		})
	}
}

func updateClipColorHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clipID := chi.URLParam(r, "clipID")

		var req UpdateClipColorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		applyCommand(w, r, cfg, func(e *timeline.Editor) bool {
			return e.UpdateClipColor(clipID, req.Color)
		})
	}
}

func removeClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clipID := chi.URLParam(r, "clipID")
		applyCommand(w, r, cfg, func(e *timeline.Editor) bool {
			return e.RemoveClip(clipID)
		})
	}
}

func duplicateClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clipID := chi.URLParam(r, "clipID")
		applyCommand(w, r, cfg, func(e *timeline.Editor) bool {
			return e.DuplicateClip(clipID)
		})
	}
}

func splitClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clipID := chi.URLParam(r, "clipID")

		var req SplitClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		applyCommand(w, r, cfg, func(e *timeline.Editor) bool {
			return e.SplitClipAt(clipID, req.At)
		})
	}
}

func reorderClipsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReorderClipsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.IDs == nil {
			WriteError(w, http.StatusBadRequest, "ids is required", "BAD_REQUEST")
			return
		}

		applyCommand(w, r, cfg, func(e *timeline.Editor) bool {
			return e.ReorderClips(req.IDs)
		})
	}
}
