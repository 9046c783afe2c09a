package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cutroom/cutroom-agent/internal/config"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Projects, cfg.Logger))

		r.Get("/status", statusHandler(cfg))
		r.Get("/presets", listPresetsHandler(cfg))

		r.Get("/projects", listProjectsHandler(cfg))
		r.Post("/projects", createProjectHandler(cfg))
		r.Get("/projects/{id}", getProjectHandler(cfg))
		r.Delete("/projects/{id}", deleteProjectHandler(cfg))

		r.Get("/projects/{id}/timeline", getTimelineHandler(cfg))
		r.Put("/projects/{id}/timeline", setTimelineHandler(cfg))
		r.Post("/projects/{id}/undo", undoHandler(cfg))
		r.Post("/projects/{id}/redo", redoHandler(cfg))
		r.Post("/projects/{id}/selection", selectClipHandler(cfg))
		r.Post("/projects/{id}/export/edl", exportEDLHandler(cfg))

		r.Post("/projects/{id}/clips", addClipHandler(cfg))
		r.Patch("/projects/{id}/clips/{clipID}", updateClipHandler(cfg))
		r.Put("/projects/{id}/clips/{clipID}/color", updateClipColorHandler(cfg))
		r.Delete("/projects/{id}/clips/{clipID}", removeClipHandler(cfg))
		r.Post("/projects/{id}/clips/{clipID}/duplicate", duplicateClipHandler(cfg))
		r.Post("/projects/{id}/clips/{clipID}/split", splitClipHandler(cfg))
		r.Put("/projects/{id}/clips/order", reorderClipsHandler(cfg))

		r.Get("/assets", listAssetsHandler(cfg))
		r.Delete("/assets/{id}", deleteAssetHandler(cfg))
		r.Put("/assets/{id}/duration", setAssetDurationHandler(cfg))
		r.Get("/assets/folders", listFoldersHandler(cfg))
		r.Post("/assets/folders", addFolderHandler(cfg))
		r.Delete("/assets/folders/{id}", deleteFolderHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			Version:  cfg.Version,
			UptimeS:  uptime,
			DeviceID: cfg.DeviceID,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		projects, _ := cfg.Projects.ListProjects(ctx)
		assetsCount, _ := cfg.Assets.CountAssets(ctx)
		folders, _ := cfg.Assets.GetFolders(ctx)

		WriteJSON(w, http.StatusOK, StatusResponse{
			State:         "idle",
			ProjectsCount: len(projects),
			AssetsCount:   assetsCount,
			FoldersCount:  len(folders),
		})
	}
}

func listPresetsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all := config.Presets()
		resp := PresetsResponse{Presets: make([]PresetResponse, len(all))}
		for i, p := range all {
			resp.Presets[i] = PresetResponse{
				Name: p.Name, Width: p.Width, Height: p.Height,
				FPS: p.FPS, Bitrate: p.Bitrate, Format: p.Format,
			}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}
