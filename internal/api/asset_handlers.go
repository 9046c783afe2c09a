package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func addFolderHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddFolderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Path == "" {
			WriteError(w, http.StatusBadRequest, "path is required", "BAD_REQUEST")
			return
		}

		folder, err := cfg.Assets.AddFolder(r.Context(), req.Path, req.DisplayName)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		imported, err := cfg.Assets.ScanFolder(r.Context(), folder.ID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusCreated, AddFolderResponse{FolderID: folder.ID, Imported: imported})
	}
}

func listFoldersHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folders, err := cfg.Assets.GetFolders(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list folders", "INTERNAL_ERROR")
			return
		}

		resp := FoldersResponse{Folders: make([]FolderResponse, len(folders))}
		for i, f := range folders {
			resp.Folders[i] = FolderToResponse(f)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func deleteFolderHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := cfg.Assets.RemoveFolder(r.Context(), id); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listAssetsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assets, err := cfg.Assets.GetAssets(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list assets", "INTERNAL_ERROR")
			return
		}

		resp := AssetsResponse{Assets: make([]AssetResponse, len(assets))}
		for i, a := range assets {
			resp.Assets[i] = AssetToResponse(a)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func deleteAssetHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := cfg.Assets.RemoveAsset(r.Context(), id); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func setAssetDurationHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req SetAssetDurationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		asset, err := cfg.Assets.SetAssetDuration(r.Context(), id, req.DurationS)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusOK, AssetToResponse(asset))
	}
}
