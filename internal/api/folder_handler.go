package api

import (
	"log/slog"
	"net/http"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/service"
)

// FolderHandler handles folder CRUD requests.
type FolderHandler struct {
	folders service.FolderService
	logger  *slog.Logger
}

// NewFolderHandler creates a FolderHandler.
func NewFolderHandler(folders service.FolderService, log *slog.Logger) *FolderHandler {
	if log == nil {
		log = slog.Default()
	}
	return &FolderHandler{
		folders: folders,
		logger:  log.With(slog.String("component", "folder_handler")),
	}
}

// Create handles POST /folders.
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req FolderRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid folder details")
		return
	}

	folder, err := h.folders.CreateFolder(r.Context(), userID, req.Name)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, folder)
}

// List handles GET /folders, returning the caller's folders sorted by name.
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	folders, err := h.folders.ListFolders(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, folders)
}

// Rename handles PUT /folders/{id}.
func (h *FolderHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	folderID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	var req FolderRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid folder details")
		return
	}

	folder, err := h.folders.RenameFolder(r.Context(), userID, folderID, req.Name)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, folder)
}

// Delete handles DELETE /folders/{id}. Study sets inside the folder become
// unclassified rather than being deleted.
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	folderID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if err := h.folders.DeleteFolder(r.Context(), userID, folderID); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
