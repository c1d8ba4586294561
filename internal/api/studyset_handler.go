package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/service"
	"github.com/google/uuid"
)

// Defaults and cap for public search pagination.
const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// StudySetHandler handles study set CRUD and discovery requests.
type StudySetHandler struct {
	sets   service.StudySetService
	logger *slog.Logger
}

// NewStudySetHandler creates a StudySetHandler.
func NewStudySetHandler(sets service.StudySetService, log *slog.Logger) *StudySetHandler {
	if log == nil {
		log = slog.Default()
	}
	return &StudySetHandler{
		sets:   sets,
		logger: log.With(slog.String("component", "studyset_handler")),
	}
}

// Create handles POST /study-sets. When the request carries cards, the set
// and its cards are created together.
func (h *StudySetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateStudySetRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid study set details")
		return
	}

	if len(req.Cards) == 0 {
		set, err := h.sets.CreateSet(r.Context(), userID, req.Title, req.Description, req.FolderID)
		if err != nil {
			HandleServiceError(w, r, err)
			return
		}
		shared.RespondWithJSON(w, r, http.StatusCreated, set)
		return
	}

	cards := make([]service.CardContent, len(req.Cards))
	for i, c := range req.Cards {
		cards[i] = service.CardContent{Front: c.Front, Back: c.Back}
	}

	set, err := h.sets.CreateSetWithCards(r.Context(), userID, req.Title, req.Description, req.FolderID, cards)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, set)
}

// Get handles GET /study-sets/{id}. Public sets are visible to anonymous
// requesters; private sets only to their owner.
func (h *StudySetHandler) Get(w http.ResponseWriter, r *http.Request) {
	setID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	// uuid.Nil stands in for an anonymous requester.
	requesterID, _ := getUserIDFromContext(r)

	set, err := h.sets.GetSet(r.Context(), requesterID, setID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, set)
}

// ListMine handles GET /study-sets, returning the caller's sets.
func (h *StudySetHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	sets, err := h.sets.ListMySets(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sets)
}

// Search handles GET /study-sets/search?q=...&limit=...&offset=..., searching
// public sets by title.
func (h *StudySetHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := parsePositiveInt(r.URL.Query().Get("limit"), defaultSearchLimit)
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	offset := parsePositiveInt(r.URL.Query().Get("offset"), 0)

	sets, err := h.sets.SearchPublicSets(r.Context(), query, limit, offset)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sets)
}

// Update handles PUT /study-sets/{id}.
func (h *StudySetHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	setID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	var req UpdateStudySetRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid study set details")
		return
	}

	set, err := h.sets.UpdateSet(r.Context(), userID, setID, service.StudySetUpdate{
		Title:       req.Title,
		Description: req.Description,
		FolderID:    req.FolderID,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, set)
}

// SetVisibility handles PUT /study-sets/{id}/visibility.
func (h *StudySetHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	setID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	var req SetVisibilityRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "is_public is required")
		return
	}

	if err := h.sets.SetVisibility(r.Context(), userID, setID, *req.IsPublic); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /study-sets/{id}.
func (h *StudySetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	setID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if err := h.sets.DeleteSet(r.Context(), userID, setID); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listSetsInFolder is shared with the folder handler via the service; kept
// here so all set listing lives in one place.
func (h *StudySetHandler) listSetsInFolder(w http.ResponseWriter, r *http.Request, userID uuid.UUID, folderID *uuid.UUID) {
	sets, err := h.sets.ListSetsInFolder(r.Context(), userID, folderID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sets)
}

// ListUnclassified handles GET /folders/unclassified/study-sets: sets that
// belong to no folder.
func (h *StudySetHandler) ListUnclassified(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	h.listSetsInFolder(w, r, userID, nil)
}

// ListInFolder handles GET /folders/{id}/study-sets.
func (h *StudySetHandler) ListInFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	folderID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	h.listSetsInFolder(w, r, userID, &folderID)
}

// parsePositiveInt parses s as a non-negative int, falling back to def on
// absence, garbage, or negatives.
func parsePositiveInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
