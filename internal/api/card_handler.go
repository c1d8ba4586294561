package api

import (
	"log/slog"
	"net/http"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/service"
)

// CardHandler handles card CRUD requests.
type CardHandler struct {
	cards  service.CardService
	logger *slog.Logger
}

// NewCardHandler creates a CardHandler.
func NewCardHandler(cards service.CardService, log *slog.Logger) *CardHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CardHandler{
		cards:  cards,
		logger: log.With(slog.String("component", "card_handler")),
	}
}

// Create handles POST /study-sets/{id}/cards, appending one or more cards to
// the set.
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	setID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	var req CreateCardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card details")
		return
	}

	contents := make([]service.CardContent, len(req.Cards))
	for i, c := range req.Cards {
		contents[i] = service.CardContent{Front: c.Front, Back: c.Back}
	}

	cards, err := h.cards.AddCards(r.Context(), userID, setID, contents)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, cards)
}

// List handles GET /study-sets/{id}/cards in position order. Visibility
// follows the parent set: public sets are listable anonymously.
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	setID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	requesterID, _ := getUserIDFromContext(r)

	cards, err := h.cards.ListCards(r.Context(), requesterID, setID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// Get handles GET /cards/{id}.
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	requesterID, _ := getUserIDFromContext(r)

	card, err := h.cards.GetCard(r.Context(), requesterID, cardID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// Update handles PUT /cards/{id}.
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	var req UpdateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card details")
		return
	}

	card, err := h.cards.UpdateCard(r.Context(), userID, cardID, service.CardContent{Front: req.Front, Back: req.Back})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// UpdateMastery handles PUT /cards/{id}/mastery, flipping the mastery flag
// outside any learning session.
func (h *CardHandler) UpdateMastery(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	var req UpdateMasteryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "is_mastered is required")
		return
	}

	if err := h.cards.UpdateMastery(r.Context(), userID, cardID, *req.IsMastered); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /cards/{id}.
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if err := h.cards.DeleteCard(r.Context(), userID, cardID); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
