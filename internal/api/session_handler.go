package api

import (
	"log/slog"
	"net/http"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/service"
	"github.com/flashdeck/flashdeck-api/internal/session"
	"github.com/go-chi/chi/v5"
)

// SessionHandler exposes learning sessions over HTTP. A session is created
// from a study set, addressed by an opaque ID, and driven through mode
// selection, navigation, and mastery judgments. Every mutating call responds
// with the session state after the change so clients never need a follow-up
// read.
type SessionHandler struct {
	manager *service.SessionManager
	logger  *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(manager *service.SessionManager, log *slog.Logger) *SessionHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SessionHandler{
		manager: manager,
		logger:  log.With(slog.String("component", "session_handler")),
	}
}

// Create handles POST /sessions. Anonymous callers can open sessions over
// public sets; private sets require the owner.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "study_set_id is required")
		return
	}

	// uuid.Nil stands in for an anonymous requester.
	requesterID, _ := getUserIDFromContext(r)

	id, sess, err := h.manager.Create(r.Context(), requesterID, req.StudySetID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, SessionResponse{
		SessionID: id,
		State:     sess.Snapshot(),
	})
}

// Get handles GET /sessions/{id}, returning the current session state.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respondState(w, r, sess)
}

// SelectMode handles POST /sessions/{id}/mode, entering basic or study mode.
func (h *SessionHandler) SelectMode(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SelectModeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "mode must be basic or study")
		return
	}

	if err := sess.SelectMode(session.Mode(req.Mode)); err != nil {
		HandleServiceError(w, r, err)
		return
	}
	h.respondState(w, r, sess)
}

// ClearMode handles DELETE /sessions/{id}/mode, returning the session to
// mode selection.
func (h *SessionHandler) ClearMode(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.ClearMode()
	h.respondState(w, r, sess)
}

// Next handles POST /sessions/{id}/next. Outside basic mode it is a no-op
// that just returns the current state.
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if sess.Mode() == session.ModeBasic {
		sess.Basic().Next()
	}
	h.respondState(w, r, sess)
}

// Prev handles POST /sessions/{id}/prev.
func (h *SessionHandler) Prev(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if sess.Mode() == session.ModeBasic {
		sess.Basic().Prev()
	}
	h.respondState(w, r, sess)
}

// Shuffle handles POST /sessions/{id}/shuffle, toggling basic mode's shuffle.
func (h *SessionHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if sess.Mode() == session.ModeBasic {
		sess.Basic().Shuffle()
	}
	h.respondState(w, r, sess)
}

// Restart handles POST /sessions/{id}/restart, returning basic mode to the
// first card with the viewed set cleared.
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if sess.Mode() == session.ModeBasic {
		sess.Basic().Restart()
	}
	h.respondState(w, r, sess)
}

// Mastery handles POST /sessions/{id}/mastery, judging the current card in
// study mode. The response reports whether the write committed; the
// traversal advances either way.
func (h *SessionHandler) Mastery(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req MasteryJudgmentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "mastered is required")
		return
	}

	if sess.Mode() != session.ModeStudy {
		shared.RespondWithError(w, r, http.StatusConflict, "Session is not in study mode")
		return
	}

	outcome := sess.Study().Mastery(r.Context(), *req.Mastered)

	shared.RespondWithJSON(w, r, http.StatusOK, MasteryOutcomeResponse{
		CardID:    outcome.CardID,
		Committed: outcome.Committed,
		State:     sess.Snapshot(),
	})
}

// Reset handles POST /sessions/{id}/reset, clearing mastery on every card
// and reshuffling. The store writes run in the background.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if sess.Mode() != session.ModeStudy {
		shared.RespondWithError(w, r, http.StatusConflict, "Session is not in study mode")
		return
	}

	sess.Study().Reset(r.Context(), nil)
	h.respondState(w, r, sess)
}

// Continue handles POST /sessions/{id}/continue, starting a follow-up round
// over the cards still unmastered.
func (h *SessionHandler) Continue(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if sess.Mode() != session.ModeStudy {
		shared.RespondWithError(w, r, http.StatusConflict, "Session is not in study mode")
		return
	}

	started := sess.Study().Continue(nil)

	shared.RespondWithJSON(w, r, http.StatusOK, ContinueResponse{
		Started: started,
		State:   sess.Snapshot(),
	})
}

// Key handles POST /sessions/{id}/key, dispatching a keyboard shortcut to
// the session (space flips, arrows navigate or judge depending on mode).
func (h *SessionHandler) Key(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req KeyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "key must be space, left, or right")
		return
	}

	sess.HandleKey(r.Context(), session.Key(req.Key))
	h.respondState(w, r, sess)
}

// Delete handles DELETE /sessions/{id}, closing the session.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.manager.Get(id); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	h.manager.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

// session resolves the {id} path parameter to a live session, writing the
// error response itself when the lookup fails.
func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		HandleServiceError(w, r, err)
		return nil, false
	}
	return sess, true
}

// respondState writes the session's current snapshot.
func (h *SessionHandler) respondState(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{
		SessionID: chi.URLParam(r, "id"),
		State:     sess.Snapshot(),
	})
}
