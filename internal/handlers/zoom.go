package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"flashdeck-backend/internal/repository"
	"flashdeck-backend/internal/services"
	"flashdeck-backend/internal/session"
)

type ZoomHandler struct {
	sessions  *session.Manager
	stateRepo *repository.StateRepo
}

func NewZoomHandler(sessions *session.Manager, stateRepo *repository.StateRepo) *ZoomHandler {
	return &ZoomHandler{sessions: sessions, stateRepo: stateRepo}
}

// ZoomIn focuses a card in the overlay. A second zoom while one is active
// is a silent no-op; the first card stays zoomed. Cards in edit mode cannot
// be zoomed.
func (h *ZoomHandler) ZoomIn(w http.ResponseWriter, r *http.Request) {
	index, err := cardIndex(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid card index", r))
		return
	}

	sess, err := loadSession(r.Context(), h.sessions, h.stateRepo)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load state", r))
		return
	}

	sess.Lock()
	defer sess.Unlock()

	if index < 0 || index >= len(sess.State.Flashcards) {
		handleServiceError(w, r, &services.NotFoundError{Message: "Flashcard not found."})
		return
	}
	card := sess.State.Flashcards[index]
	if sess.IsEditing(card.ID) {
		handleServiceError(w, r, &services.ConflictError{Message: "Cannot zoom a card while it is being edited."})
		return
	}

	anchor := uuid.Nil
	hasAnchor := false
	if index > 0 {
		anchor = sess.State.Flashcards[index-1].ID
		hasAnchor = true
	}

	sess.Zoom.ZoomIn(card.ID, anchor, hasAnchor)
	writeJSON(w, http.StatusOK, sess.Zoom.Snapshot())
}

// Settle acknowledges the expand transition.
func (h *ZoomHandler) Settle(w http.ResponseWriter, r *http.Request) {
	h.withZoom(w, r, func(sess *session.Session) error {
		sess.Zoom.Settle()
		return nil
	})
}

// Collapse starts closing the overlay.
func (h *ZoomHandler) Collapse(w http.ResponseWriter, r *http.Request) {
	h.withZoom(w, r, func(sess *session.Session) error {
		return sess.Zoom.Collapse()
	})
}

// CollapseSettled completes the collapse and reports where the card was
// restored among its siblings.
func (h *ZoomHandler) CollapseSettled(w http.ResponseWriter, r *http.Request) {
	sess, err := loadSession(r.Context(), h.sessions, h.stateRepo)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load state", r))
		return
	}

	sess.Lock()
	defer sess.Unlock()

	restored, err := sess.Zoom.CollapseSettled(sess.State)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	snap := sess.Zoom.Snapshot()
	snap.RestoredIndex = restored
	writeJSON(w, http.StatusOK, snap)
}

func (h *ZoomHandler) withZoom(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) {
	sess, err := loadSession(r.Context(), h.sessions, h.stateRepo)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load state", r))
		return
	}

	sess.Lock()
	defer sess.Unlock()

	if err := fn(sess); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Zoom.Snapshot())
}
