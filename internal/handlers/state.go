package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/repository"
	"flashdeck-backend/internal/services"
	"flashdeck-backend/internal/session"
)

type StateHandler struct {
	sessions  *session.Manager
	stateRepo *repository.StateRepo
	gemini    *services.GeminiService
}

func NewStateHandler(sessions *session.Manager, stateRepo *repository.StateRepo, gemini *services.GeminiService) *StateHandler {
	return &StateHandler{sessions: sessions, stateRepo: stateRepo, gemini: gemini}
}

// Get returns the full projected application state.
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := loadSession(r.Context(), h.sessions, h.stateRepo)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load state", r))
		return
	}

	sess.Lock()
	defer sess.Unlock()
	writeJSON(w, http.StatusOK, stateView(sess))
}

// Clear empties the collection and removes the persisted record.
func (h *StateHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess, err := loadSession(r.Context(), h.sessions, h.stateRepo)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load state", r))
		return
	}

	sess.Lock()
	sess.ReplaceState(models.NewApplicationState())
	sess.Unlock()

	if err := h.stateRepo.Clear(r.Context(), sess.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to clear state", r))
		return
	}

	sess.Lock()
	defer sess.Unlock()
	writeJSON(w, http.StatusOK, stateView(sess))
}

// Generate asks the AI service for a fresh deck on the submitted topic. The
// collection is cleared first and the outcome, success or not, is persisted,
// mirroring the UI flow where a failed generation leaves an empty board.
func (h *StateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateFlashcardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	sess, err := loadSession(r.Context(), h.sessions, h.stateRepo)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load state", r))
		return
	}

	if err := sess.BeginAction(session.ActionGenerate); err != nil {
		handleServiceError(w, r, err)
		return
	}
	defer sess.EndAction(session.ActionGenerate)

	apiKey, err := h.stateRepo.LoadAPIKey(r.Context(), sess.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to read API key", r))
		return
	}

	topic := strings.TrimSpace(req.Topic)

	sess.Lock()
	sess.State.Reset()
	sess.State.Topic = topic
	sess.Unlock()

	result, genErr := h.gemini.GenerateFlashcards(r.Context(), apiKey, topic)

	sess.Lock()
	if genErr == nil {
		state := &models.ApplicationState{
			Topic:           topic,
			Flashcards:      result.Flashcards,
			Location:        result.Location,
			IsLocationBased: result.IsLocationBased,
		}
		state.Normalize()
		sess.ReplaceState(state)
	}
	snapshot := *sess.State
	sess.Unlock()

	// Persist whatever state exists at completion time, like the UI's
	// save-on-finally. There is no epoch guard against stale responses.
	if err := h.stateRepo.Save(r.Context(), sess.ID, &snapshot); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to persist state", r))
		return
	}

	if genErr != nil {
		handleServiceError(w, r, genErr)
		return
	}

	sess.Lock()
	defer sess.Unlock()
	writeJSON(w, http.StatusOK, stateView(sess))
}

// BeginEdit puts a card into edit mode.
func (h *StateHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	h.withCard(w, r, func(sess *session.Session, index int) error {
		return sess.BeginEdit(index)
	})
}

// SaveEdit commits an edit transaction: trimmed term and definition replace
// the card's text, language code and keywords are preserved, and the new
// state is persisted.
func (h *StateHandler) SaveEdit(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

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
	saveErr := sess.SaveEdit(index, req.Term, req.Definition)
	snapshot := *sess.State
	sess.Unlock()

	if saveErr != nil {
		handleServiceError(w, r, saveErr)
		return
	}

	if err := h.stateRepo.Save(r.Context(), sess.ID, &snapshot); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to persist state", r))
		return
	}

	sess.Lock()
	defer sess.Unlock()
	writeJSON(w, http.StatusOK, stateView(sess))
}

// CancelEdit discards the draft and leaves the card unchanged.
func (h *StateHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.withCard(w, r, func(sess *session.Session, index int) error {
		return sess.CancelEdit(index)
	})
}

// Pronunciation returns the speech-synthesis utterance for a card's term.
// Only terms tagged with a language code are eligible.
func (h *StateHandler) Pronunciation(w http.ResponseWriter, r *http.Request) {
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
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard not found.", r))
		return
	}
	card := sess.State.Flashcards[index]
	if card.LanguageCode == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "This term has no pronunciation language.", r))
		return
	}

	writeJSON(w, http.StatusOK, models.Pronunciation{Text: card.Term, Language: card.LanguageCode})
}

func (h *StateHandler) withCard(w http.ResponseWriter, r *http.Request, fn func(*session.Session, int) error) {
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

	if err := fn(sess, index); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stateView(sess))
}

func cardIndex(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "index"))
}
