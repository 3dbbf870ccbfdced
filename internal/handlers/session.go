package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"flashdeck-backend/internal/middleware"
	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/repository"
)

type SessionHandler struct {
	auth      *middleware.SessionAuth
	stateRepo *repository.StateRepo
}

func NewSessionHandler(auth *middleware.SessionAuth, stateRepo *repository.StateRepo) *SessionHandler {
	return &SessionHandler{auth: auth, stateRepo: stateRepo}
}

// Create mints a new anonymous session token.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.New()
	token, err := h.auth.IssueToken(sessionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create session", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id": sessionID,
		"token":      token,
	})
}

// SetAPIKey stores the Gemini credential for the session. Keys are
// user-supplied; a trivially short value is rejected before it is stored.
func (h *SessionHandler) SetAPIKey(w http.ResponseWriter, r *http.Request) {
	var req models.SetAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	key := strings.TrimSpace(req.APIKey)
	if len(key) <= 5 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Please enter a valid API key.", r))
		return
	}

	sid := middleware.GetSessionID(r.Context())
	if err := h.stateRepo.SaveAPIKey(r.Context(), sid.String(), key); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save API key", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "API Key saved successfully."})
}

// APIKeyStatus reports whether a credential is configured. The key itself
// is never returned.
func (h *SessionHandler) APIKeyStatus(w http.ResponseWriter, r *http.Request) {
	sid := middleware.GetSessionID(r.Context())
	key, err := h.stateRepo.LoadAPIKey(r.Context(), sid.String())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to read API key", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"configured": key != ""})
}
