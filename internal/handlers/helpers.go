package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"flashdeck-backend/internal/middleware"
	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/repository"
	"flashdeck-backend/internal/services"
	"flashdeck-backend/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

// handleServiceError maps the typed service errors onto the wire envelope.
// Every error becomes a single human-readable status; none are fatal.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch e := err.(type) {
	case *services.MissingCredentialError:
		writeJSON(w, http.StatusUnauthorized, errorResp("MISSING_CREDENTIAL", e.Message, r))
	case *services.EmptyInputError:
		writeJSON(w, http.StatusBadRequest, errorResp("EMPTY_INPUT", e.Message, r))
	case *services.TransportError:
		writeJSON(w, http.StatusBadGateway, errorResp("TRANSPORT_ERROR", e.Message, r))
	case *services.SchemaViolationError:
		writeJSON(w, http.StatusBadGateway, errorResp("SCHEMA_VIOLATION", e.Message, r))
	case *services.TypeMismatchError:
		writeJSON(w, http.StatusBadRequest, errorResp("TYPE_MISMATCH", e.Message, r))
	case *services.IOError:
		writeJSON(w, http.StatusBadRequest, errorResp("IO_ERROR", e.Message, r))
	case *services.ValidationError:
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", e.Message, r))
	case *services.NotFoundError:
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", e.Message, r))
	case *services.ConflictError:
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", e.Message, r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Something went wrong", r))
	}
}

// loadSession fetches the runtime session for the request and hydrates it
// from the persistence store on first use.
func loadSession(ctx context.Context, sessions *session.Manager, stateRepo *repository.StateRepo) (*session.Session, error) {
	sid := middleware.GetSessionID(ctx)
	sess := sessions.Get(sid.String())

	sess.Lock()
	defer sess.Unlock()
	if !sess.Hydrated() {
		state, err := stateRepo.Load(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		if state != nil {
			sess.ReplaceState(state)
		}
		sess.MarkHydrated()
	}
	return sess, nil
}

// stateView projects the collection with per-card search links and edit
// flags, plus the overlay state. Callers must hold the session lock.
func stateView(sess *session.Session) map[string]interface{} {
	cards := make([]models.CardView, 0, len(sess.State.Flashcards))
	for i := range sess.State.Flashcards {
		card := &sess.State.Flashcards[i]
		cards = append(cards, models.CardView{
			Flashcard:  *card,
			SearchLink: sess.State.SearchLinkFor(card),
			Editing:    sess.IsEditing(card.ID),
		})
	}

	return map[string]interface{}{
		"topic":           sess.State.Topic,
		"flashcards":      cards,
		"location":        sess.State.Location,
		"isLocationBased": sess.State.IsLocationBased,
		"zoom":            sess.Zoom.Snapshot(),
		"quiz_phase":      sess.Quiz.Phase(),
	}
}
