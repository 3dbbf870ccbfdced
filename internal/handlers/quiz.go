package handlers

import (
	"encoding/json"
	"net/http"

	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/repository"
	"flashdeck-backend/internal/services"
	"flashdeck-backend/internal/session"
)

type QuizHandler struct {
	sessions  *session.Manager
	stateRepo *repository.StateRepo
	gemini    *services.GeminiService
}

func NewQuizHandler(sessions *session.Manager, stateRepo *repository.StateRepo, gemini *services.GeminiService) *QuizHandler {
	return &QuizHandler{sessions: sessions, stateRepo: stateRepo, gemini: gemini}
}

// Start begins a quiz over a shuffled copy of the current collection.
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.withQuiz(w, r, func(sess *session.Session) error {
		return sess.Quiz.Start(sess.State.Flashcards)
	})
}

// Get reports the quiz state.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withQuiz(w, r, func(sess *session.Session) error { return nil })
}

// Submit validates the answer, asks the grading service for a verdict and
// applies it. A grading failure returns the machine to Active so the same
// answer can be resubmitted.
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	sess, err := loadSession(r.Context(), h.sessions, h.stateRepo)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load state", r))
		return
	}

	if err := sess.BeginAction(session.ActionGrade); err != nil {
		handleServiceError(w, r, err)
		return
	}
	defer sess.EndAction(session.ActionGrade)

	sess.Lock()
	submitErr := sess.Quiz.Submit(req.Answer)
	var term, definition string
	if submitErr == nil {
		card := sess.Quiz.Current()
		term, definition = card.Term, card.Definition
	}
	sess.Unlock()

	if submitErr != nil {
		handleServiceError(w, r, submitErr)
		return
	}

	apiKey, err := h.stateRepo.LoadAPIKey(r.Context(), sess.ID)
	if err != nil {
		sess.Lock()
		sess.Quiz.FailGrading()
		sess.Unlock()
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to read API key", r))
		return
	}

	result, gradeErr := h.gemini.GradeAnswer(r.Context(), apiKey, term, definition, req.Answer)

	sess.Lock()
	if gradeErr != nil {
		sess.Quiz.FailGrading()
	} else {
		sess.Quiz.CompleteGrading(result)
	}
	snap := sess.Quiz.Snapshot()
	sess.Unlock()

	if gradeErr != nil {
		handleServiceError(w, r, gradeErr)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// Reveal shows the correct definition after an incorrect answer. One-shot;
// revealing twice has no further effect.
func (h *QuizHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	h.withQuiz(w, r, func(sess *session.Session) error {
		return sess.Quiz.Reveal()
	})
}

// Advance moves to the next card, or to the completion summary.
func (h *QuizHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.withQuiz(w, r, func(sess *session.Session) error {
		return sess.Quiz.Advance()
	})
}

// Restart reshuffles from the completion screen.
func (h *QuizHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.withQuiz(w, r, func(sess *session.Session) error {
		return sess.Quiz.Restart()
	})
}

// End discards the quiz session from any state, keeping no progress.
func (h *QuizHandler) End(w http.ResponseWriter, r *http.Request) {
	h.withQuiz(w, r, func(sess *session.Session) error {
		sess.Quiz.End()
		return nil
	})
}

func (h *QuizHandler) withQuiz(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) {
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
	writeJSON(w, http.StatusOK, sess.Quiz.Snapshot())
}
