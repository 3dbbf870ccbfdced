package session

import (
	"math/rand"
	"strings"

	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/services"
)

// Quiz drives the question/answer/grade state machine over a shuffled
// private copy of the collection:
//
//	Idle → Active → Grading → Reviewing → {Active(i+1) | Complete} → Idle
//
// The card set is frozen at start; mutations to the source collection during
// an active quiz do not affect the session. Score increments at most once
// per card, only after an answer has been graded.
type Quiz struct {
	phase      models.QuizPhase
	cards      []models.Flashcard
	index      int
	score      int
	scored     int
	lastResult *models.GradeResult
	revealed   bool
}

func NewQuiz() *Quiz {
	return &Quiz{phase: models.QuizIdle}
}

func (q *Quiz) Phase() models.QuizPhase { return q.phase }

// Start copies and shuffles the collection and resets score and position.
// An empty collection cannot be quizzed.
func (q *Quiz) Start(cards []models.Flashcard) error {
	if len(cards) == 0 {
		return &services.ValidationError{Message: "Generate or import some flashcards before starting a quiz."}
	}

	q.cards = make([]models.Flashcard, len(cards))
	copy(q.cards, cards)
	rand.Shuffle(len(q.cards), func(i, j int) {
		q.cards[i], q.cards[j] = q.cards[j], q.cards[i]
	})

	q.index = 0
	q.score = 0
	q.scored = 0
	q.lastResult = nil
	q.revealed = false
	q.phase = models.QuizActive
	return nil
}

// Current returns the card under question.
func (q *Quiz) Current() *models.Flashcard {
	if q.index < 0 || q.index >= len(q.cards) {
		return nil
	}
	return &q.cards[q.index]
}

// Submit validates the answer and moves Active → Grading. A blank answer is
// rejected and the machine stays in Active.
func (q *Quiz) Submit(answer string) error {
	if q.phase != models.QuizActive {
		return &services.ConflictError{Message: "No question is awaiting an answer."}
	}
	if strings.TrimSpace(answer) == "" {
		return &services.ValidationError{Message: "Please enter an answer before submitting."}
	}
	q.phase = models.QuizGrading
	return nil
}

// CompleteGrading applies the verdict and moves Grading → Reviewing.
func (q *Quiz) CompleteGrading(result *models.GradeResult) {
	if q.phase != models.QuizGrading {
		return
	}
	if result.IsCorrect {
		q.score++
	}
	q.scored++
	q.lastResult = result
	q.revealed = false
	q.phase = models.QuizReviewing
}

// FailGrading returns Grading → Active so the same submission can be
// retried. This is the only retry point in the system.
func (q *Quiz) FailGrading() {
	if q.phase == models.QuizGrading {
		q.phase = models.QuizActive
	}
}

// Reveal marks the correct definition as shown after an incorrect answer.
// It is one-shot and idempotent: revealing twice has no further effect.
func (q *Quiz) Reveal() error {
	if q.phase != models.QuizReviewing {
		return &services.ConflictError{Message: "There is nothing to reveal right now."}
	}
	if q.lastResult != nil && q.lastResult.IsCorrect {
		return &services.ConflictError{Message: "The answer was correct; nothing to reveal."}
	}
	q.revealed = true
	return nil
}

// Advance moves Reviewing → Active on the next card, or → Complete past the
// last one.
func (q *Quiz) Advance() error {
	if q.phase != models.QuizReviewing {
		return &services.ConflictError{Message: "Grade the current answer before advancing."}
	}
	q.index++
	q.lastResult = nil
	q.revealed = false
	if q.index >= len(q.cards) {
		q.phase = models.QuizComplete
	} else {
		q.phase = models.QuizActive
	}
	return nil
}

// Restart reshuffles the same frozen card set from the completion screen.
func (q *Quiz) Restart() error {
	if q.phase != models.QuizComplete {
		return &services.ConflictError{Message: "The quiz is still in progress."}
	}
	return q.Start(q.cards)
}

// End discards the session from any state. Partial progress is never kept.
func (q *Quiz) End() {
	q.phase = models.QuizIdle
	q.cards = nil
	q.index = 0
	q.score = 0
	q.scored = 0
	q.lastResult = nil
	q.revealed = false
}

// Snapshot projects the machine for the wire. The definition of the current
// card is withheld until it has been graded or revealed.
func (q *Quiz) Snapshot() models.QuizSnapshot {
	snap := models.QuizSnapshot{
		Phase:        q.phase,
		CurrentIndex: q.index,
		Total:        len(q.cards),
		Score:        q.score,
		ScoredCards:  q.scored,
		Revealed:     q.revealed,
		LastResult:   q.lastResult,
	}

	if card := q.Current(); card != nil && q.phase != models.QuizIdle && q.phase != models.QuizComplete {
		qc := &models.QuizCard{
			ID:           card.ID,
			Term:         card.Term,
			LanguageCode: card.LanguageCode,
		}
		if q.phase == models.QuizReviewing && (q.revealed || (q.lastResult != nil && q.lastResult.IsCorrect)) {
			qc.Definition = card.Definition
		}
		snap.Card = qc
	}

	if q.phase == models.QuizComplete && len(q.cards) > 0 {
		snap.Percentage = q.score * 100 / len(q.cards)
	}

	return snap
}
