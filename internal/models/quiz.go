package models

import "github.com/google/uuid"

// Quiz state machine phases. A session moves
// Idle → Active → Grading → Reviewing → {Active | Complete} → Idle.
type QuizPhase string

const (
	QuizIdle      QuizPhase = "idle"
	QuizActive    QuizPhase = "active"
	QuizGrading   QuizPhase = "grading"
	QuizReviewing QuizPhase = "reviewing"
	QuizComplete  QuizPhase = "complete"
)

// GradeResult is the grading verdict returned by the generation service.
type GradeResult struct {
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback"`
}

// QuizSnapshot is the wire view of a quiz session. The current card's
// definition is withheld until it has been graded or revealed.
type QuizSnapshot struct {
	Phase        QuizPhase    `json:"phase"`
	CurrentIndex int          `json:"current_index"`
	Total        int          `json:"total"`
	Score        int          `json:"score"`
	ScoredCards  int          `json:"scored_cards"`
	Card         *QuizCard    `json:"card,omitempty"`
	LastResult   *GradeResult `json:"last_result,omitempty"`
	Revealed     bool         `json:"revealed"`
	Percentage   int          `json:"percentage,omitempty"`
}

type QuizCard struct {
	ID           uuid.UUID `json:"id"`
	Term         string    `json:"term"`
	Definition   string    `json:"definition,omitempty"`
	LanguageCode string    `json:"languageCode,omitempty"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

// Zoom overlay phases. At most one card is zoomed at any time.
type ZoomPhase string

const (
	ZoomCollapsed  ZoomPhase = "collapsed"
	ZoomExpanding  ZoomPhase = "expanding"
	ZoomExpanded   ZoomPhase = "expanded"
	ZoomCollapsing ZoomPhase = "collapsing"
)

// ZoomSnapshot reports the overlay state. RestoredIndex is only meaningful
// on the response that completes a collapse.
type ZoomSnapshot struct {
	Phase         ZoomPhase  `json:"phase"`
	CardID        *uuid.UUID `json:"card_id,omitempty"`
	RestoredIndex int        `json:"restored_index"`
}
