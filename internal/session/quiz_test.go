package session

import (
	"testing"

	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/services"
)

func quizDeck(n int) []models.Flashcard {
	cards := make([]models.Flashcard, n)
	for i := range cards {
		cards[i] = models.Flashcard{
			Term:       string(rune('a' + i)),
			Definition: "definition " + string(rune('a'+i)),
		}
	}
	return cards
}

func TestQuizStart_EmptyCollection(t *testing.T) {
	q := NewQuiz()

	err := q.Start(nil)
	if err == nil {
		t.Fatal("Expected error starting quiz without cards")
	}
	if _, ok := err.(*services.ValidationError); !ok {
		t.Errorf("Expected ValidationError, got %T", err)
	}
	if q.Phase() != models.QuizIdle {
		t.Errorf("Quiz should stay idle, got %s", q.Phase())
	}
}

func TestQuizStart_FreezesCollection(t *testing.T) {
	deck := quizDeck(3)
	q := NewQuiz()
	if err := q.Start(deck); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	// Mutating the source mid-quiz must not reach the session's copy.
	deck[0].Term = "mutated"
	deck[0].Definition = "mutated"

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		card := q.Current()
		if card == nil {
			t.Fatal("Current returned nil mid-quiz")
		}
		if card.Term == "mutated" {
			t.Error("Quiz card reflects a post-start mutation")
		}
		seen[card.Term] = true
		advanceThroughCard(t, q, true)
	}
	if len(seen) != 3 {
		t.Errorf("Expected 3 distinct cards, saw %d", len(seen))
	}
}

func advanceThroughCard(t *testing.T, q *Quiz, correct bool) {
	t.Helper()
	if err := q.Submit("an answer"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	q.CompleteGrading(&models.GradeResult{IsCorrect: correct, Feedback: "noted"})
	if err := q.Advance(); err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}
}

func TestQuizFullRun_AllCorrect(t *testing.T) {
	q := NewQuiz()
	if err := q.Start(quizDeck(4)); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	for i := 0; i < 4; i++ {
		advanceThroughCard(t, q, true)
	}

	snap := q.Snapshot()
	if snap.Phase != models.QuizComplete {
		t.Fatalf("Expected complete phase, got %s", snap.Phase)
	}
	if snap.Score != 4 || snap.Percentage != 100 {
		t.Errorf("Expected score 4 at 100%%, got %d at %d%%", snap.Score, snap.Percentage)
	}
}

func TestQuizScoring_MixedResults(t *testing.T) {
	q := NewQuiz()
	if err := q.Start(quizDeck(4)); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	advanceThroughCard(t, q, true)
	advanceThroughCard(t, q, false)
	advanceThroughCard(t, q, true)
	advanceThroughCard(t, q, false)

	snap := q.Snapshot()
	if snap.Score != 2 {
		t.Errorf("Expected score 2, got %d", snap.Score)
	}
	if snap.Percentage != 50 {
		t.Errorf("Expected 50%%, got %d%%", snap.Percentage)
	}
}

func TestQuizSubmit_BlankAnswer(t *testing.T) {
	q := NewQuiz()
	if err := q.Start(quizDeck(1)); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	err := q.Submit("   \t ")
	if err == nil {
		t.Fatal("Expected error for blank answer")
	}
	if _, ok := err.(*services.ValidationError); !ok {
		t.Errorf("Expected ValidationError, got %T", err)
	}
	if q.Phase() != models.QuizActive {
		t.Errorf("Blank answer must leave the question active, got %s", q.Phase())
	}
}

func TestQuizSubmit_WrongPhase(t *testing.T) {
	q := NewQuiz()
	if err := q.Submit("answer"); err == nil {
		t.Error("Submit on an idle quiz should fail")
	}

	if err := q.Start(quizDeck(1)); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := q.Submit("answer"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if err := q.Submit("again"); err == nil {
		t.Error("Submit while grading should fail")
	}
}

func TestQuizFailGrading_ReturnsToActive(t *testing.T) {
	q := NewQuiz()
	if err := q.Start(quizDeck(2)); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := q.Submit("answer"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	q.FailGrading()

	snap := q.Snapshot()
	if snap.Phase != models.QuizActive {
		t.Fatalf("Failed grading should return to active, got %s", snap.Phase)
	}
	if snap.Score != 0 || snap.ScoredCards != 0 {
		t.Error("A failed grade must not count toward the score")
	}

	// Same question, same submission, now graded successfully.
	if err := q.Submit("answer"); err != nil {
		t.Fatalf("Resubmit returned error: %v", err)
	}
	q.CompleteGrading(&models.GradeResult{IsCorrect: true, Feedback: "right"})
	if q.Snapshot().Score != 1 {
		t.Error("Retried submission should score normally")
	}
}

func TestQuizReveal(t *testing.T) {
	q := NewQuiz()
	if err := q.Start(quizDeck(1)); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if err := q.Reveal(); err == nil {
		t.Error("Reveal before grading should fail")
	}

	if err := q.Submit("wrong"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	q.CompleteGrading(&models.GradeResult{IsCorrect: false, Feedback: "not quite"})

	if q.Snapshot().Card.Definition != "" {
		t.Error("Definition must be withheld until revealed")
	}

	if err := q.Reveal(); err != nil {
		t.Fatalf("Reveal returned error: %v", err)
	}
	if q.Snapshot().Card.Definition == "" {
		t.Error("Definition should be visible after reveal")
	}
	if err := q.Reveal(); err != nil {
		t.Errorf("Second reveal should be a no-op, got %v", err)
	}
}

func TestQuizReveal_CorrectAnswerRejected(t *testing.T) {
	q := NewQuiz()
	if err := q.Start(quizDeck(1)); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := q.Submit("right"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	q.CompleteGrading(&models.GradeResult{IsCorrect: true, Feedback: "yes"})

	if err := q.Reveal(); err == nil {
		t.Error("Reveal after a correct answer should fail")
	}
	if q.Snapshot().Card.Definition == "" {
		t.Error("Definition is shown automatically for a correct answer")
	}
}

func TestQuizEnd_DiscardsProgress(t *testing.T) {
	q := NewQuiz()
	if err := q.Start(quizDeck(3)); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	advanceThroughCard(t, q, true)

	q.End()

	snap := q.Snapshot()
	if snap.Phase != models.QuizIdle {
		t.Errorf("Expected idle after end, got %s", snap.Phase)
	}
	if snap.Score != 0 || snap.Total != 0 || snap.Card != nil {
		t.Error("End must discard all quiz state")
	}
}

func TestQuizRestart(t *testing.T) {
	q := NewQuiz()
	if err := q.Start(quizDeck(2)); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if err := q.Restart(); err == nil {
		t.Error("Restart mid-quiz should fail")
	}

	advanceThroughCard(t, q, true)
	advanceThroughCard(t, q, true)

	if err := q.Restart(); err != nil {
		t.Fatalf("Restart returned error: %v", err)
	}
	snap := q.Snapshot()
	if snap.Phase != models.QuizActive {
		t.Errorf("Expected active after restart, got %s", snap.Phase)
	}
	if snap.Score != 0 || snap.CurrentIndex != 0 || snap.Total != 2 {
		t.Errorf("Restart should reset progress over the same cards, got %+v", snap)
	}
}
