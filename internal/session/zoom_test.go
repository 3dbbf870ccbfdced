package session

import (
	"testing"

	"github.com/google/uuid"

	"flashdeck-backend/internal/models"
)

func zoomState(n int) *models.ApplicationState {
	state := models.NewApplicationState()
	for i := 0; i < n; i++ {
		state.Flashcards = append(state.Flashcards, models.Flashcard{
			ID:         uuid.New(),
			Term:       string(rune('a' + i)),
			Definition: "def",
		})
	}
	return state
}

func TestZoomIn_Exclusive(t *testing.T) {
	z := NewZoom()
	first := uuid.New()
	second := uuid.New()

	if !z.ZoomIn(first, uuid.Nil, false) {
		t.Fatal("First zoom should succeed")
	}
	if z.ZoomIn(second, uuid.Nil, false) {
		t.Error("Zoom while another card is focused should be a no-op")
	}
	if z.FocusedCard() != first {
		t.Error("A rejected zoom must not change the focused card")
	}

	z.Settle()
	if z.ZoomIn(second, uuid.Nil, false) {
		t.Error("Zoom on an expanded overlay should be a no-op")
	}
}

func TestZoomLifecycle(t *testing.T) {
	state := zoomState(3)
	z := NewZoom()

	z.ZoomIn(state.Flashcards[2].ID, state.Flashcards[1].ID, true)
	if z.Phase() != models.ZoomExpanding {
		t.Fatalf("Expected expanding, got %s", z.Phase())
	}

	z.Settle()
	if z.Phase() != models.ZoomExpanded {
		t.Fatalf("Expected expanded, got %s", z.Phase())
	}

	if err := z.Collapse(); err != nil {
		t.Fatalf("Collapse returned error: %v", err)
	}

	restored, err := z.CollapseSettled(state)
	if err != nil {
		t.Fatalf("CollapseSettled returned error: %v", err)
	}
	if restored != 2 {
		t.Errorf("Expected restore after the prior sibling at index 2, got %d", restored)
	}
	if z.Phase() != models.ZoomCollapsed {
		t.Errorf("Expected collapsed, got %s", z.Phase())
	}
	if z.FocusedCard() != uuid.Nil {
		t.Error("No card should be focused after collapse")
	}
}

func TestZoomCollapse_WithoutZoom(t *testing.T) {
	z := NewZoom()
	if err := z.Collapse(); err == nil {
		t.Error("Collapse on a collapsed overlay should fail")
	}
	if _, err := z.CollapseSettled(zoomState(1)); err == nil {
		t.Error("CollapseSettled without a collapse in progress should fail")
	}
}

func TestZoomRestore_AnchorMoved(t *testing.T) {
	state := zoomState(4)
	anchor := state.Flashcards[0].ID
	z := NewZoom()

	z.ZoomIn(state.Flashcards[1].ID, anchor, true)
	z.Settle()

	// The anchor card moves to the end while the overlay is open.
	state.Flashcards = append(state.Flashcards[1:], state.Flashcards[0])

	if err := z.Collapse(); err != nil {
		t.Fatalf("Collapse returned error: %v", err)
	}
	restored, err := z.CollapseSettled(state)
	if err != nil {
		t.Fatalf("CollapseSettled returned error: %v", err)
	}
	if restored != 4 {
		t.Errorf("Card should follow its sibling, expected 4, got %d", restored)
	}
}

func TestZoomRestore_AnchorDeleted(t *testing.T) {
	state := zoomState(3)
	anchor := state.Flashcards[1].ID
	z := NewZoom()

	z.ZoomIn(state.Flashcards[2].ID, anchor, true)
	z.Settle()

	state.Flashcards = append(state.Flashcards[:1], state.Flashcards[2:]...)

	if err := z.Collapse(); err != nil {
		t.Fatalf("Collapse returned error: %v", err)
	}
	restored, err := z.CollapseSettled(state)
	if err != nil {
		t.Fatalf("CollapseSettled returned error: %v", err)
	}
	if restored != 0 {
		t.Errorf("A deleted sibling restores to the front, got %d", restored)
	}
}

func TestZoomRestore_FirstCard(t *testing.T) {
	state := zoomState(2)
	z := NewZoom()

	z.ZoomIn(state.Flashcards[0].ID, uuid.Nil, false)
	z.Settle()

	if err := z.Collapse(); err != nil {
		t.Fatalf("Collapse returned error: %v", err)
	}
	restored, err := z.CollapseSettled(state)
	if err != nil {
		t.Fatalf("CollapseSettled returned error: %v", err)
	}
	if restored != 0 {
		t.Errorf("The first card restores to the front, got %d", restored)
	}
}

func TestZoomSnapshot(t *testing.T) {
	z := NewZoom()
	if snap := z.Snapshot(); snap.CardID != nil {
		t.Error("Collapsed snapshot should carry no card")
	}

	id := uuid.New()
	z.ZoomIn(id, uuid.Nil, false)
	snap := z.Snapshot()
	if snap.CardID == nil || *snap.CardID != id {
		t.Error("Snapshot should carry the focused card's ID")
	}
}
