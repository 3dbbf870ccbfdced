package session

import (
	"github.com/google/uuid"

	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/services"
)

// Zoom manages the exclusive focused-card overlay:
//
//	Collapsed → Expanding → Expanded → Collapsing → Collapsed
//
// The card's original position is remembered as the identity of its
// immediate prior sibling at zoom time, not an index: the collection may be
// re-rendered or edited while the overlay is open, and on collapse the card
// must return to its place relative to that sibling.
type Zoom struct {
	phase     models.ZoomPhase
	cardID    uuid.UUID
	anchorID  uuid.UUID
	hasAnchor bool
}

func NewZoom() *Zoom {
	return &Zoom{phase: models.ZoomCollapsed}
}

func (z *Zoom) Phase() models.ZoomPhase { return z.phase }

// FocusedCard returns the zoomed card's ID, or uuid.Nil when collapsed.
func (z *Zoom) FocusedCard() uuid.UUID {
	if z.phase == models.ZoomCollapsed {
		return uuid.Nil
	}
	return z.cardID
}

// ZoomIn focuses a card. It is a no-op when any card is already zoomed.
// Returns true when the state changed.
func (z *Zoom) ZoomIn(cardID, anchorID uuid.UUID, hasAnchor bool) bool {
	if z.phase != models.ZoomCollapsed {
		return false
	}
	z.cardID = cardID
	z.anchorID = anchorID
	z.hasAnchor = hasAnchor
	z.phase = models.ZoomExpanding
	return true
}

// Settle acknowledges the visual expand transition; the overlay is only
// considered stable in Expanded.
func (z *Zoom) Settle() {
	if z.phase == models.ZoomExpanding {
		z.phase = models.ZoomExpanded
	}
}

// Collapse starts closing the overlay.
func (z *Zoom) Collapse() error {
	if z.phase != models.ZoomExpanded && z.phase != models.ZoomExpanding {
		return &services.ConflictError{Message: "No card is zoomed."}
	}
	z.phase = models.ZoomCollapsing
	return nil
}

// CollapseSettled finishes the collapse and computes where the card belongs
// in the current collection: immediately after its remembered prior
// sibling, or at the front when it had none or the sibling has since been
// removed.
func (z *Zoom) CollapseSettled(state *models.ApplicationState) (int, error) {
	if z.phase != models.ZoomCollapsing {
		return 0, &services.ConflictError{Message: "The overlay is not collapsing."}
	}

	restored := 0
	if z.hasAnchor {
		if _, pos := state.CardByID(z.anchorID); pos >= 0 {
			restored = pos + 1
		}
	}

	z.phase = models.ZoomCollapsed
	z.cardID = uuid.Nil
	z.anchorID = uuid.Nil
	z.hasAnchor = false
	return restored, nil
}

// Snapshot projects the overlay state for the wire.
func (z *Zoom) Snapshot() models.ZoomSnapshot {
	snap := models.ZoomSnapshot{Phase: z.phase}
	if z.phase != models.ZoomCollapsed {
		id := z.cardID
		snap.CardID = &id
	}
	return snap
}
