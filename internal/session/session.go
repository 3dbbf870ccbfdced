package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/services"
)

// Action classes gated to at most one in-flight request each.
const (
	ActionGenerate = "generate"
	ActionGrade    = "grade"
)

// Session is the per-client runtime: the loaded ApplicationState plus the
// ephemeral quiz, zoom and edit state that is never persisted. All access
// goes through the mutex; the HTTP layer is the only writer and operates on
// one session at a time per request.
type Session struct {
	mu sync.Mutex

	ID    string
	State *models.ApplicationState
	Quiz  *Quiz
	Zoom  *Zoom

	editing  map[uuid.UUID]bool
	inFlight map[string]bool
	hydrated bool
	lastSeen time.Time
}

func newSession(id string) *Session {
	return &Session{
		ID:       id,
		State:    models.NewApplicationState(),
		Quiz:     NewQuiz(),
		Zoom:     NewZoom(),
		editing:  make(map[uuid.UUID]bool),
		inFlight: make(map[string]bool),
		lastSeen: time.Now(),
	}
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Hydrated reports whether the persisted state has been loaded into this
// runtime session. Callers must hold the lock.
func (s *Session) Hydrated() bool { return s.hydrated }
func (s *Session) MarkHydrated()  { s.hydrated = true }

// BeginAction claims the in-flight slot for an action class. The caller
// must release it with EndAction. A second submission while one is running
// is rejected, mirroring the disabled button in the UI.
func (s *Session) BeginAction(class string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[class] {
		return &services.ConflictError{Message: "A request is already in progress. Please wait for it to finish."}
	}
	s.inFlight[class] = true
	return nil
}

func (s *Session) EndAction(class string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, class)
}

// BeginEdit puts card i into edit mode. Edit mode is an explicit per-card
// flag, keyed by card identity so a re-rendered collection cannot misbind
// the draft.
func (s *Session) BeginEdit(index int) error {
	if index < 0 || index >= len(s.State.Flashcards) {
		return &services.NotFoundError{Message: "Flashcard not found."}
	}
	card := &s.State.Flashcards[index]
	if s.Zoom.FocusedCard() == card.ID {
		return &services.ConflictError{Message: "Cannot edit a zoomed card."}
	}
	s.editing[card.ID] = true
	return nil
}

// SaveEdit replaces card i's term and definition (trimmed), preserving its
// identity, language code and search keywords.
func (s *Session) SaveEdit(index int, term, definition string) error {
	if index < 0 || index >= len(s.State.Flashcards) {
		return &services.NotFoundError{Message: "Flashcard not found."}
	}
	card := &s.State.Flashcards[index]
	card.Term = strings.TrimSpace(term)
	card.Definition = strings.TrimSpace(definition)
	delete(s.editing, card.ID)
	return nil
}

func (s *Session) CancelEdit(index int) error {
	if index < 0 || index >= len(s.State.Flashcards) {
		return &services.NotFoundError{Message: "Flashcard not found."}
	}
	delete(s.editing, s.State.Flashcards[index].ID)
	return nil
}

func (s *Session) IsEditing(id uuid.UUID) bool {
	return s.editing[id]
}

// ReplaceState swaps in a new ApplicationState and drops edit state bound
// to cards that no longer exist. The quiz session is untouched: it owns a
// frozen copy of the cards it was started with.
func (s *Session) ReplaceState(state *models.ApplicationState) {
	s.State = state
	s.editing = make(map[uuid.UUID]bool)
}

// Manager is the in-memory session registry. Idle entries are evicted on a
// periodic sweep.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewManager(ttl time.Duration) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}

	// Cleanup goroutine
	go func() {
		for {
			time.Sleep(ttl)
			m.mu.Lock()
			for id, sess := range m.sessions {
				if time.Since(sess.lastSeen) > ttl {
					delete(m.sessions, id)
				}
			}
			m.mu.Unlock()
		}
	}()

	return m
}

// Get returns the runtime session for an ID, creating it on first use.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		sess = newSession(id)
		m.sessions[id] = sess
	}
	sess.lastSeen = time.Now()
	return sess
}
