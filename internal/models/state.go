package models

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Flashcard is a single term/definition study unit. Term and definition are
// markdown text, rendered on the client, never executed. A non-empty
// LanguageCode marks the term as non-English and eligible for speech
// synthesis; empty means English.
type Flashcard struct {
	ID             uuid.UUID `json:"id"`
	Term           string    `json:"term"`
	Definition     string    `json:"definition"`
	LanguageCode   string    `json:"languageCode,omitempty"`
	SearchKeywords []string  `json:"searchKeywords,omitempty"`
}

// Location is present only for location-based collections.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// ApplicationState is the exact shape persisted per session and used for
// JSON export. Invariant: Location is non-nil only when IsLocationBased is
// true. IsLocationBased true with a nil Location is valid (unresolved).
type ApplicationState struct {
	Topic           string      `json:"topic"`
	Flashcards      []Flashcard `json:"flashcards"`
	Location        *Location   `json:"location"`
	IsLocationBased bool        `json:"isLocationBased"`
}

func NewApplicationState() *ApplicationState {
	return &ApplicationState{Flashcards: []Flashcard{}}
}

// Reset clears the collection, location and classification. The topic is
// left alone: a failed import or a fresh generation keeps whatever the user
// typed.
func (s *ApplicationState) Reset() {
	s.Flashcards = []Flashcard{}
	s.Location = nil
	s.IsLocationBased = false
}

// Normalize enforces the state invariants after deserialization or import:
// every card gets a stable ID, a nil card slice becomes empty, and a
// location that contradicts the classification is dropped.
func (s *ApplicationState) Normalize() {
	if s.Flashcards == nil {
		s.Flashcards = []Flashcard{}
	}
	for i := range s.Flashcards {
		if s.Flashcards[i].ID == uuid.Nil {
			s.Flashcards[i].ID = uuid.New()
		}
	}
	if !s.IsLocationBased {
		s.Location = nil
	}
	if s.Location != nil && (s.Location.City == "" || s.Location.Country == "") {
		s.Location = nil
	}
}

// CardByID returns the card with the given ID and its position, or -1.
func (s *ApplicationState) CardByID(id uuid.UUID) (*Flashcard, int) {
	for i := range s.Flashcards {
		if s.Flashcards[i].ID == id {
			return &s.Flashcards[i], i
		}
	}
	return nil, -1
}

// CardView is a flashcard as projected to the client: the record plus its
// derived search link and edit-mode flag.
type CardView struct {
	Flashcard
	SearchLink SearchLink `json:"search_link"`
	Editing    bool       `json:"editing"`
}

// SearchLink is the per-card external search URL projected alongside the
// collection. A resolved location-based collection links to a map search;
// everything else links to a web search with the card's keywords appended.
type SearchLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

func (s *ApplicationState) SearchLinkFor(card *Flashcard) SearchLink {
	if s.IsLocationBased && s.Location != nil {
		query := card.Term + ", " + s.Location.City + ", " + s.Location.Country
		return SearchLink{
			Label: "Search on Map",
			URL:   "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query),
		}
	}
	query := card.Term
	if len(card.SearchKeywords) > 0 {
		query += " " + strings.Join(card.SearchKeywords, " ")
	}
	return SearchLink{
		Label: "Google Search",
		URL:   "https://www.google.com/search?q=" + url.QueryEscape(query),
	}
}
