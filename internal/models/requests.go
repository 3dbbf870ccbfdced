package models

// GenerateFlashcardsRequest asks the generation service for a new deck.
type GenerateFlashcardsRequest struct {
	Topic string `json:"topic"`
}

// GenerationResult is the normalized outcome of a generation call.
type GenerationResult struct {
	Flashcards      []Flashcard `json:"flashcards"`
	Location        *Location   `json:"location"`
	IsLocationBased bool        `json:"isLocationBased"`
}

type UpdateCardRequest struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

type SetAPIKeyRequest struct {
	APIKey string `json:"api_key"`
}

// Pronunciation describes a speech-synthesis utterance for a foreign-language
// term: the text to speak and its BCP-47 tag.
type Pronunciation struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// API Error response
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
