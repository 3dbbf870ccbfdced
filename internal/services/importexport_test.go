package services

import (
	"testing"

	"flashdeck-backend/internal/models"
)

func TestParseText_TopicHeaderAndEmbeddedColons(t *testing.T) {
	input := "topic: Capitals\na:b\nc:d:e\nbadline"

	result, err := ParseText([]byte(input))
	if err != nil {
		t.Fatalf("ParseText returned error: %v", err)
	}

	if result.State.Topic != "Capitals" {
		t.Errorf("Expected topic 'Capitals', got %q", result.State.Topic)
	}
	if len(result.State.Flashcards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(result.State.Flashcards))
	}
	if result.State.Flashcards[0].Term != "a" || result.State.Flashcards[0].Definition != "b" {
		t.Errorf("Card 0 = %q:%q, want a:b", result.State.Flashcards[0].Term, result.State.Flashcards[0].Definition)
	}
	if result.State.Flashcards[1].Term != "c" || result.State.Flashcards[1].Definition != "d:e" {
		t.Errorf("Card 1 = %q:%q, want c:'d:e'", result.State.Flashcards[1].Term, result.State.Flashcards[1].Definition)
	}
}

func TestParseText_NeverLocationBased(t *testing.T) {
	result, err := ParseText([]byte("Paris:Capital of France"))
	if err != nil {
		t.Fatalf("ParseText returned error: %v", err)
	}
	if result.State.IsLocationBased {
		t.Error("Text imports must not be location-based")
	}
	if result.State.Location != nil {
		t.Error("Text imports must have a nil location")
	}
}

func TestParseText_EdgeLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cards int
		topic string
	}{
		{"blank lines skipped", "a:b\n\n\nc:d\n", 2, ""},
		{"leading colon skipped", ":no term\na:b", 1, ""},
		{"case-insensitive topic", "TOPIC: Rome\na:b", 1, "Rome"},
		{"topic only", "topic: Alone", 0, "Alone"},
		{"empty input", "", 0, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseText([]byte(tc.input))
			if err != nil {
				t.Fatalf("ParseText returned error: %v", err)
			}
			if len(result.State.Flashcards) != tc.cards {
				t.Errorf("Expected %d cards, got %d", tc.cards, len(result.State.Flashcards))
			}
			if result.State.Topic != tc.topic {
				t.Errorf("Expected topic %q, got %q", tc.topic, result.State.Topic)
			}
		})
	}
}

func TestParseJSON_FlashcardsNotArray(t *testing.T) {
	_, err := ParseJSON([]byte(`{"topic":"x","flashcards":"oops"}`))
	if err == nil {
		t.Fatal("Expected error for non-array flashcards")
	}
	if _, ok := err.(*TypeMismatchError); !ok {
		t.Errorf("Expected TypeMismatchError, got %T", err)
	}
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	_, err := ParseJSON([]byte(`{not json`))
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("Expected ValidationError, got %T", err)
	}
}

func TestParseJSON_MissingFieldsDefault(t *testing.T) {
	result, err := ParseJSON([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseJSON returned error: %v", err)
	}
	if result.State.Topic != "" || len(result.State.Flashcards) != 0 {
		t.Error("Expected empty defaults for missing fields")
	}
	if result.State.Flashcards == nil {
		t.Error("Flashcards must be an empty slice, not nil")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	state := models.NewApplicationState()
	state.Topic = "French Phrases"
	state.Flashcards = []models.Flashcard{
		{
			Term:           "Déjà vu",
			Definition:     "The feeling of having already experienced the present situation.",
			LanguageCode:   "fr-FR",
			SearchKeywords: []string{"psychology", "memory"},
		},
		{Term: "plain", Definition: "no extras"},
	}
	state.Normalize()

	data, err := ExportJSON(state)
	if err != nil {
		t.Fatalf("ExportJSON returned error: %v", err)
	}

	result, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON returned error: %v", err)
	}

	got := result.State
	if got.Topic != state.Topic {
		t.Errorf("Topic = %q, want %q", got.Topic, state.Topic)
	}
	if len(got.Flashcards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(got.Flashcards))
	}
	if got.Flashcards[0].LanguageCode != "fr-FR" {
		t.Errorf("languageCode not preserved: %q", got.Flashcards[0].LanguageCode)
	}
	if len(got.Flashcards[0].SearchKeywords) != 2 || got.Flashcards[0].SearchKeywords[0] != "psychology" {
		t.Errorf("searchKeywords not preserved: %v", got.Flashcards[0].SearchKeywords)
	}
	if got.IsLocationBased != state.IsLocationBased || got.Location != nil {
		t.Error("Location fields not preserved")
	}
}

func TestParseImport_UnsupportedExtension(t *testing.T) {
	_, err := ParseImport("cards.csv", []byte("a:b"))
	if err == nil {
		t.Fatal("Expected error for unsupported extension")
	}
}

func TestExportFilename(t *testing.T) {
	tests := []struct {
		name     string
		topic    string
		expected string
	}{
		{"punctuation stripped", "Ancient Rome! 101", "flashcards_ancient_rome_101.json"},
		{"empty topic", "", "flashcards_export.json"},
		{"whitespace only", "   ", "flashcards_export.json"},
		{"all invalid chars", "!!!", "flashcards_export.json"},
		{"collapses whitespace", "a  b\tc", "flashcards_a_b_c.json"},
		{"truncated to 30", "abcdefghijklmnopqrstuvwxyz0123456789", "flashcards_abcdefghijklmnopqrstuvwxyz0123.json"},
		{"keeps dash and underscore", "self-paced_review", "flashcards_self-paced_review.json"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExportFilename(tc.topic)
			if got != tc.expected {
				t.Errorf("ExportFilename(%q) = %q, want %q", tc.topic, got, tc.expected)
			}
		})
	}
}
