package services

import (
	"encoding/json"
	"regexp"
	"strings"

	"flashdeck-backend/internal/models"
)

// ImportResult carries a parsed collection plus the count reported back to
// the user.
type ImportResult struct {
	State    *models.ApplicationState
	Imported int
}

// ParseImport dispatches on the file extension. Anything other than .txt or
// .json is rejected.
func ParseImport(filename string, content []byte) (*ImportResult, error) {
	switch {
	case strings.HasSuffix(filename, ".json"):
		return ParseJSON(content)
	case strings.HasSuffix(filename, ".txt"):
		return ParseText(content)
	default:
		return nil, &ValidationError{Message: "Unsupported file type. Please select a .txt or .json file."}
	}
}

// ParseText parses the delimited format: an optional "topic: <text>" header
// line (case-insensitive prefix), then one "term:definition" pair per
// non-blank line, split at the first colon so definitions keep embedded
// colons. Lines without a colon are silently skipped. Text imports are
// never location-based.
func ParseText(content []byte) (*ImportResult, error) {
	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	state := models.NewApplicationState()
	if len(lines) > 0 && strings.HasPrefix(strings.ToLower(lines[0]), "topic:") {
		state.Topic = strings.TrimSpace(lines[0][len("topic:"):])
		lines = lines[1:]
	}

	for _, line := range lines {
		sep := strings.Index(line, ":")
		if sep <= 0 {
			continue
		}
		state.Flashcards = append(state.Flashcards, models.Flashcard{
			Term:       strings.TrimSpace(line[:sep]),
			Definition: strings.TrimSpace(line[sep+1:]),
		})
	}

	state.Normalize()
	return &ImportResult{State: state, Imported: len(state.Flashcards)}, nil
}

// ParseJSON parses the exported ApplicationState shape. All fields are
// optional except that a present "flashcards" must be an array.
func ParseJSON(content []byte) (*ImportResult, error) {
	var raw struct {
		Topic           string           `json:"topic"`
		Flashcards      json.RawMessage  `json:"flashcards"`
		Location        *models.Location `json:"location"`
		IsLocationBased bool             `json:"isLocationBased"`
	}
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, &ValidationError{Message: "Invalid JSON file format."}
	}

	state := models.NewApplicationState()
	state.Topic = raw.Topic
	state.Location = raw.Location
	state.IsLocationBased = raw.IsLocationBased

	if len(raw.Flashcards) > 0 && string(raw.Flashcards) != "null" {
		if err := json.Unmarshal(raw.Flashcards, &state.Flashcards); err != nil {
			return nil, &TypeMismatchError{Message: "Invalid JSON: 'flashcards' is not an array."}
		}
	}

	state.Normalize()
	return &ImportResult{State: state, Imported: len(state.Flashcards)}, nil
}

// ExportJSON serializes the state as indented JSON, the exact shape the
// importer accepts back.
func ExportJSON(state *models.ApplicationState) ([]byte, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, &IOError{Message: "Failed to serialize flashcards."}
	}
	return data, nil
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9_-]`)
var slugSpaces = regexp.MustCompile(`\s+`)

// ExportFilename derives a download filename from the topic: lowercase,
// whitespace collapsed to underscores, anything outside [a-z0-9_-] dropped,
// truncated to 30 characters, "export" when nothing survives.
func ExportFilename(topic string) string {
	slug := strings.ToLower(strings.TrimSpace(topic))
	slug = slugSpaces.ReplaceAllString(slug, "_")
	slug = slugInvalid.ReplaceAllString(slug, "")
	if len(slug) > 30 {
		slug = slug[:30]
	}
	if slug == "" {
		slug = "export"
	}
	return "flashcards_" + slug + ".json"
}
