package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"flashdeck-backend/internal/models"
)

// GeminiService is the boundary adapter to the generation service. It owns
// no state and performs no retries: a failed call surfaces immediately to
// the caller. Clients are built per call because the API key is supplied by
// the session, not the server.
type GeminiService struct {
	modelName string
}

func NewGeminiService(modelName string) *GeminiService {
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	return &GeminiService{modelName: modelName}
}

func (s *GeminiService) newModel(ctx context.Context, apiKey string) (*genai.Client, *genai.GenerativeModel, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(s.modelName)
	model.SetTemperature(0.3)
	model.SetTopP(0.95)
	model.ResponseMIMEType = "application/json"
	return client, model, nil
}

// GenerateFlashcards asks the model for a term/definition deck on the topic
// and validates the response against the expected schema.
func (s *GeminiService) GenerateFlashcards(ctx context.Context, apiKey, topic string) (*models.GenerationResult, error) {
	if apiKey == "" {
		return nil, &MissingCredentialError{Message: "Please provide your Gemini API key in the settings."}
	}
	if strings.TrimSpace(topic) == "" {
		return nil, &EmptyInputError{Message: "Please enter a topic or some terms and definitions."}
	}

	client, model, err := s.newModel(ctx, apiKey)
	if err != nil {
		return nil, &TransportError{Message: err.Error()}
	}
	defer client.Close()

	model.ResponseSchema = generationSchema()

	resp, err := model.GenerateContent(ctx, genai.Text(buildGenerationPrompt(strings.TrimSpace(topic))))
	if err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("Gemini API error: %v", err)}
	}

	rawText := stripCodeFence(extractText(resp))
	if rawText == "" {
		return nil, &SchemaViolationError{Message: "Failed to generate flashcards or received an empty response. Please try again."}
	}

	return parseGenerationResponse(rawText)
}

// GradeAnswer asks the model whether a free-text answer matches the card's
// definition. The response is assumed to carry both fields; only non-JSON
// output is rejected.
func (s *GeminiService) GradeAnswer(ctx context.Context, apiKey, term, definition, answer string) (*models.GradeResult, error) {
	if apiKey == "" {
		return nil, &MissingCredentialError{Message: "Please provide your Gemini API key in the settings."}
	}

	client, model, err := s.newModel(ctx, apiKey)
	if err != nil {
		return nil, &TransportError{Message: err.Error()}
	}
	defer client.Close()

	model.ResponseSchema = gradingSchema()

	resp, err := model.GenerateContent(ctx, genai.Text(buildGradingPrompt(term, definition, answer)))
	if err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("Gemini API error: %v", err)}
	}

	rawText := stripCodeFence(extractText(resp))

	var result models.GradeResult
	if err := json.Unmarshal([]byte(rawText), &result); err != nil {
		return nil, &SchemaViolationError{Message: "Could not understand the response from the AI. Please try again."}
	}
	return &result, nil
}

// parseGenerationResponse validates the raw model output and applies the
// defensive normalization: isLocationBased is coerced to a strict boolean
// and a location is accepted only when the classification is true and both
// city and country are non-empty strings.
func parseGenerationResponse(rawText string) (*models.GenerationResult, error) {
	var payload struct {
		Flashcards []struct {
			Term           string   `json:"term"`
			Definition     string   `json:"definition"`
			LanguageCode   string   `json:"languageCode"`
			SearchKeywords []string `json:"searchKeywords"`
		} `json:"flashcards"`
		Location        *models.Location `json:"location"`
		IsLocationBased interface{}      `json:"isLocationBased"`
	}
	if err := json.Unmarshal([]byte(rawText), &payload); err != nil {
		return nil, &SchemaViolationError{Message: "Could not understand the response from the AI. Please try again."}
	}
	if len(payload.Flashcards) == 0 {
		return nil, &SchemaViolationError{Message: "No valid flashcards could be generated. Please try a different topic or phrasing."}
	}

	result := &models.GenerationResult{
		Flashcards:      make([]models.Flashcard, 0, len(payload.Flashcards)),
		IsLocationBased: payload.IsLocationBased == true,
	}
	for _, c := range payload.Flashcards {
		result.Flashcards = append(result.Flashcards, models.Flashcard{
			Term:           c.Term,
			Definition:     c.Definition,
			LanguageCode:   c.LanguageCode,
			SearchKeywords: c.SearchKeywords,
		})
	}

	if result.IsLocationBased && payload.Location != nil &&
		payload.Location.City != "" && payload.Location.Country != "" {
		result.Location = payload.Location
	}

	return result, nil
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func buildGenerationPrompt(topic string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Generate flashcards for the topic: %q.\n", topic))
	b.WriteString(`1. The definition for each card must be comprehensive and detailed, ideally 2-3 sentences long.
2. Format both 'term' and 'definition' using simple Markdown (e.g., bolding, lists).
3. Critically, for each flashcard, you MUST determine if the 'term' is in a foreign (non-English) language. If it is, you MUST provide its BCP-47 language code (e.g., 'fr-FR' for 'Déjà vu', 'it-IT' for 'Adagio'). If the term is English, omit the languageCode field entirely or set it to null.
4. You must also determine if the topic is primarily location-based (e.g., 'Ancient Rome'). If it is, set isLocationBased to true and provide a representative city and country. If it is not (e.g., 'Quantum Physics'), set isLocationBased to false and the location to null.
5. For each flashcard, extract 2-4 of the most important keywords or proper nouns from the definition that would be useful for creating a more specific Google search. Provide them in a 'searchKeywords' array.
`)

	return b.String()
}

func buildGradingPrompt(term, definition, answer string) string {
	var b strings.Builder

	b.WriteString("You are grading a flashcard quiz answer. Judge meaning, not exact wording.\n\n")
	b.WriteString(fmt.Sprintf("Term: %s\n", term))
	b.WriteString(fmt.Sprintf("Correct definition: %s\n", definition))
	b.WriteString(fmt.Sprintf("Student's answer: %s\n\n", answer))
	b.WriteString(`Decide whether the student's answer captures the essential meaning of the correct definition. Minor omissions are acceptable; factual errors are not.

Return ONLY a JSON object: {"isCorrect": bool, "feedback": "one or two encouraging sentences explaining the verdict"}.
`)

	return b.String()
}

func generationSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"flashcards": {
				Type:        genai.TypeArray,
				Description: "A list of flashcards with terms and definitions.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"term":       {Type: genai.TypeString, Description: "The word or phrase to be learned, formatted in Markdown."},
						"definition": {Type: genai.TypeString, Description: "A detailed, multi-sentence explanation of the term, formatted in Markdown."},
						"languageCode": {
							Type:        genai.TypeString,
							Description: "BCP-47 language code of the term IF AND ONLY IF it is in a foreign language. Omit for English terms.",
						},
						"searchKeywords": {
							Type:        genai.TypeArray,
							Description: "2-4 key entities or proper nouns from the definition.",
							Items:       &genai.Schema{Type: genai.TypeString},
						},
					},
					Required: []string{"term", "definition"},
				},
			},
			"location": {
				Type:        genai.TypeObject,
				Description: "A relevant city and country for the topic, if it is location-based. Otherwise null.",
				Properties: map[string]*genai.Schema{
					"city":    {Type: genai.TypeString},
					"country": {Type: genai.TypeString},
				},
			},
			"isLocationBased": {
				Type:        genai.TypeBoolean,
				Description: "True if the topic is primarily about geographical locations.",
			},
		},
	}
}

func gradingSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"isCorrect": {Type: genai.TypeBoolean},
			"feedback":  {Type: genai.TypeString},
		},
		Required: []string{"isCorrect", "feedback"},
	}
}
