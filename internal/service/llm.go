package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/recipe"
)

const systemPrompt = `You are a professional chef. Reply with a single JSON object and nothing else:
{
    "name": "Recipe name",
    "description": "Brief description",
    "mealType": "BREAKFAST, LUNCH or DINNER",
    "recipeType": "MAIN, SIDE, DESSERT, SNACK or STARTER",
    "cuisineName": "Italian",
    "preparationTime": 30,
    "persons": 4,
    "ingredients": [
        {"name": "Garlic", "amount": 2, "unit": "CLOVE", "allergenType": null}
    ],
    "steps": [
        "Mince !2:CLOVE:Garlic! and fry it in oil."
    ]
}

preparationTime is in minutes and must be a number.
unit must be one of: %s.
allergenType is null or one of: %s.
Every ingredient used in a step must be written as !amount:unit:name! and appear in ingredients.
Write amounts as decimals, for example 0.5 rather than 1/2.`

// Message is one chat turn sent to the completion API.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// LLMService generates recipes with an OpenAI-compatible chat completion
// API. Replies that fail validation are sent back to the model together
// with the problem so it can correct itself.
type LLMService struct {
	client      *resty.Client
	model       string
	maxAttempts int
	log         *zap.Logger
}

func NewLLMService(apiURL, apiKey, model string, maxAttempts int, timeout time.Duration, log *zap.Logger) *LLMService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(apiURL, "/")).
		SetHeader("Authorization", "Bearer "+apiKey).
		SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &LLMService{
		client:      client,
		model:       model,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// GenerateRecipe asks the model for a recipe matching query that avoids
// allergens. It returns the validated recipe and the number of attempts it
// took, or the last validation error once every attempt is spent.
func (s *LLMService) GenerateRecipe(ctx context.Context, query string, allergens []models.AllergenType) (*recipe.Payload, int, error) {
	messages := []Message{
		{Role: "system", Content: buildSystemPrompt()},
		{Role: "user", Content: buildUserPrompt(query, allergens)},
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		content, err := s.complete(ctx, messages)
		if err != nil {
			return nil, attempt, err
		}

		payload, err := parseGenerated(content, allergens)
		if err == nil {
			s.log.Info("recipe generated", zap.Int("attempt", attempt), zap.String("name", payload.Name))
			return payload, attempt, nil
		}

		verr, ok := recipe.AsValidationError(err)
		if !ok {
			return nil, attempt, err
		}
		s.log.Warn("generated recipe rejected",
			zap.Int("attempt", attempt),
			zap.String("reason", verr.Message),
			zap.String("object", verr.Details()),
		)
		lastErr = err
		messages = append(messages,
			Message{Role: "assistant", Content: content},
			Message{Role: "user", Content: feedback(verr)},
		)
	}
	return nil, s.maxAttempts, fmt.Errorf("recipe generation failed after %d attempts: %w", s.maxAttempts, lastErr)
}

func (s *LLMService) complete(ctx context.Context, messages []Message) (string, error) {
	var result completionResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(completionRequest{
			Model:          s.model,
			Messages:       messages,
			ResponseFormat: map[string]string{"type": "json_object"},
			Temperature:    0.7,
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send completion request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("completion API returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	return result.Choices[0].Message.Content, nil
}

// parseGenerated decodes a model reply and runs it through the recipe
// validator. Malformed JSON and recipes that use a forbidden allergen are
// reported as validation errors so the model gets a chance to fix them.
func parseGenerated(content string, allergens []models.AllergenType) (*recipe.Payload, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(stripFences(content)), &raw); err != nil {
		return nil, &recipe.ValidationError{
			Message: fmt.Sprintf("reply is not a JSON object: %v", err),
			Object:  content,
		}
	}

	payload, err := recipe.ValidateRecipe(raw)
	if err != nil {
		return nil, err
	}

	forbidden := make(map[models.AllergenType]bool, len(allergens))
	for _, a := range allergens {
		forbidden[a] = true
	}
	for _, ing := range payload.Ingredients {
		if ing.AllergenType != nil && forbidden[*ing.AllergenType] {
			return nil, &recipe.ValidationError{
				Message: fmt.Sprintf("ingredient %q contains %s, which must be avoided", ing.Name, *ing.AllergenType),
				Object:  ing,
			}
		}
	}
	return payload, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func feedback(verr *recipe.ValidationError) string {
	msg := "Your recipe was rejected: " + verr.Message + "."
	if details := verr.Details(); details != "" {
		msg += "\nOffending value: " + details
	}
	return msg + "\nReply with the corrected recipe as a single JSON object."
}

func buildSystemPrompt() string {
	units := make([]string, len(models.Units))
	for i, u := range models.Units {
		units[i] = string(u)
	}
	allergens := make([]string, len(models.AllergenTypes))
	for i, a := range models.AllergenTypes {
		allergens[i] = string(a)
	}
	return fmt.Sprintf(systemPrompt, strings.Join(units, ", "), strings.Join(allergens, ", "))
}

func buildUserPrompt(query string, allergens []models.AllergenType) string {
	prompt := "Generate a recipe for: " + query
	if len(allergens) > 0 {
		names := make([]string, len(allergens))
		for i, a := range allergens {
			names[i] = string(a)
		}
		prompt += ". No ingredient may contain: " + strings.Join(names, ", ")
	}
	return prompt
}
