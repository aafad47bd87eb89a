package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/recipe"
	"github.com/pageza/alchemorsel-planner/backend/internal/service"
)

type chatRequest struct {
	Model    string            `json:"model"`
	Messages []service.Message `json:"messages"`
}

// fakeCompletions replies with one canned content per call and records
// the requests it saw.
type fakeCompletions struct {
	mu       sync.Mutex
	replies  []string
	requests []chatRequest
}

func (f *fakeCompletions) server(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		f.mu.Lock()
		n := len(f.requests)
		f.requests = append(f.requests, req)
		f.mu.Unlock()

		if n >= len(f.replies) {
			http.Error(w, "no more replies", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": f.replies[n]}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

const generatedRecipe = `{
	"name": "Tomato Soup",
	"mealType": "LUNCH",
	"recipeType": "STARTER",
	"cuisineName": "French",
	"preparationTime": 30,
	"ingredients": [{"name": "Tomato", "amount": 6, "unit": "PIECE"}],
	"steps": ["Simmer !6:PIECE:tomato! for 20 minutes."]
}`

func newLLM(url string, attempts int) *service.LLMService {
	return service.NewLLMService(url, "test-key", "test-model", attempts, 0, zap.NewNop())
}

func TestGenerateRecipe(t *testing.T) {
	fake := &fakeCompletions{replies: []string{"```json\n" + generatedRecipe + "\n```"}}
	srv := fake.server(t)

	p, attempts, err := newLLM(srv.URL, 3).GenerateRecipe(context.Background(), "tomato soup", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, "Tomato Soup", p.Name)
	assert.Equal(t, []string{"Simmer !6.00:PIECE:tomato! for 20 minutes."}, p.Steps)

	require.Len(t, fake.requests, 1)
	assert.Equal(t, "test-model", fake.requests[0].Model)
	assert.Contains(t, fake.requests[0].Messages[1].Content, "tomato soup")
}

func TestGenerateRecipeRetriesWithFeedback(t *testing.T) {
	fake := &fakeCompletions{replies: []string{
		`{"name": "Tomato Soup", "preparationTime": 30, "steps": ["Simmer !6:PIECE:tomato!."]}`,
		generatedRecipe,
	}}
	srv := fake.server(t)

	p, attempts, err := newLLM(srv.URL, 3).GenerateRecipe(context.Background(), "tomato soup", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "French", p.CuisineName)

	require.Len(t, fake.requests, 2)
	retry := fake.requests[1].Messages
	require.Len(t, retry, 4)
	assert.Equal(t, "assistant", retry[2].Role)
	assert.Equal(t, "user", retry[3].Role)
	assert.Contains(t, retry[3].Content, "cuisine name is required")
}

func TestGenerateRecipeRejectsForbiddenAllergen(t *testing.T) {
	nutty := `{
		"name": "Pesto", "cuisineName": "Italian", "preparationTime": 10,
		"ingredients": [{"name": "Pine nuts", "amount": 30, "unit": "GRAM", "allergenType": "NUT"}],
		"steps": ["Toast !30:GRAM:pine nuts!."]
	}`
	fake := &fakeCompletions{replies: []string{nutty, nutty}}
	srv := fake.server(t)

	_, attempts, err := newLLM(srv.URL, 2).GenerateRecipe(context.Background(), "pesto", []models.AllergenType{models.AllergenNut})
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
	verr, ok := recipe.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Message, "NUT")
	assert.Contains(t, fake.requests[0].Messages[1].Content, "NUT")
}

func TestGenerateRecipeGivesUpAfterMaxAttempts(t *testing.T) {
	fake := &fakeCompletions{replies: []string{"not json", "still not json", "nope"}}
	srv := fake.server(t)

	_, attempts, err := newLLM(srv.URL, 3).GenerateRecipe(context.Background(), "anything", nil)
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Len(t, fake.requests, 3)
}

func TestGenerateRecipeAPIError(t *testing.T) {
	fake := &fakeCompletions{}
	srv := fake.server(t)

	_, _, err := newLLM(srv.URL, 3).GenerateRecipe(context.Background(), "anything", nil)
	require.Error(t, err)
	_, isValidation := recipe.AsValidationError(err)
	assert.False(t, isValidation)
	assert.Len(t, fake.requests, 1)
}
