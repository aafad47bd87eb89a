package service

import (
	"hash/fnv"
	"math"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
)

// EmbeddingDimensions must match the vector column width.
const EmbeddingDimensions = 3

// GenerateEmbedding returns a deterministic unit vector for text. Every word
// is hashed into one of the dimensions with a sign taken from the hash, so
// texts sharing words point the same way.
func GenerateEmbedding(text string) pgvector.Vector {
	v := make([]float32, EmbeddingDimensions)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(strings.Trim(word, ".,;:!?()\"'")))
		sum := h.Sum32()
		sign := float32(1)
		if sum&1 == 1 {
			sign = -1
		}
		v[(sum>>1)%EmbeddingDimensions] += sign
	}

	var norm float64
	for _, x := range v {
		norm += float64(x * x)
	}
	if norm > 0 {
		n := float32(math.Sqrt(norm))
		for i := range v {
			v[i] /= n
		}
	}
	return pgvector.NewVector(v)
}

// RecipeEmbedding embeds the parts of a recipe that describe what it is.
func RecipeEmbedding(r *models.Recipe) pgvector.Vector {
	parts := []string{r.Name, r.CuisineName, string(r.MealType), string(r.RecipeType)}
	for _, ri := range r.Ingredients {
		parts = append(parts, ri.IngredientID)
	}
	return GenerateEmbedding(strings.Join(parts, " "))
}
