package recipe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-planner/backend/internal/recipe"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"2", 2},
		{" 1.5 ", 1.5},
		{"1/2", 0.5},
		{"3/4", 0.75},
		{"1 1/2", 1.5},
		{"2  1/4", 2.25},
	}
	for _, tt := range tests {
		got, err := recipe.ParseAmount(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}

	for _, in := range []string{"", "lots", "1/0", "a/2", "1/2/3", "1 2", "-1/2", "1 1/2 cups"} {
		_, err := recipe.ParseAmount(in)
		assert.Error(t, err, in)
	}
}
