package recipe

import (
	"strings"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
)

// Reference is a well-formed marker as it appears in a step, before the
// reference has been resolved against an ingredient list.
type Reference struct {
	Amount float64
	Unit   models.Unit
	Ref    string
}

// ExtractReferences returns every well-formed amount:unit:ref marker found
// in steps, in order. Malformed markers are skipped.
func ExtractReferences(steps []string) []Reference {
	var refs []Reference
	for _, step := range steps {
		segments := strings.Split(step, markerDelimiter)
		// the last odd segment is only a marker if it was closed
		for i := 1; i < len(segments)-1; i += 2 {
			fields := strings.Split(segments[i], ":")
			if len(fields) != 3 {
				continue
			}
			amount, err := ParseAmount(fields[0])
			if err != nil {
				continue
			}
			unit, ok := models.ParseUnit(fields[1])
			if !ok {
				continue
			}
			ref := strings.TrimSpace(fields[2])
			if ref == "" {
				continue
			}
			refs = append(refs, Reference{Amount: amount, Unit: unit, Ref: ref})
		}
	}
	return refs
}

// ExtractMarkers returns the (amount, unit, ingredient id) triples of the
// canonical markers in steps.
func ExtractMarkers(steps []string) []Marker {
	refs := ExtractReferences(steps)
	markers := make([]Marker, 0, len(refs))
	for _, r := range refs {
		markers = append(markers, Marker{Amount: r.Amount, Unit: r.Unit, IngredientID: r.Ref})
	}
	return markers
}

// Usage is how much of one ingredient the steps have consumed in one unit.
type Usage struct {
	IngredientID string      `json:"ingredientId"`
	Unit         models.Unit `json:"unit"`
	Used         float64     `json:"used"`
}

// UsedThrough sums the marker amounts per ingredient and unit over steps
// 0..step inclusive, in order of first use. A step beyond the end counts
// every step.
func UsedThrough(steps []string, step int) []Usage {
	if step < 0 {
		return nil
	}
	if step >= len(steps) {
		step = len(steps) - 1
	}

	type key struct {
		id   string
		unit models.Unit
	}
	index := map[key]int{}
	var usage []Usage
	for _, m := range ExtractMarkers(steps[:step+1]) {
		k := key{m.IngredientID, m.Unit}
		if i, ok := index[k]; ok {
			usage[i].Used += m.Amount
			continue
		}
		index[k] = len(usage)
		usage = append(usage, Usage{IngredientID: m.IngredientID, Unit: m.Unit, Used: m.Amount})
	}
	return usage
}
