package recipe

import (
	"fmt"
	"strings"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
)

// markerDelimiter wraps an ingredient reference inside a step.
const markerDelimiter = "!"

// Ingredient is one entry of a recipe's ingredient list as seen by the
// step parser.
type Ingredient struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Amount       float64              `json:"amount" validate:"gte=0"`
	Unit         models.Unit          `json:"unit" validate:"required"`
	AllergenType *models.AllergenType `json:"allergenType,omitempty"`
}

func (i Ingredient) label() string {
	if i.Name != "" {
		return i.Name
	}
	return i.ID
}

// Marker is a resolved ingredient reference, written inside a step as
// !amount:unit:ingredientId!.
type Marker struct {
	Amount       float64     `json:"amount"`
	Unit         models.Unit `json:"unit"`
	IngredientID string      `json:"ingredientId"`
}

// String renders the marker body in canonical form, without delimiters.
func (m Marker) String() string {
	return fmt.Sprintf("%.2f:%s:%s", m.Amount, m.Unit, m.IngredientID)
}

func (m Marker) annotation() string {
	return markerDelimiter + m.String() + markerDelimiter
}

// ParseStep rewrites every ingredient reference in step into canonical
// marker form and reports how many references it resolved.
//
// Text between delimiters is a reference. A reference with exactly three
// colon-separated fields is read as amount, unit and ingredient name or id.
// Anything else is recovered by looking for a known ingredient name inside
// one of its fields, and the ingredient's own amount and unit are used.
// When the step has no references at all, ingredient names mentioned in
// the prose are fuzzy-matched and annotated in place.
func ParseStep(step string, ingredients []Ingredient) (string, int, error) {
	segments := strings.Split(step, markerDelimiter)

	var b strings.Builder
	count := 0
	for i, segment := range segments {
		if i%2 == 0 {
			b.WriteString(segment)
			continue
		}
		// an unterminated trailing delimiter is punctuation
		if i == len(segments)-1 {
			b.WriteString(markerDelimiter + segment)
			continue
		}
		marker, err := resolveMarker(segment, ingredients)
		if err != nil {
			return "", 0, err
		}
		b.WriteString(marker.annotation())
		count++
	}

	if count > 0 {
		return b.String(), count, nil
	}
	text, found := annotateMentions(b.String(), ingredients)
	return text, found, nil
}

func resolveMarker(segment string, ingredients []Ingredient) (Marker, error) {
	fields := strings.Split(segment, ":")
	if len(fields) == 3 {
		return resolveWellFormed(segment, fields, ingredients)
	}

	for _, field := range fields {
		if ing, ok := lastContainedIn(field, ingredients); ok {
			return Marker{Amount: ing.Amount, Unit: ing.Unit, IngredientID: ing.ID}, nil
		}
	}
	return Marker{}, newValidationError(
		map[string]interface{}{"reference": segment, "ingredients": ingredients},
		"could not find an ingredient for reference %q", segment,
	)
}

func resolveWellFormed(segment string, fields []string, ingredients []Ingredient) (Marker, error) {
	diagnostics := map[string]interface{}{"reference": segment, "ingredients": ingredients}

	amount, err := ParseAmount(fields[0])
	if err != nil {
		return Marker{}, newValidationError(diagnostics, "invalid amount %q in reference %q", fields[0], segment)
	}
	unit, ok := models.ParseUnit(fields[1])
	if !ok {
		return Marker{}, newValidationError(diagnostics, "invalid unit %q in reference %q", fields[1], segment)
	}
	ref := strings.TrimSpace(fields[2])
	ing, ok := lookupReference(ref, ingredients)
	if !ok {
		return Marker{}, newValidationError(diagnostics, "unknown ingredient %q in reference %q", ref, segment)
	}
	return Marker{Amount: amount, Unit: unit, IngredientID: ing.ID}, nil
}

// lookupReference matches ref against ingredient names, then ids, by
// substring in either direction.
func lookupReference(ref string, ingredients []Ingredient) (Ingredient, bool) {
	if ref == "" {
		return Ingredient{}, false
	}
	for _, ing := range ingredients {
		if ing.Name != "" && (containsFold(ref, ing.Name) || containsFold(ing.Name, ref)) {
			return ing, true
		}
	}
	for _, ing := range ingredients {
		if ing.ID != "" && (containsFold(ref, ing.ID) || containsFold(ing.ID, ref)) {
			return ing, true
		}
	}
	return Ingredient{}, false
}

// lastContainedIn returns the last ingredient in list order whose name
// appears in field. Later entries win over earlier ones.
func lastContainedIn(field string, ingredients []Ingredient) (Ingredient, bool) {
	var (
		found Ingredient
		ok    bool
	)
	for _, ing := range ingredients {
		if name := ing.label(); name != "" && containsFold(field, name) {
			found, ok = ing, true
		}
	}
	return found, ok
}

// annotateMentions splices a marker over each ingredient mentioned in the
// prose of step.
func annotateMentions(step string, ingredients []Ingredient) (string, int) {
	text := step
	count := 0
	for _, ing := range ingredients {
		name := ing.label()
		if tokenSetRatio(name, prose(text)) < fuzzyCutoff {
			continue
		}
		at, ok := locateInProse(text, name)
		if !ok {
			continue
		}
		marker := Marker{Amount: ing.Amount, Unit: ing.Unit, IngredientID: ing.ID}
		text = text[:at.start] + marker.annotation() + text[at.end:]
		count++
	}
	return text, count
}

// prose returns the text of step outside of markers.
func prose(step string) string {
	segments := strings.Split(step, markerDelimiter)
	parts := make([]string, 0, len(segments)/2+1)
	for i := 0; i < len(segments); i += 2 {
		parts = append(parts, segments[i])
	}
	return strings.Join(parts, " ")
}

// locateInProse runs locate over the text outside markers and returns the
// best hit as offsets into the full step.
func locateInProse(step, name string) (span, bool) {
	segments := strings.Split(step, markerDelimiter)
	offset := 0
	best, bestScore := span{}, -1
	for i, segment := range segments {
		if i%2 == 0 {
			if at, score := locate(segment, name); score > bestScore {
				best = span{offset + at.start, offset + at.end}
				bestScore = score
			}
		}
		offset += len(segment) + len(markerDelimiter)
	}
	return best, bestScore >= 0
}
