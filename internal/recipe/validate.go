package recipe

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
)

var (
	validate      = validator.New()
	digitsPattern = regexp.MustCompile(`\d+`)
)

// Payload is a recipe that passed validation: every step is in canonical
// marker form and every marker resolves to an entry of Ingredients.
type Payload struct {
	Name            string            `json:"name" validate:"required"`
	Description     string            `json:"description"`
	MealType        models.MealType   `json:"mealType" validate:"required"`
	PreparationTime int               `json:"preparationTime" validate:"gte=0"`
	CuisineName     string            `json:"cuisineName" validate:"required"`
	Persons         *int              `json:"persons,omitempty" validate:"omitempty,gt=0"`
	RecipeType      models.RecipeType `json:"recipeType" validate:"required"`
	Steps           []string          `json:"steps" validate:"required,min=1,dive,required"`
	Ingredients     []Ingredient      `json:"ingredients" validate:"required,min=1,dive"`
}

// ValidateRecipe turns a loosely typed recipe object, as produced by an AI
// generator or a scraper, into a Payload. Rules are checked field by field
// and the first violation is returned as a *ValidationError carrying the
// offending object.
func ValidateRecipe(raw map[string]interface{}) (*Payload, error) {
	if raw == nil {
		return nil, newValidationError(raw, "recipe must be an object")
	}
	p := &Payload{}

	name, _ := raw["name"].(string)
	if strings.TrimSpace(name) == "" {
		name, _ = raw["recipeName"].(string)
	}
	if strings.TrimSpace(name) == "" {
		return nil, newValidationError(raw, "recipe name is required")
	}
	p.Name = strings.TrimSpace(name)
	p.Description, _ = raw["description"].(string)

	p.MealType = models.MealTypeDinner
	if v, present := raw["mealType"]; present && v != nil {
		s, _ := v.(string)
		mt, ok := models.ParseMealType(s)
		if !ok {
			return nil, newValidationError(raw, "invalid meal type %v", v)
		}
		p.MealType = mt
	}

	prep, ok := number(raw["preparationTime"])
	if !ok {
		return nil, newValidationError(raw, "preparation time must be a number of minutes")
	}
	p.PreparationTime = int(math.Round(prep))

	cuisine, _ := raw["cuisineName"].(string)
	if strings.TrimSpace(cuisine) == "" {
		return nil, newValidationError(raw, "cuisine name is required")
	}
	p.CuisineName = strings.TrimSpace(cuisine)

	steps, ok := stringList(raw["steps"])
	if !ok || len(steps) == 0 {
		return nil, newValidationError(raw, "steps must be a non-empty list of strings")
	}

	if list, isList := raw["ingredients"].([]interface{}); isList {
		ingredients, err := validateIngredients(list)
		if err != nil {
			return nil, err
		}
		p.Ingredients = ingredients
		p.Steps = make([]string, 0, len(steps))
		total := 0
		for _, step := range steps {
			text, n, err := ParseStep(step, ingredients)
			if err != nil {
				return nil, err
			}
			p.Steps = append(p.Steps, text)
			total += n
		}
		if total == 0 {
			return nil, newValidationError(raw, "no ingredient is referenced by any step")
		}
	} else {
		derived := deriveIngredients(steps)
		if len(derived) == 0 {
			return nil, newValidationError(raw, "recipe has no ingredients")
		}
		retry := make(map[string]interface{}, len(raw)+1)
		for k, v := range raw {
			retry[k] = v
		}
		retry["ingredients"] = derived
		return ValidateRecipe(retry)
	}

	p.Persons = persons(raw["persons"])

	p.RecipeType = models.RecipeTypeMain
	if s, isString := raw["recipeType"].(string); isString {
		if rt, ok := models.ParseRecipeType(s); ok {
			p.RecipeType = rt
		}
	}

	if err := validate.Struct(p); err != nil {
		return nil, newValidationError(raw, "recipe is incomplete: %v", err)
	}
	return p, nil
}

func validateIngredients(list []interface{}) ([]Ingredient, error) {
	ingredients := make([]Ingredient, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, newValidationError(item, "ingredient must be an object")
		}
		ing, err := validateIngredient(obj)
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, nil
}

func validateIngredient(obj map[string]interface{}) (Ingredient, error) {
	name, _ := obj["name"].(string)
	id, _ := obj["id"].(string)
	name, id = strings.TrimSpace(name), strings.TrimSpace(id)
	if name == "" && id == "" {
		return Ingredient{}, newValidationError(obj, "ingredient needs a name or an id")
	}
	if name == "" {
		name = id
	}
	if id == "" {
		id = name
	}
	id = NormalizeID(id)
	if id == "" {
		return Ingredient{}, newValidationError(obj, "ingredient %q has no usable id", name)
	}

	amount, ok := number(obj["amount"])
	if !ok {
		if s, isString := obj["amount"].(string); isString {
			parsed, err := ParseAmount(s)
			ok = err == nil
			amount = parsed
		}
	}
	if !ok || amount < 0 {
		return Ingredient{}, newValidationError(obj, "ingredient %q needs a numeric amount", name)
	}

	unitName, _ := obj["unit"].(string)
	unit, ok := models.ParseUnit(unitName)
	if !ok {
		return Ingredient{}, newValidationError(obj, "ingredient %q has invalid unit %q", name, unitName)
	}

	ing := Ingredient{ID: id, Name: name, Amount: amount, Unit: unit}
	if at, ok := allergenOf(obj); ok {
		ing.AllergenType = &at
	}
	return ing, nil
}

// allergenOf reads allergenType, or the first entry of allergenTypes.
// Unknown allergen names are ignored.
func allergenOf(obj map[string]interface{}) (models.AllergenType, bool) {
	if s, ok := obj["allergenType"].(string); ok {
		return models.ParseAllergenType(s)
	}
	if list, ok := obj["allergenTypes"].([]interface{}); ok && len(list) > 0 {
		if s, ok := list[0].(string); ok {
			return models.ParseAllergenType(s)
		}
	}
	return "", false
}

// deriveIngredients builds an ingredient list from the well-formed markers
// already present in steps. Identical references collapse into one entry;
// references to the same name with another amount or unit are summed.
func deriveIngredients(steps []string) []interface{} {
	type entry struct {
		name   string
		amount float64
		unit   models.Unit
	}
	var order []string
	byName := map[string]*entry{}
	for _, ref := range ExtractReferences(steps) {
		key := strings.ToLower(ref.Ref)
		e, seen := byName[key]
		if !seen {
			byName[key] = &entry{name: ref.Ref, amount: ref.Amount, unit: ref.Unit}
			order = append(order, key)
			continue
		}
		if e.unit == ref.Unit && e.amount == ref.Amount {
			continue
		}
		e.amount += ref.Amount
	}

	derived := make([]interface{}, 0, len(order))
	for _, key := range order {
		e := byName[key]
		derived = append(derived, map[string]interface{}{
			"name":   e.name,
			"amount": e.amount,
			"unit":   string(e.unit),
		})
	}
	return derived
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func stringList(v interface{}) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// persons accepts a number or the first run of digits in a string.
func persons(v interface{}) *int {
	var n int
	if f, ok := number(v); ok {
		n = int(math.Round(f))
	} else if s, ok := v.(string); ok {
		digits := digitsPattern.FindString(s)
		if digits == "" {
			return nil
		}
		parsed, err := strconv.Atoi(digits)
		if err != nil {
			return nil
		}
		n = parsed
	} else {
		return nil
	}
	if n <= 0 {
		return nil
	}
	return &n
}
