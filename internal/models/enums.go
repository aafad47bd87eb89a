package models

import "strings"

// MealType is the slot of the day a recipe is meant for.
type MealType string

const (
	MealTypeBreakfast MealType = "BREAKFAST"
	MealTypeLunch     MealType = "LUNCH"
	MealTypeDinner    MealType = "DINNER"
)

// MealTypes lists every valid meal type.
var MealTypes = []MealType{MealTypeBreakfast, MealTypeLunch, MealTypeDinner}

// ParseMealType case-folds s and reports whether it names a meal type.
func ParseMealType(s string) (MealType, bool) {
	mt := MealType(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range MealTypes {
		if v == mt {
			return mt, true
		}
	}
	return "", false
}

// RecipeType is the course a recipe fills.
type RecipeType string

const (
	RecipeTypeMain    RecipeType = "MAIN"
	RecipeTypeSide    RecipeType = "SIDE"
	RecipeTypeDessert RecipeType = "DESSERT"
	RecipeTypeSnack   RecipeType = "SNACK"
	RecipeTypeStarter RecipeType = "STARTER"
)

// RecipeTypes lists every valid recipe type.
var RecipeTypes = []RecipeType{RecipeTypeMain, RecipeTypeSide, RecipeTypeDessert, RecipeTypeSnack, RecipeTypeStarter}

// ParseRecipeType case-folds s and reports whether it names a recipe type.
func ParseRecipeType(s string) (RecipeType, bool) {
	rt := RecipeType(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range RecipeTypes {
		if v == rt {
			return rt, true
		}
	}
	return "", false
}

// AllergenType is one of the fourteen declarable allergens.
type AllergenType string

const (
	AllergenGluten     AllergenType = "GLUTEN"
	AllergenCrustacean AllergenType = "CRUSTACEAN"
	AllergenEgg        AllergenType = "EGG"
	AllergenFish       AllergenType = "FISH"
	AllergenPeanut     AllergenType = "PEANUT"
	AllergenSoy        AllergenType = "SOY"
	AllergenMilk       AllergenType = "MILK"
	AllergenNut        AllergenType = "NUT"
	AllergenCelery     AllergenType = "CELERY"
	AllergenMustard    AllergenType = "MUSTARD"
	AllergenSesame     AllergenType = "SESAME"
	AllergenSulphite   AllergenType = "SULPHITE"
	AllergenLupin      AllergenType = "LUPIN"
	AllergenMollusc    AllergenType = "MOLLUSC"
)

// AllergenTypes lists every valid allergen type.
var AllergenTypes = []AllergenType{
	AllergenGluten, AllergenCrustacean, AllergenEgg, AllergenFish, AllergenPeanut,
	AllergenSoy, AllergenMilk, AllergenNut, AllergenCelery, AllergenMustard,
	AllergenSesame, AllergenSulphite, AllergenLupin, AllergenMollusc,
}

// ParseAllergenType case-folds s and reports whether it names an allergen.
func ParseAllergenType(s string) (AllergenType, bool) {
	at := AllergenType(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range AllergenTypes {
		if v == at {
			return at, true
		}
	}
	return "", false
}

// Role is a user's permission level.
type Role string

const (
	RolePlain Role = "PLAIN"
	RoleAdmin Role = "ADMIN"
)
