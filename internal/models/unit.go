package models

import "strings"

// Unit is the measure an ingredient amount is expressed in.
type Unit string

const (
	UnitTeaspoon    Unit = "TEASPOON"
	UnitTablespoon  Unit = "TABLESPOON"
	UnitCup         Unit = "CUP"
	UnitMilliliter  Unit = "MILLILITER"
	UnitCentiliter  Unit = "CENTILITER"
	UnitDeciliter   Unit = "DECILITER"
	UnitLiter       Unit = "LITER"
	UnitFluidOunce  Unit = "FLUID_OUNCE"
	UnitPint        Unit = "PINT"
	UnitQuart       Unit = "QUART"
	UnitGallon      Unit = "GALLON"
	UnitMilligram   Unit = "MILLIGRAM"
	UnitGram        Unit = "GRAM"
	UnitKilogram    Unit = "KILOGRAM"
	UnitOunce       Unit = "OUNCE"
	UnitPound       Unit = "POUND"
	UnitPiece       Unit = "PIECE"
	UnitSlice       Unit = "SLICE"
	UnitCan         Unit = "CAN"
	UnitClove       Unit = "CLOVE"
	UnitPinch       Unit = "PINCH"
	UnitDash        Unit = "DASH"
	UnitHandful     Unit = "HANDFUL"
)

// Units lists every valid unit token.
var Units = []Unit{
	UnitTeaspoon, UnitTablespoon, UnitCup, UnitMilliliter, UnitCentiliter,
	UnitDeciliter, UnitLiter, UnitFluidOunce, UnitPint, UnitQuart, UnitGallon,
	UnitMilligram, UnitGram, UnitKilogram, UnitOunce, UnitPound, UnitPiece,
	UnitSlice, UnitCan, UnitClove, UnitPinch, UnitDash, UnitHandful,
}

var unitAbbreviations = map[string]Unit{
	"TSP":   UnitTeaspoon,
	"TBSP":  UnitTablespoon,
	"TBS":   UnitTablespoon,
	"C":     UnitCup,
	"ML":    UnitMilliliter,
	"CL":    UnitCentiliter,
	"DL":    UnitDeciliter,
	"L":     UnitLiter,
	"FL_OZ": UnitFluidOunce,
	"FLOZ":  UnitFluidOunce,
	"PT":    UnitPint,
	"QT":    UnitQuart,
	"GAL":   UnitGallon,
	"MG":    UnitMilligram,
	"G":     UnitGram,
	"KG":    UnitKilogram,
	"OZ":    UnitOunce,
	"LB":    UnitPound,
	"LBS":   UnitPound,
	"PC":    UnitPiece,
	"PCS":   UnitPiece,
}

// IsValid reports whether u is one of the known unit tokens.
func (u Unit) IsValid() bool {
	for _, v := range Units {
		if v == u {
			return true
		}
	}
	return false
}

// ParseUnit resolves a unit token, an abbreviation ("tbsp") or a naive
// plural ("cloves") to a Unit.
func ParseUnit(s string) (Unit, bool) {
	token := strings.ToUpper(strings.TrimSpace(s))
	token = strings.TrimSuffix(token, ".")
	token = strings.Join(strings.Fields(token), "_")
	if token == "" {
		return "", false
	}
	if u := Unit(token); u.IsValid() {
		return u, true
	}
	if u, ok := unitAbbreviations[token]; ok {
		return u, true
	}
	if singular := strings.TrimSuffix(token, "S"); singular != token {
		if u := Unit(singular); u.IsValid() {
			return u, true
		}
		if u, ok := unitAbbreviations[singular]; ok {
			return u, true
		}
	}
	return "", false
}
