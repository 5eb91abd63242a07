package ingredient

import "context"

// LineParser turns a single raw ingredient line into an Ingredient.
type LineParser interface {
	Parse(line string) (Ingredient, error)
}

// RecipeSource yields recipes produced by an upstream extractor.
type RecipeSource interface {
	Recipes(ctx context.Context) ([]Recipe, error)
}

// Amount holds a unit and value pair for an ingredient.
type Amount struct {
	Unit  string  `json:"unit" yaml:"unit"`
	Value float64 `json:"value" yaml:"value"`
	// UpperValue is set only when the line expressed a range, e.g. "1-2 cups".
	UpperValue *float64 `json:"upper_value,omitempty" yaml:"upper_value,omitempty"`
	// Approximate is only ever set by a parser built WithApproximate.
	Approximate bool `json:"approximate,omitempty" yaml:"approximate,omitempty"`
}

// NewAmount returns an Amount without an upper bound.
func NewAmount(unit string, value float64) Amount {
	return Amount{Unit: unit, Value: value}
}

// NewRangeAmount returns an Amount spanning value to upper.
func NewRangeAmount(unit string, value, upper float64) Amount {
	return Amount{Unit: unit, Value: value, UpperValue: &upper}
}

// Ingredient holds a name, its amounts and an optional modifier.
type Ingredient struct {
	Name     string   `json:"name" yaml:"name"`
	Amounts  []Amount `json:"amounts" yaml:"amounts"`
	Modifier *string  `json:"modifier,omitempty" yaml:"modifier,omitempty"`
}

// Recipe is what an upstream extractor hands over: the raw ingredient lines, untouched,
// plus enough context to report on them.
type Recipe struct {
	Name         string   `json:"name"`
	URL          string   `json:"url,omitempty"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions,omitempty"`
	Image        *string  `json:"image,omitempty"`
}
