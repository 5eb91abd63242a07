package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"ingredient"
	"ingredient/render"
)

type IngredientParse struct{ parser ingredient.LineParser }

func NewIngredientParse(parser ingredient.LineParser) *IngredientParse {
	return &IngredientParse{parser: parser}
}

func (t *IngredientParse) Name() string  { return "ingredient_parse" }
func (t *IngredientParse) Title() string { return "Parse Ingredient Lines" }
func (t *IngredientParse) Description() string {
	return "Parses free-form recipe ingredient lines into amounts, a name and an optional modifier."
}

func (t *IngredientParse) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"lines": {
				Type:  "array",
				Items: &jsonschema.Schema{Type: "string"},
			},
		},
		Required: []string{"lines"},
	}
}

func (t *IngredientParse) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"results": {Type: "array", Items: entrySchema()},
		},
		Required: []string{"results"},
	}
}

// Run parses each line independently; a line that fails is reported in its entry and
// does not fail the call.
func (t *IngredientParse) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	lines, ok := stringList(input["lines"])
	if !ok {
		return nil, fmt.Errorf("lines must be an array of strings")
	}

	results := make([]render.Entry, 0, len(lines))
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ing, err := t.parser.Parse(line)
		results = append(results, render.NewEntry(i+1, line, ing, err))
	}
	return toMap(struct {
		Results []render.Entry `json:"results"`
	}{results})
}
