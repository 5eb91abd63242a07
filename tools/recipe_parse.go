package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"ingredient"
	"ingredient/batch"
	"ingredient/source"
)

type RecipeParse struct {
	state  source.State
	runner batch.Runner
}

func NewRecipeParse(state source.State, runner batch.Runner) *RecipeParse {
	return &RecipeParse{state: state, runner: runner}
}

func (t *RecipeParse) Name() string  { return "recipe_parse" }
func (t *RecipeParse) Title() string { return "Parse Recipes" }
func (t *RecipeParse) Description() string {
	return "Loads recipes from the configured store and parses their ingredient lines, optionally filtered by recipe name."
}

func (t *RecipeParse) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"names": {
				Type:  "array",
				Items: &jsonschema.Schema{Type: "string"},
			},
		},
	}
}

func (t *RecipeParse) OutputSchema() *jsonschema.Schema {
	minCount := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"results": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"recipe": {Type: "string"},
						"lines":  {Type: "integer", Minimum: &minCount},
						"parsed": {
							Type: "array",
							Items: &jsonschema.Schema{
								Type: "object",
								Properties: map[string]*jsonschema.Schema{
									"line":       {Type: "integer"},
									"input":      {Type: "string"},
									"ingredient": ingredientSchema(),
								},
							},
						},
						"failures": {
							Type: "array",
							Items: &jsonschema.Schema{
								Type: "object",
								Properties: map[string]*jsonschema.Schema{
									"line":  {Type: "integer"},
									"input": {Type: "string"},
									"error": {Type: "string"},
								},
							},
						},
					},
					Required: []string{"recipe", "lines", "parsed", "failures"},
				},
			},
		},
		Required: []string{"results"},
	}
}

func (t *RecipeParse) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	recipes, err := source.LoadRecipes(ctx, t.state)
	if err != nil {
		return nil, err
	}

	if raw, ok := input["names"]; ok {
		names, ok := stringList(raw)
		if !ok {
			return nil, fmt.Errorf("names must be an array of strings")
		}
		recipes = filterByName(recipes, names)
	}

	results := make([]batch.Result, 0, len(recipes))
	for _, r := range recipes {
		res, err := t.runner.Run(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("parse recipe %q: %w", r.Name, err)
		}
		results = append(results, res)
	}
	return toMap(struct {
		Results []batch.Result `json:"results"`
	}{results})
}

func filterByName(recipes []ingredient.Recipe, names []string) []ingredient.Recipe {
	if len(names) == 0 {
		return recipes
	}
	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}
	out := make([]ingredient.Recipe, 0)
	for _, r := range recipes {
		if want[r.Name] {
			out = append(out, r)
		}
	}
	return out
}
