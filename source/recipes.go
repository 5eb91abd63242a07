package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ingredient"
)

// ErrNoRecipe is returned when a document holds nothing that looks like a recipe.
var ErrNoRecipe = errors.New("no recipe found")

// Source adapts a State to ingredient.RecipeSource.
type Source struct{ state State }

func New(state State) *Source { return &Source{state: state} }

func (s *Source) Recipes(ctx context.Context) ([]ingredient.Recipe, error) {
	return LoadRecipes(ctx, s.state)
}

// LoadRecipes reads state and decodes it as one of:
//   - a JSON array of recipes
//   - a single JSON recipe, either our own shape or a schema.org Recipe (optionally
//     inside an "@graph")
//   - plain text with one ingredient line per non-blank line, returned as a single
//     unnamed recipe
func LoadRecipes(ctx context.Context, state State) ([]ingredient.Recipe, error) {
	b, err := state.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("read recipes: %w", err)
	}
	return DecodeRecipes(b)
}

// DecodeRecipes is LoadRecipes without the State.
func DecodeRecipes(b []byte) ([]ingredient.Recipe, error) {
	trimmed := bytes.TrimSpace(b)
	switch {
	case len(trimmed) == 0:
		return nil, ErrNoRecipe
	case trimmed[0] == '[':
		var docs []json.RawMessage
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, fmt.Errorf("parse recipes: %w", err)
		}
		recipes := make([]ingredient.Recipe, 0, len(docs))
		for i, doc := range docs {
			r, err := decodeRecipe(doc)
			if err != nil {
				return nil, fmt.Errorf("parse recipe %d: %w", i, err)
			}
			recipes = append(recipes, r)
		}
		return recipes, nil
	case trimmed[0] == '{':
		r, err := decodeRecipe(trimmed)
		if err != nil {
			return nil, fmt.Errorf("parse recipe: %w", err)
		}
		return []ingredient.Recipe{r}, nil
	default:
		return []ingredient.Recipe{{Ingredients: SplitLines(string(b))}}, nil
	}
}

// SplitLines returns the non-blank lines of text with line endings removed.
func SplitLines(text string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// document covers both our recipe shape and the schema.org one.
type document struct {
	Type  any               `json:"@type"`
	Graph []json.RawMessage `json:"@graph"`

	Name         string          `json:"name"`
	URL          string          `json:"url"`
	Ingredients  []string        `json:"ingredients"`
	Instructions []string        `json:"instructions"`
	Image        json.RawMessage `json:"image"`

	RecipeIngredient   []string        `json:"recipeIngredient"`
	RecipeInstructions json.RawMessage `json:"recipeInstructions"`
}

func decodeRecipe(raw []byte) (ingredient.Recipe, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ingredient.Recipe{}, err
	}

	if len(doc.Graph) > 0 {
		for _, node := range doc.Graph {
			var head document
			if err := json.Unmarshal(node, &head); err != nil {
				continue
			}
			if isRecipeType(head.Type) {
				return decodeRecipe(node)
			}
		}
		return ingredient.Recipe{}, ErrNoRecipe
	}

	r := ingredient.Recipe{
		Name:         doc.Name,
		URL:          doc.URL,
		Ingredients:  doc.Ingredients,
		Instructions: doc.Instructions,
		Image:        imageURL(doc.Image),
	}
	if r.Ingredients == nil {
		r.Ingredients = doc.RecipeIngredient
	}
	if len(r.Instructions) == 0 {
		r.Instructions = instructions(doc.RecipeInstructions)
	}
	if r.Ingredients == nil {
		return ingredient.Recipe{}, ErrNoRecipe
	}
	return r, nil
}

func isRecipeType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Recipe"
	case []any:
		for _, s := range v {
			if s == "Recipe" {
				return true
			}
		}
	}
	return false
}

// instructions accepts a list of strings, a list of HowToStep objects, a list of
// HowToSection objects or a single string.
func instructions(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return SplitLines(text)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var step struct {
			Text            string          `json:"text"`
			ItemListElement json.RawMessage `json:"itemListElement"`
		}
		if err := json.Unmarshal(item, &step); err != nil {
			continue
		}
		if step.Text != "" {
			out = append(out, step.Text)
		}
		out = append(out, instructions(step.ItemListElement)...)
	}
	return out
}

// imageURL accepts a URL, a list of URLs or an ImageObject (or a list of them) and
// returns the first URL.
func imageURL(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}

	var url string
	if err := json.Unmarshal(raw, &url); err == nil && url != "" {
		return &url
	}

	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.URL != "" {
		return &obj.URL
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return imageURL(list[0])
	}
	return nil
}
