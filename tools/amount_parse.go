package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"ingredient"
)

// AmountParser parses a bare amount phrase.
type AmountParser interface {
	ParseAmount(phrase string) ([]ingredient.Amount, error)
}

type AmountParse struct{ parser AmountParser }

func NewAmountParse(parser AmountParser) *AmountParse { return &AmountParse{parser: parser} }

func (t *AmountParse) Name() string  { return "amount_parse" }
func (t *AmountParse) Title() string { return "Parse Amount" }
func (t *AmountParse) Description() string {
	return "Parses one or two amounts such as \"120 grams / 1 cup\" from the start of a phrase."
}

func (t *AmountParse) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"phrase": {Type: "string"},
		},
		Required: []string{"phrase"},
	}
}

func (t *AmountParse) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"amounts": {Type: "array", Items: amountSchema()},
		},
		Required: []string{"amounts"},
	}
}

func (t *AmountParse) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	phrase, ok := input["phrase"].(string)
	if !ok {
		return nil, fmt.Errorf("phrase must be a string")
	}
	amounts, err := t.parser.ParseAmount(phrase)
	if err != nil {
		return nil, err
	}
	return toMap(struct {
		Amounts []ingredient.Amount `json:"amounts"`
	}{amounts})
}
