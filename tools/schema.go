package tools

import "github.com/modelcontextprotocol/go-sdk/jsonschema"

func amountSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"unit":        {Type: "string"},
			"value":       {Type: "number"},
			"upper_value": {Type: "number"},
			"approximate": {Type: "boolean"},
		},
		Required: []string{"unit", "value"},
	}
}

func ingredientSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":     {Type: "string"},
			"amounts":  {Type: "array", Items: amountSchema()},
			"modifier": {Type: "string"},
		},
		Required: []string{"name", "amounts"},
	}
}

func entrySchema() *jsonschema.Schema {
	minLine := 1.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"line":       {Type: "integer", Minimum: &minLine},
			"input":      {Type: "string"},
			"ingredient": ingredientSchema(),
			"error":      {Type: "string"},
		},
		Required: []string{"line", "input"},
	}
}
