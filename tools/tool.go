// Package tools exposes the parser as named tools with JSON schemas, so callers that
// speak in JSON objects (a Lambda event, an agent) can drive it.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

type Tool interface {
	Name() string
	Title() string
	Description() string
	InputSchema() *jsonschema.Schema
	OutputSchema() *jsonschema.Schema
	Run(ctx context.Context, input map[string]any) (output map[string]any, err error)
}

type Call struct {
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// Validate checks input against the tool's input schema.
func Validate(t Tool, input map[string]any) error {
	resolved, err := t.InputSchema().Resolve(nil)
	if err != nil {
		return fmt.Errorf("resolve %s input schema: %w", t.Name(), err)
	}
	if input == nil {
		input = map[string]any{}
	}
	if err := resolved.Validate(input); err != nil {
		return fmt.Errorf("invalid %s input: %w", t.Name(), err)
	}
	return nil
}

// toMap round-trips v through JSON to keep outputs uniform
func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// stringList reads a []string out of a decoded JSON value.
func stringList(v any) ([]string, bool) {
	switch raw := v.(type) {
	case []string:
		return raw, true
	case []any:
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
