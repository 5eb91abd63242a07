package tools

import (
	"context"
	"fmt"
	"sort"

	"ingredient"
	"ingredient/batch"
	"ingredient/source"
)

// Registry maps tool names to implementations
type Registry map[string]Tool

// NewRegistry creates a new tool registry. recipes and runner back recipe_parse.
func NewRegistry(parser *ingredient.Parser, recipes source.State, runner batch.Runner) (*Registry, error) {
	if parser == nil {
		return nil, fmt.Errorf("parser is required")
	}
	if runner == nil {
		runner = batch.NewProcessor(parser, batch.SkipFailures, nil)
	}

	all := []Tool{
		NewIngredientParse(parser),
		NewAmountParse(parser),
	}
	if recipes != nil {
		all = append(all, NewRecipeParse(recipes, runner))
	}

	registry := make(Registry, len(all))
	for _, t := range all {
		registry[t.Name()] = t
	}
	return &registry, nil
}

// GetTools returns all tools in the registry sorted by name.
func (r *Registry) GetTools() []Tool {
	tools := make([]Tool, 0, len(*r))
	for _, tool := range *r {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

// GetTool retrieves a tool by name from the registry
func (r Registry) GetTool(name string) (Tool, error) {
	tool, exists := r[name]
	if !exists {
		return nil, fmt.Errorf("tool %q not found in registry", name)
	}
	return tool, nil
}

// Invoke validates call.Input and runs the named tool.
func (r Registry) Invoke(ctx context.Context, call Call) (map[string]any, error) {
	tool, err := r.GetTool(call.Name)
	if err != nil {
		return nil, err
	}
	if err := Validate(tool, call.Input); err != nil {
		return nil, err
	}
	return tool.Run(ctx, call.Input)
}
