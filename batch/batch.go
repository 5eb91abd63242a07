// Package batch parses every ingredient line of one or more recipes.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"ingredient"
	"ingredient/render"
)

// Policy decides what a Processor does with a line that does not parse.
type Policy int

const (
	// SkipFailures records the failure and moves on to the next line.
	SkipFailures Policy = iota
	// AbortOnFailure stops at the first failure and returns it as the run's error.
	AbortOnFailure
)

func (p Policy) String() string {
	if p == AbortOnFailure {
		return "abort"
	}
	return "skip"
}

// Parsed is a line that parsed.
type Parsed struct {
	Line       int                   `json:"line" yaml:"line"`
	Input      string                `json:"input" yaml:"input"`
	Ingredient ingredient.Ingredient `json:"ingredient" yaml:"ingredient"`
}

// Failure is a line that did not parse.
type Failure struct {
	Line  int    `json:"line" yaml:"line"`
	Input string `json:"input" yaml:"input"`
	Error string `json:"error" yaml:"error"`
	Err   error  `json:"-" yaml:"-"`
}

// Result is the outcome of one recipe. Line numbers are 1-based positions in
// Recipe.Ingredients.
type Result struct {
	Recipe   string    `json:"recipe" yaml:"recipe"`
	Lines    int       `json:"lines" yaml:"lines"`
	Parsed   []Parsed  `json:"parsed" yaml:"parsed"`
	Failures []Failure `json:"failures" yaml:"failures"`
}

// Ingredients returns the parsed ingredients in line order.
func (r Result) Ingredients() []ingredient.Ingredient {
	out := make([]ingredient.Ingredient, 0, len(r.Parsed))
	for _, p := range r.Parsed {
		out = append(out, p.Ingredient)
	}
	return out
}

// Entries merges parsed lines and failures back into line order for rendering.
func (r Result) Entries() []render.Entry {
	out := make([]render.Entry, 0, len(r.Parsed)+len(r.Failures))
	i, j := 0, 0
	for i < len(r.Parsed) || j < len(r.Failures) {
		if j >= len(r.Failures) || (i < len(r.Parsed) && r.Parsed[i].Line < r.Failures[j].Line) {
			p := r.Parsed[i]
			out = append(out, render.NewEntry(p.Line, p.Input, p.Ingredient, nil))
			i++
			continue
		}
		f := r.Failures[j]
		out = append(out, render.Entry{Line: f.Line, Input: f.Input, Error: f.Error})
		j++
	}
	return out
}

// Runner processes a single recipe.
type Runner interface {
	Run(ctx context.Context, recipe ingredient.Recipe) (Result, error)
}

// Processor runs a LineParser over recipes.
type Processor struct {
	parser ingredient.LineParser
	policy Policy
	logger ingredient.LineLogger
}

// NewProcessor creates a Processor. A nil logger discards line logs.
func NewProcessor(parser ingredient.LineParser, policy Policy, logger ingredient.LineLogger) *Processor {
	if logger == nil {
		logger = ingredient.NewNoOpLineLogger()
	}
	return &Processor{
		parser: parser,
		policy: policy,
		logger: logger,
	}
}

// Run parses every ingredient line of recipe. With AbortOnFailure the first failing
// line ends the run and its error, wrapped with the line number, is returned along
// with what was parsed so far.
func (p *Processor) Run(ctx context.Context, recipe ingredient.Recipe) (Result, error) {
	res := Result{
		Recipe:   recipe.Name,
		Lines:    len(recipe.Ingredients),
		Parsed:   make([]Parsed, 0, len(recipe.Ingredients)),
		Failures: make([]Failure, 0),
	}

	for i, input := range recipe.Ingredients {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		n := i + 1
		ing, err := p.parser.Parse(input)
		logLine(p.logger, recipe.Name, n, input, ing, err)

		if err != nil {
			slog.Debug("BATCH: Line failed", "recipe", recipe.Name, "line", n, "error", err)
			res.Failures = append(res.Failures, Failure{Line: n, Input: input, Error: err.Error(), Err: err})
			if p.policy == AbortOnFailure {
				return res, fmt.Errorf("recipe %q line %d: %w", recipe.Name, n, err)
			}
			continue
		}

		slog.Debug("BATCH: Line parsed", "recipe", recipe.Name, "line", n, "amounts", len(ing.Amounts))
		res.Parsed = append(res.Parsed, Parsed{Line: n, Input: input, Ingredient: ing})
	}

	slog.Info("BATCH: Recipe processed",
		"recipe", recipe.Name,
		"lines", res.Lines,
		"parsed", len(res.Parsed),
		"failed", len(res.Failures),
	)
	return res, nil
}

// logLine logs a line using the configured logger, handling errors gracefully
func logLine(logger ingredient.LineLogger, recipe string, n int, input string, ing ingredient.Ingredient, err error) {
	entry := ingredient.LineLog{Recipe: recipe, Line: n, Timestamp: time.Now(), Input: input}
	if err != nil {
		entry.Error = err.Error()
	} else {
		entry.Ingredient = &ing
	}
	if lerr := logger.LogLine(entry); lerr != nil {
		slog.Error("Failed to log ingredient line", "error", lerr, "recipe", recipe, "line", n)
	}
}

// RunAll runs r over recipes with at most workers in flight and returns the results in
// recipe order. The first error cancels the remaining recipes; results for recipes
// that finished are still returned. workers < 1 means one.
func RunAll(ctx context.Context, r Runner, recipes []ingredient.Recipe, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(recipes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, recipe := range recipes {
		g.Go(func() error {
			res, err := r.Run(gctx, recipe)
			results[i] = res
			return err
		})
	}

	err := g.Wait()
	return results, err
}
