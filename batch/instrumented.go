package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"ingredient"
)

// InstrumentedProcessor is a Processor that also emits a span per recipe and per line
// along with parse metrics.
type InstrumentedProcessor struct {
	parser ingredient.LineParser
	policy Policy
	logger ingredient.LineLogger
	tracer trace.Tracer

	linesParsed    metric.Int64Counter
	linesFailed    metric.Int64Counter
	amountsParsed  metric.Int64Counter
	parseDuration  metric.Float64Histogram
	recipeLines    metric.Int64Gauge
	recipesCounter metric.Int64Counter
}

// NewInstrumentedProcessor initializes a new instrumented processor.
func NewInstrumentedProcessor(parser ingredient.LineParser, policy Policy, logger ingredient.LineLogger, tracer trace.Tracer, meter metric.Meter) (*InstrumentedProcessor, error) {
	if logger == nil {
		logger = ingredient.NewNoOpLineLogger()
	}
	p := &InstrumentedProcessor{
		parser: parser,
		policy: policy,
		logger: logger,
		tracer: tracer,
	}

	var err error
	if p.linesParsed, err = meter.Int64Counter("lines_parsed_total",
		metric.WithDescription("Total number of ingredient lines parsed successfully")); err != nil {
		return nil, fmt.Errorf("failed to create lines_parsed_total: %w", err)
	}
	if p.linesFailed, err = meter.Int64Counter("lines_failed_total",
		metric.WithDescription("Total number of ingredient lines that failed to parse")); err != nil {
		return nil, fmt.Errorf("failed to create lines_failed_total: %w", err)
	}
	if p.amountsParsed, err = meter.Int64Counter("amounts_parsed_total",
		metric.WithDescription("Total number of amounts extracted from ingredient lines")); err != nil {
		return nil, fmt.Errorf("failed to create amounts_parsed_total: %w", err)
	}
	if p.parseDuration, err = meter.Float64Histogram("line_parse_duration_seconds",
		metric.WithDescription("Time taken to parse a single ingredient line in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create line_parse_duration_seconds: %w", err)
	}
	if p.recipeLines, err = meter.Int64Gauge("recipe_lines_count",
		metric.WithDescription("Number of ingredient lines in the latest recipe")); err != nil {
		return nil, fmt.Errorf("failed to create recipe_lines_count: %w", err)
	}
	if p.recipesCounter, err = meter.Int64Counter("recipes_processed_total",
		metric.WithDescription("Total number of recipes processed")); err != nil {
		return nil, fmt.Errorf("failed to create recipes_processed_total: %w", err)
	}
	return p, nil
}

// Run behaves like Processor.Run with full instrumentation.
func (p *InstrumentedProcessor) Run(ctx context.Context, recipe ingredient.Recipe) (Result, error) {
	ctx, span := p.tracer.Start(ctx, "InstrumentedProcessor.Run", trace.WithAttributes(
		attribute.String("recipe.name", recipe.Name),
		attribute.Int("recipe.lines", len(recipe.Ingredients)),
		attribute.String("batch.policy", p.policy.String()),
	))
	defer span.End()

	recipeAttrs := metric.WithAttributes(attribute.String("policy", p.policy.String()))
	p.recipesCounter.Add(ctx, 1, recipeAttrs)
	p.recipeLines.Record(ctx, int64(len(recipe.Ingredients)))

	res := Result{
		Recipe:   recipe.Name,
		Lines:    len(recipe.Ingredients),
		Parsed:   make([]Parsed, 0, len(recipe.Ingredients)),
		Failures: make([]Failure, 0),
	}

	for i, input := range recipe.Ingredients {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "Run cancelled")
			span.RecordError(err)
			return res, err
		}

		n := i + 1
		ing, err := p.parseLine(ctx, n, input)
		logLine(p.logger, recipe.Name, n, input, ing, err)

		if err != nil {
			res.Failures = append(res.Failures, Failure{Line: n, Input: input, Error: err.Error(), Err: err})
			if p.policy == AbortOnFailure {
				span.SetStatus(codes.Error, "Line failed to parse")
				span.RecordError(err)
				return res, fmt.Errorf("recipe %q line %d: %w", recipe.Name, n, err)
			}
			continue
		}
		res.Parsed = append(res.Parsed, Parsed{Line: n, Input: input, Ingredient: ing})
	}

	span.AddEvent("Recipe processed", trace.WithAttributes(
		attribute.Int("parsed", len(res.Parsed)),
		attribute.Int("failed", len(res.Failures)),
	))

	slog.Info("BATCH: Instrumented recipe processed",
		"recipe", recipe.Name,
		"lines", res.Lines,
		"parsed", len(res.Parsed),
		"failed", len(res.Failures),
	)
	return res, nil
}

func (p *InstrumentedProcessor) parseLine(ctx context.Context, n int, input string) (ingredient.Ingredient, error) {
	ctx, span := p.tracer.Start(ctx, fmt.Sprintf("InstrumentedProcessor.Run.Line.%d", n), trace.WithAttributes(
		attribute.Int("line.number", n),
		attribute.Int("line.length", len(input)),
	))
	defer span.End()

	start := time.Now()
	ing, err := p.parser.Parse(input)
	p.parseDuration.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		p.linesFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("error_type", "syntax")))
		span.SetStatus(codes.Error, "Parse failed")
		span.RecordError(err)
		return ing, err
	}

	p.linesParsed.Add(ctx, 1)
	p.amountsParsed.Add(ctx, int64(len(ing.Amounts)))
	span.SetAttributes(
		attribute.String("ingredient.name", ing.Name),
		attribute.Int("ingredient.amounts", len(ing.Amounts)),
		attribute.Bool("ingredient.has_modifier", ing.Modifier != nil),
	)
	return ing, nil
}
