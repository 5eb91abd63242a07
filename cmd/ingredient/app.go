package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v3"

	"ingredient"
	"ingredient/batch"
	"ingredient/render"
	"ingredient/source"
	"ingredient/tools"
)

const name = "ingredient"

// overridden during build with ldflags
var version = "dev"

// newApp builds the command tree. Flag defaults come from cfg so the environment
// and the command line agree.
func newApp(cfg ingredient.Config, stdin io.Reader, stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "parse recipe ingredient lines into amounts, names and modifiers",
		Version: version,
		Reader:  stdin,
		Writer:  stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"o"},
				Value:   string(render.FormatText),
				Usage:   fmt.Sprintf("output format (supported values: %s)", strings.Join(render.SupportedFormats(), ", ")),
			},
			&cli.BoolFlag{
				Name:  "verbose-errors",
				Value: cfg.Parser.VerboseErrors,
				Usage: "report every grammar rule that was tried when a line fails",
			},
			&cli.BoolFlag{
				Name:  "strict-fractions",
				Value: cfg.Parser.StrictFractions,
				Usage: "reject fraction glyphs with no known value instead of reading them as 0",
			},
			&cli.BoolFlag{
				Name:  "approximate",
				Value: cfg.Parser.Approximate,
				Usage: `flag amounts written with a leading "about"`,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: cfg.Batch.LogLevel,
				Usage: "log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			slog.SetDefault(ingredient.NewLogger(cmd.String("log-level")))
			return ctx, nil
		},
		Commands: []*cli.Command{
			parseCmd(),
			amountCmd(),
			batchCmd(cfg),
			toolsCmd(cfg),
		},
	}
}

func parseCmd() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "parse ingredient lines given as arguments, or one per line on stdin",
		ArgsUsage: "[line...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dump",
				Usage: "dump the parsed ingredients with go-spew after rendering",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w, err := writer(cmd)
			if err != nil {
				return err
			}

			lines := cmd.Args().Slice()
			if len(lines) == 0 {
				b, err := source.NewReaderState(cmd.Root().Reader).Load(ctx)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				lines = source.SplitLines(string(b))
			}

			p := parser(cmd)
			entries := make([]render.Entry, 0, len(lines))
			parsed := make([]ingredient.Ingredient, 0, len(lines))
			failed := 0
			for i, line := range lines {
				ing, err := p.Parse(line)
				if err != nil {
					failed++
				} else {
					parsed = append(parsed, ing)
				}
				entries = append(entries, render.NewEntry(i+1, line, ing, err))
			}

			if err := w.Write(entries); err != nil {
				return err
			}
			if cmd.Bool("dump") {
				ingredient.Fdump(cmd.Root().Writer, parsed)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d lines failed to parse", failed, len(lines))
			}
			return nil
		},
	}
}

func amountCmd() *cli.Command {
	return &cli.Command{
		Name:      "amount",
		Usage:     "parse the amounts at the start of a phrase",
		ArgsUsage: "<phrase>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return errors.New("amount requires a phrase")
			}
			w, err := writer(cmd)
			if err != nil {
				return err
			}
			amounts, err := parser(cmd).ParseAmount(strings.Join(cmd.Args().Slice(), " "))
			if err != nil {
				return err
			}
			return w.WriteAmounts(amounts)
		},
	}
}

func batchCmd(cfg ingredient.Config) *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "parse every ingredient line of the recipes in a file or S3 object",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Value:   cfg.Source.RecipesPath,
				Usage:   `recipes file (JSON array, JSON recipe or plain lines); "-" reads stdin`,
			},
			&cli.StringFlag{
				Name:  "s3-bucket",
				Value: cfg.Source.S3Bucket,
				Usage: "read recipes from this S3 bucket instead of --file",
			},
			&cli.StringFlag{
				Name:  "s3-key",
				Value: cfg.Source.S3Key,
				Usage: "object key used with --s3-bucket",
			},
			&cli.BoolFlag{
				Name:  "abort-on-error",
				Value: cfg.Batch.AbortOnError,
				Usage: "stop at the first line that fails to parse",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: `write a JSON record of every line to this file; "-" streams JSON lines to stdout`,
			},
			&cli.BoolFlag{
				Name:  "save-log",
				Usage: fmt.Sprintf("write the line record to a timestamped file under %s", cfg.Batch.LogDir),
			},
			&cli.BoolFlag{
				Name:  "otel",
				Usage: "export traces and metrics over OTLP gRPC",
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: 1,
				Usage: "number of recipes processed concurrently",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w, err := writer(cmd)
			if err != nil {
				return err
			}

			state, err := recipeState(ctx, cmd)
			if err != nil {
				return err
			}
			recipes, err := source.LoadRecipes(ctx, state)
			if err != nil {
				return err
			}
			slog.Info("SETUP: Recipes loaded", "recipes_count", len(recipes))

			logPath := cmd.String("log-file")
			if logPath == "" && cmd.Bool("save-log") {
				if err := os.MkdirAll(cfg.Batch.LogDir, 0o755); err != nil {
					return fmt.Errorf("failed to create log dir: %w", err)
				}
				logPath = ingredient.NewLineLogFilePath(cfg.Batch.LogDir, recipeLabel(recipes))
			}
			logger, cleanup, err := newLineLogger(logPath, cmd.Root().Writer)
			if err != nil {
				return err
			}
			defer func() {
				if err := cleanup(); err != nil {
					slog.Error("Failed to flush line log", "error", err)
				}
			}()

			policy := batch.SkipFailures
			if cmd.Bool("abort-on-error") {
				policy = batch.AbortOnFailure
			}

			var runner batch.Runner = batch.NewProcessor(parser(cmd), policy, logger)
			if cmd.Bool("otel") {
				tracerProvider, meterProvider, otelShutdown, err := ingredient.InitOtel(ctx)
				if err != nil {
					slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
					return err
				}
				defer func() {
					if err := otelShutdown(ctx); err != nil {
						slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
					}
				}()
				runner, err = batch.NewInstrumentedProcessor(
					parser(cmd),
					policy,
					logger,
					tracerProvider.Tracer(ingredient.TracerNameBatch),
					meterProvider.Meter(ingredient.MeterNameBatch),
				)
				if err != nil {
					return err
				}
			}

			results, runErr := batch.RunAll(ctx, runner, recipes, int(cmd.Int("workers")))
			if err := writeResults(w, cmd.Root().Writer, results); err != nil {
				return err
			}
			if runErr != nil {
				slog.Error("RESULT: Batch aborted", "error", runErr)
				return runErr
			}
			return nil
		},
	}
}

func toolsCmd(cfg ingredient.Config) *cli.Command {
	return &cli.Command{
		Name:  "tools",
		Usage: "list the tools exposed to JSON callers",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			registry, err := tools.NewRegistry(parser(cmd), source.NewFileState(cfg.Source.RecipesPath), nil)
			if err != nil {
				return err
			}
			out := cmd.Root().Writer
			for _, t := range registry.GetTools() {
				fmt.Fprintf(out, "%-18s %s\n", t.Name(), t.Description())
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "call",
				Usage:     "invoke a tool with a JSON input object",
				ArgsUsage: "<name> [json]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() == 0 {
						return errors.New("call requires a tool name")
					}
					input := map[string]any{}
					if raw := cmd.Args().Get(1); raw != "" {
						if err := json.Unmarshal([]byte(raw), &input); err != nil {
							return fmt.Errorf("invalid tool input: %w", err)
						}
					}

					registry, err := tools.NewRegistry(parser(cmd), source.NewFileState(cfg.Source.RecipesPath), nil)
					if err != nil {
						return err
					}
					out, err := registry.Invoke(ctx, tools.Call{Name: cmd.Args().First(), Input: input})
					if err != nil {
						return err
					}
					enc := json.NewEncoder(cmd.Root().Writer)
					enc.SetIndent("", "  ")
					return enc.Encode(out)
				},
			},
		},
	}
}

func parser(cmd *cli.Command) *ingredient.Parser {
	cfg := ingredient.ParserConfig{
		VerboseErrors:   cmd.Bool("verbose-errors"),
		StrictFractions: cmd.Bool("strict-fractions"),
		Approximate:     cmd.Bool("approximate"),
	}
	return ingredient.New(cfg.Options()...)
}

func writer(cmd *cli.Command) (*render.Writer, error) {
	format, err := render.ParseFormat(cmd.String("format"))
	if err != nil {
		return nil, err
	}
	return render.NewWriter(format, cmd.Root().Writer), nil
}

func recipeState(ctx context.Context, cmd *cli.Command) (source.State, error) {
	if bucket := cmd.String("s3-bucket"); bucket != "" {
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		slog.Info("SETUP: Reading recipes from S3", "bucket", bucket, "key", cmd.String("s3-key"))
		return source.NewS3State(s3.NewFromConfig(awsCfg), bucket, cmd.String("s3-key")), nil
	}
	path := cmd.String("file")
	if path == "-" {
		return source.NewReaderState(cmd.Root().Reader), nil
	}
	slog.Info("SETUP: Reading recipes from file", "path", path)
	return source.NewFileState(path), nil
}

func newLineLogger(path string, stdout io.Writer) (ingredient.LineLogger, func() error, error) {
	switch path {
	case "":
		return ingredient.NewNoOpLineLogger(), func() error { return nil }, nil
	case "-":
		return ingredient.NewStdoutLineLogger(stdout), func() error { return nil }, nil
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := ingredient.NewFileLineLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}

func writeResults(w *render.Writer, out io.Writer, results []batch.Result) error {
	if w.Structured() {
		return w.Encode(results)
	}
	for _, res := range results {
		label := res.Recipe
		if label == "" {
			label = "(unnamed)"
		}
		fmt.Fprintf(out, "# %s (%d/%d parsed)\n", label, len(res.Parsed), res.Lines)
		if err := w.Write(res.Entries()); err != nil {
			return err
		}
	}
	return nil
}

func recipeLabel(recipes []ingredient.Recipe) string {
	if len(recipes) == 1 {
		return recipes[0].Name
	}
	return "batch"
}
