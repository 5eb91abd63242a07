package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"ingredient"
	"ingredient/batch"
	"ingredient/source"
	"ingredient/tools"
)

type Params struct {
	Tool  string         `json:"tool"`
	Input map[string]any `json:"input"`
}

type Results struct {
	Output any `json:"output"`
}

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
		cfg, err := ingredient.LoadConfig()
		if err != nil {
			slog.Error("SETUP: Failed to decode config", "error", err)
			return Results{}, err
		}
		slog.SetDefault(ingredient.NewLogger(cfg.Batch.LogLevel))

		if params.Tool == "" {
			return Results{}, errors.New("missing tool name")
		}

		var recipes source.State
		if cfg.Source.S3Bucket != "" {
			awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
			if err != nil {
				return Results{}, fmt.Errorf("failed to load AWS config: %w", err)
			}
			recipes = source.NewS3State(s3.NewFromConfig(awsCfg), cfg.Source.S3Bucket, cfg.Source.S3Key)
			slog.Info("SETUP: S3 recipe state initialized", "bucket", cfg.Source.S3Bucket, "key", cfg.Source.S3Key)
		}

		tracerProvider, meterProvider, otelShutdown, err := ingredient.InitOtel(ctx)
		if err != nil {
			slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
			return Results{}, err
		}
		defer func() {
			if err := otelShutdown(ctx); err != nil {
				slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
			}
		}()

		parser := ingredient.New(cfg.Parser.Options()...)

		policy := batch.SkipFailures
		if cfg.Batch.AbortOnError {
			policy = batch.AbortOnFailure
		}
		runner, err := batch.NewInstrumentedProcessor(
			parser,
			policy,
			ingredient.NewStdoutLineLogger(os.Stdout),
			tracerProvider.Tracer(ingredient.TracerNameLambda),
			meterProvider.Meter(ingredient.MeterNameBatch),
		)
		if err != nil {
			slog.Error("SETUP: Failed to create processor", "error", err)
			return Results{}, err
		}

		registry, err := tools.NewRegistry(parser, recipes, runner)
		if err != nil {
			slog.Error("SETUP: Failed to create tool registry", "error", err)
			return Results{}, err
		}

		output, err := registry.Invoke(ctx, tools.Call{Name: params.Tool, Input: params.Input})
		if err != nil {
			slog.Error("RESULT: Error invoking tool", "tool", params.Tool, "error", err)
			return Results{}, err
		}

		return Results{Output: output}, nil
	}

	lambda.Start(fn)
}
