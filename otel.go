package ingredient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	TracerNameBatch  = "ingredient-batch"
	TracerNameLambda = "ingredient-lambda"
	MeterNameBatch   = "ingredient-batch"
)

// OtelConfig describes the service to the collector. The exporters read the standard
// OTEL_EXPORTER_OTLP_* variables themselves.
type OtelConfig struct {
	ServiceName    string `env:"OTEL_SERVICE_NAME,default=ingredient"`
	ServiceVersion string `env:"OTEL_SERVICE_VERSION,default=0.1.0"`
	DeployEnv      string `env:"OTEL_DEPLOY_ENV,default=development"`
}

func (c OtelConfig) resource() *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(c.ServiceName),
		semconv.ServiceVersion(c.ServiceVersion),
		semconv.DeploymentEnvironment(c.DeployEnv),
	)
}

type otelShutdown func(ctx context.Context) error

// InitOtel registers global trace and meter providers that export over OTLP gRPC and
// returns them with a shutdown func that flushes both.
func InitOtel(ctx context.Context) (*sdktrace.TracerProvider, *sdkmetric.MeterProvider, otelShutdown, error) {
	var cfg OtelConfig
	if err := decode(&cfg); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to decode otel config: %w", err)
	}
	res := cfg.resource()

	spanExporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create span exporter: %w", err)
	}
	metricExporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		return nil, nil, nil, errors.Join(
			fmt.Errorf("failed to create metric exporter: %w", err),
			spanExporter.Shutdown(ctx),
		)
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	shutdown := func(ctx context.Context) error {
		return ignoreExporterShutdown(errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
		))
	}
	return tracerProvider, meterProvider, shutdown, nil
}

// ignoreExporterShutdown drops the error a gRPC exporter returns when it was already
// shut down, which happens when a deferred shutdown runs twice.
func ignoreExporterShutdown(err error) error {
	if err != nil && strings.TrimSpace(err.Error()) == "gRPC exporter is shutdown" {
		return nil
	}
	return err
}
