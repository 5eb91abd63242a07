package batch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"ingredient"
)

type telemetry struct {
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	tp     *sdktrace.TracerProvider
	mp     *sdkmetric.MeterProvider
}

func newTelemetry() *telemetry {
	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	return &telemetry{
		spans:  spans,
		reader: reader,
		tp:     sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)),
		mp:     sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
	}
}

func (tm *telemetry) processor(t *testing.T, policy Policy) *InstrumentedProcessor {
	t.Helper()
	p, err := NewInstrumentedProcessor(
		ingredient.New(),
		policy,
		nil,
		tm.tp.Tracer(ingredient.TracerNameBatch),
		tm.mp.Meter(ingredient.MeterNameBatch),
	)
	require.NoError(t, err)
	return p
}

// sums returns the value of every Int64 sum and gauge keyed by metric name, with
// data points added together.
func (tm *telemetry) sums(t *testing.T) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, tm.reader.Collect(context.Background(), &rm))

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += dp.Value
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					out[m.Name] = dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += int64(dp.Count)
				}
			}
		}
	}
	return out
}

func TestInstrumentedProcessor_Run(t *testing.T) {
	tm := newTelemetry()
	p := tm.processor(t, SkipFailures)

	res, err := p.Run(context.Background(), bread)
	require.NoError(t, err)
	assert.Len(t, res.Parsed, 2)
	assert.Len(t, res.Failures, 2)

	got := tm.sums(t)
	assert.Equal(t, int64(2), got["lines_parsed_total"])
	assert.Equal(t, int64(2), got["lines_failed_total"])
	assert.Equal(t, int64(2), got["amounts_parsed_total"])
	assert.Equal(t, int64(4), got["line_parse_duration_seconds"])
	assert.Equal(t, int64(4), got["recipe_lines_count"])
	assert.Equal(t, int64(1), got["recipes_processed_total"])

	ended := tm.spans.Ended()
	require.Len(t, ended, 5)

	root := ended[len(ended)-1]
	assert.Equal(t, "InstrumentedProcessor.Run", root.Name())
	for _, s := range ended[:4] {
		assert.Equal(t, root.SpanContext().TraceID(), s.SpanContext().TraceID())
		assert.Equal(t, root.SpanContext().SpanID(), s.Parent().SpanID())
	}
	assert.Equal(t, "InstrumentedProcessor.Run.Line.2", ended[1].Name())
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
}

func TestInstrumentedProcessor_Abort(t *testing.T) {
	tm := newTelemetry()
	p := tm.processor(t, AbortOnFailure)

	res, err := p.Run(context.Background(), bread)
	require.Error(t, err)
	assert.ErrorIs(t, err, ingredient.ErrSyntax)
	assert.Len(t, res.Parsed, 1)

	ended := tm.spans.Ended()
	require.Len(t, ended, 3)
	assert.Equal(t, codes.Error, ended[2].Status().Code)

	got := tm.sums(t)
	assert.Equal(t, int64(1), got["lines_failed_total"])
}

func TestInstrumentedProcessor_RunAll(t *testing.T) {
	tm := newTelemetry()
	p := tm.processor(t, SkipFailures)

	recipes := []ingredient.Recipe{bread, {Name: "eggs", Ingredients: []string{"2 eggs"}}}
	results, err := RunAll(context.Background(), p, recipes, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "eggs", results[1].Recipe)

	got := tm.sums(t)
	assert.Equal(t, int64(3), got["lines_parsed_total"])
	assert.Equal(t, int64(2), got["recipes_processed_total"])
}
