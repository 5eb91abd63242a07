package ingredient

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func TestOtelConfig_Resource(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "ingredient-test")

	var cfg OtelConfig
	require.NoError(t, decode(&cfg))
	assert.Equal(t, "0.1.0", cfg.ServiceVersion)

	res := cfg.resource()
	assert.Equal(t, semconv.SchemaURL, res.SchemaURL())

	tests := []struct {
		key  string
		want string
	}{
		{key: string(semconv.ServiceNameKey), want: "ingredient-test"},
		{key: string(semconv.ServiceVersionKey), want: "0.1.0"},
		{key: string(semconv.DeploymentEnvironmentKey), want: "development"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			for _, kv := range res.Attributes() {
				if string(kv.Key) == tt.key {
					assert.Equal(t, tt.want, kv.Value.AsString())
					return
				}
			}
			t.Fatalf("attribute %s not set", tt.key)
		})
	}
}

func TestIgnoreExporterShutdown(t *testing.T) {
	assert.NoError(t, ignoreExporterShutdown(nil))
	assert.NoError(t, ignoreExporterShutdown(errors.New("gRPC exporter is shutdown")))

	err := errors.New("context deadline exceeded")
	assert.Equal(t, err, ignoreExporterShutdown(err))
}
