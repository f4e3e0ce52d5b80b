package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/d60-Lab/photogram/config"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TracingConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_InstallsProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := Init(context.Background(), config.TracingConfig{
		Enabled:     true,
		ServiceName: "photogram-test",
		Endpoint:    "127.0.0.1:4318",
		Insecure:    true,
		SampleRatio: 1,
	})
	require.NoError(t, err)
	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)
	assert.NoError(t, shutdown(context.Background()))
}
