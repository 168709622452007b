package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInstallProviderRecordsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	rec := tracetest.NewSpanRecorder()
	shutdown, err := installProvider(context.Background(), "colony-test", sdktrace.WithSpanProcessor(rec))
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "frame")
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "frame", ended[0].Name())
	assert.NoError(t, shutdown(context.Background()))
}
