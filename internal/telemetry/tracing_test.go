package telemetry

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// recordSpans installs an in-memory provider for the duration of the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	previous := otel.GetTracerProvider()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(previous)
	})
	return recorder
}

func TestStartSpan(t *testing.T) {
	recorder := recordSpans(t)

	_, ok := StartSpan(context.Background(), "db.assessments.get", attribute.String("assessment.id", "a1"))
	ok.End(nil)
	_, failed := StartSpan(context.Background(), "ai.Complete")
	failed.End(errors.New("provider overloaded"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "db.assessments.get", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("assessment.id", "a1"))
	assert.Empty(t, spans[0].Events())

	assert.Equal(t, "ai.Complete", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "provider overloaded", spans[1].Status().Description)
	require.Len(t, spans[1].Events(), 1)
	assert.Equal(t, "exception", spans[1].Events()[0].Name)
}

func TestStartSpanNestsUnderParent(t *testing.T) {
	recorder := recordSpans(t)

	ctx, parent := StartSpan(context.Background(), "http.request")
	_, child := StartSpan(ctx, "db.assessments.list")
	child.End(nil)
	parent.End(nil)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
}

func TestSetupTracing(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	t.Run("none keeps the current provider", func(t *testing.T) {
		shutdown, err := SetupTracing(context.Background(), ExporterNone, "test", nil)
		require.NoError(t, err)
		assert.Same(t, previous, otel.GetTracerProvider())
		assert.NoError(t, shutdown(context.Background()))
	})

	t.Run("stdout flushes on shutdown", func(t *testing.T) {
		var out bytes.Buffer
		shutdown, err := SetupTracing(context.Background(), ExporterStdout, "test", &out)
		require.NoError(t, err)

		_, span := StartSpan(context.Background(), "catalog.load")
		span.End(nil)

		require.NoError(t, shutdown(context.Background()))
		assert.Contains(t, out.String(), "catalog.load")
		assert.Contains(t, out.String(), "waflens")
	})

	t.Run("unknown exporter", func(t *testing.T) {
		_, err := SetupTracing(context.Background(), "zipkin", "test", nil)
		assert.ErrorContains(t, err, "zipkin")
	})
}
