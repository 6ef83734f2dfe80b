package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Trace exporters accepted by SetupTracing.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// SetupTracing installs the global tracer provider for exporter and returns
// the func that flushes and stops it. "none" leaves the no-op provider in
// place. "stdout" writes spans to w. "otlp" sends them over HTTP to the
// collector named by the standard OTEL_EXPORTER_OTLP_* variables.
func SetupTracing(ctx context.Context, exporter, version string, w io.Writer) (func(context.Context) error, error) {
	var spanExporter sdktrace.SpanExporter
	var err error

	switch exporter {
	case ExporterNone, "":
		return func(context.Context) error { return nil }, nil
	case ExporterStdout:
		spanExporter, err = stdouttrace.New(stdouttrace.WithWriter(w))
	case ExporterOTLP:
		spanExporter, err = otlptracehttp.New(ctx)
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s trace exporter: %w", exporter, err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", instrumentationName),
			attribute.String("service.version", version),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
