package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestEnabledFollowsEnvironment(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	if Enabled() {
		t.Fatalf("enabled without an endpoint")
	}
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318")
	if !Enabled() {
		t.Fatalf("endpoint set but not enabled")
	}
}

func TestTracerUsesGlobalProvider(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	_, span := Tracer("render").Start(context.Background(), "render.frame")
	span.End()

	ended := rec.Ended()
	if len(ended) != 1 || ended[0].Name() != "render.frame" {
		t.Fatalf("recorded spans = %v", ended)
	}
	if got := ended[0].InstrumentationScope().Name; got != "gridcaster/render" {
		t.Fatalf("scope = %q", got)
	}
}

func TestNoopTracerRecordsNothing(t *testing.T) {
	_, span := NoopTracer().Start(context.Background(), "x")
	if span.IsRecording() {
		t.Fatalf("noop span is recording")
	}
	span.End()
}
