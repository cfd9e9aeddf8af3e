package tracing

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitTracer_DisabledIsNoOp(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), DefaultConfig("confess-backend"))
	if err != nil {
		t.Fatalf("InitTracer(disabled) returned error: %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown must be callable even when tracing is disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown returned error: %v", err)
	}
}

func TestInitTracer_EnabledInstallsGlobalProvider(t *testing.T) {
	// A non-routable endpoint is fine: export is batched and async, so the
	// SDK initializes without connecting.
	cfg := DefaultConfig("confess-backend")
	cfg.OTLPEndpoint = "127.0.0.1:0"
	cfg.Enabled = true

	shutdown, err := InitTracer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitTracer(enabled) returned error: %v", err)
	}

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Errorf("global provider is %T, want *sdktrace.TracerProvider", otel.GetTracerProvider())
	}

	if err := shutdown(context.Background()); err != nil {
		t.Logf("shutdown: %v (endpoint is unreachable on purpose)", err)
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, sdktrace.AlwaysSample().Description()},
		{0.0, sdktrace.NeverSample().Description()},
		{0.25, sdktrace.TraceIDRatioBased(0.25).Description()},
	}

	for _, tt := range tests {
		if got := samplerFor(tt.rate).Description(); got != tt.want {
			t.Errorf("samplerFor(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestDefaultConfig_DisabledByDefault(t *testing.T) {
	cfg := DefaultConfig("confess-backend")

	if cfg.Enabled {
		t.Error("tracing must be opt-in")
	}
	if cfg.ServiceName != "confess-backend" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("SampleRate = %v, want 1.0", cfg.SampleRate)
	}
}

func TestTracer_StartsSpans(t *testing.T) {
	_, span := Tracer("confess-backend").Start(context.Background(), "list posts")
	defer span.End()

	if span == nil {
		t.Fatal("Start returned a nil span")
	}
}
