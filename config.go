package otelclient

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope reported alongside every span.
const tracerName = "github.com/lily-mara/otelclient"

// HeaderPolicy decides what happens when the propagator emits a header
// pair that is not valid HTTP header syntax.
type HeaderPolicy int

const (
	// HeaderPolicyStrict panics on an invalid pair. The propagation
	// codec is trusted to emit valid headers; silently dropping one
	// breaks trace continuity without signaling why.
	HeaderPolicyStrict HeaderPolicy = iota
	// HeaderPolicyDrop skips the invalid pair and logs a warning.
	HeaderPolicyDrop
)

// Config carries the collaborators of a traced client. The zero value
// is usable: provider and propagator fall back to the otel globals,
// logging is disabled, and header handling is strict.
type Config struct {
	// TracerProvider supplies the span backend. Defaults to
	// otel.GetTracerProvider().
	TracerProvider trace.TracerProvider

	// Propagator serializes the trace context into request headers.
	// Defaults to otel.GetTextMapPropagator().
	Propagator propagation.TextMapPropagator

	// Logger receives warnings from the drop header policy and
	// per-request debug lines. Defaults to a nop logger.
	Logger Logger

	// Metrics, when set, records request counts and latency for every
	// traced request.
	Metrics *Metrics

	// HeaderPolicy selects the invalid-header behavior during
	// injection.
	HeaderPolicy HeaderPolicy

	// RequestIDHeader, when non-empty, names a header stamped with a
	// fresh UUID on every traced request (e.g. "X-Request-Id").
	RequestIDHeader string
}

// resolved is a Config with all defaults applied, fixed at
// construction time so a client never consults globals per request.
type resolved struct {
	tracer          trace.Tracer
	propagator      propagation.TextMapPropagator
	logger          Logger
	metrics         *Metrics
	headerPolicy    HeaderPolicy
	requestIDHeader string
}

func (cfg Config) resolve() resolved {
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	prop := cfg.Propagator
	if prop == nil {
		prop = otel.GetTextMapPropagator()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger()
	}
	return resolved{
		tracer:          tp.Tracer(tracerName),
		propagator:      prop,
		logger:          logger,
		metrics:         cfg.Metrics,
		headerPolicy:    cfg.HeaderPolicy,
		requestIDHeader: cfg.RequestIDHeader,
	}
}
