package otelclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"
)

// TelemetryConfig describes the tracing backend an application exports
// to. It belongs at the outermost call site; the traced client itself
// only sees the resulting provider and propagator.
type TelemetryConfig struct {
	ServiceName       string
	ServiceVersion    string
	Environment       string // dev | staging | prod
	CollectorEndpoint string // e.g. "http://localhost:4317" or "localhost:4317"
	Protocol          string // "grpc" | "http" (default: "grpc")
	Sampler           string // "parent" | "ratio"
	SampleRatio       float64
	SetGlobals        bool // also install provider/propagator as the otel globals
}

// Telemetry owns the tracer provider plus the ambient logger and
// metrics handed to traced clients.
type Telemetry struct {
	cfg        TelemetryConfig
	tp         *sdktrace.TracerProvider
	propagator propagation.TextMapPropagator

	Logger  Logger
	Metrics *Metrics
}

// Setup builds an OTLP-exporting tracer provider, a W3C composite
// propagator, a JSON logger, and a metrics registry. Callers must
// Shutdown to flush spans.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Telemetry, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.ServiceVersion),
			attribute.String("deployment.environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("resource: %w", err)
	}

	exp, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(cfg)),
		sdktrace.WithBatcher(exp,
			sdktrace.WithMaxExportBatchSize(512),
			sdktrace.WithBatchTimeout(5*time.Second)),
	)
	prop := propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)

	if cfg.SetGlobals {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(prop)
	}

	return &Telemetry{
		cfg:        cfg,
		tp:         tp,
		propagator: prop,
		Logger:     NewLogger(cfg.ServiceName, cfg.Environment, cfg.ServiceVersion),
		Metrics:    NewMetrics("otelclient"),
	}, nil
}

func newExporter(ctx context.Context, cfg TelemetryConfig) (sdktrace.SpanExporter, error) {
	endpoint, insecure := parseEndpoint(cfg.CollectorEndpoint)
	protocol := strings.ToLower(cfg.Protocol)
	if protocol == "" {
		protocol = "grpc"
	}

	switch protocol {
	case "http":
		// HTTP exporter (port 4318)
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(endpoint),
		}
		if insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("otlptrace http exporter: %w", err)
		}
		return exp, nil
	case "grpc":
		// gRPC exporter (port 4317)
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(endpoint),
		}
		if insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		} else {
			opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(&tls.Config{})))
		}
		exp, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("otlptrace grpc exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("unsupported trace protocol: %s (use 'grpc' or 'http')", cfg.Protocol)
	}
}

func samplerFor(cfg TelemetryConfig) sdktrace.Sampler {
	sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.25))
	switch strings.ToLower(cfg.Sampler) {
	case "ratio":
		if cfg.SampleRatio >= 0 && cfg.SampleRatio <= 1 {
			sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
		}
	case "parent", "":
		// keep default
	}
	return sampler
}

// TracerProvider returns the provider for traced clients.
func (t *Telemetry) TracerProvider() trace.TracerProvider { return t.tp }

// Propagator returns the W3C composite propagator.
func (t *Telemetry) Propagator() propagation.TextMapPropagator { return t.propagator }

// ClientConfig returns a Config wired with this telemetry's provider,
// propagator, logger, and metrics.
func (t *Telemetry) ClientConfig() Config {
	return Config{
		TracerProvider: t.tp,
		Propagator:     t.propagator,
		Logger:         t.Logger,
		Metrics:        t.Metrics,
	}
}

// Shutdown flushes and stops the tracer provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return t.tp.Shutdown(ctx)
}

func parseEndpoint(raw string) (hostport string, insecure bool) {
	if raw == "" {
		return "localhost:4317", true
	}
	// "host:port" parses as scheme "host" with an opaque part; treat
	// that the same as an unparseable URL.
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Opaque != "" {
		host, port, _ := net.SplitHostPort(raw)
		if port == "" {
			return raw, true
		}
		if host == "" {
			return "localhost:" + port, true
		}
		return raw, true
	}
	insecure = (u.Scheme == "http")
	return u.Host, insecure
}
