// Package otelclient instruments outgoing HTTP requests with
// OpenTelemetry client spans.
//
// For each traced request the library starts a span of kind client,
// injects the active trace context into the request headers so the
// receiving service can continue the trace, delegates the network call
// to the wrapped client, records the outcome (status code or error) on
// the span, and ends it. The underlying transport, the tracer backend,
// and the propagation codec are all consumed through their OpenTelemetry
// interfaces; this package implements none of them.
//
// The fluent entry point is Client, which offers one send operation per
// request-body variant:
//
//	c := otelclient.NewClient(http.DefaultClient, otelclient.Config{})
//	resp, err := c.SendJSON(ctx, req, payload)
//
// Callers that already drive *http.Client directly can instead wrap its
// transport:
//
//	httpClient := otelclient.WrapClient(nil, otelclient.Config{})
//	resp, err := httpClient.Do(req)
//
// Tracer provider and propagator default to the otel globals; pass them
// in Config to keep the instrumentation free of global state.
package otelclient
