package otelclient

import (
	"net/http"

	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"
)

// spanGuard owns an open span for the duration of one traced request.
// Exactly one of Success or Failure runs per request; end is also
// deferred at the call site so the span cannot leak open if the
// wrapped client panics mid-send.
type spanGuard struct {
	span  trace.Span
	ended bool
}

func newSpanGuard(span trace.Span) *spanGuard {
	return &spanGuard{span: span}
}

// Success records the response status code on the span and ends it.
// The span's status is left unset; a non-2xx code is still a completed
// HTTP exchange from the client's point of view.
func (g *spanGuard) Success(resp *http.Response) {
	g.span.SetAttributes(semconv.HTTPStatusCodeKey.Int(resp.StatusCode))
	g.end()
}

// Failure marks the span errored with the error's text and ends it.
// The error itself is not consumed; callers propagate it unchanged.
func (g *spanGuard) Failure(err error) {
	g.span.SetStatus(codes.Error, err.Error())
	g.end()
}

func (g *spanGuard) end() {
	if g.ended {
		return
	}
	g.ended = true
	g.span.End()
}
