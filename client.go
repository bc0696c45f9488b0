package otelclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Doer is the part of *http.Client a traced client delegates the
// network call to. Retries, timeouts, and pooling all live behind it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client traces outgoing requests on behalf of a wrapped Doer. It holds
// no per-request state; concurrent sends are independent.
type Client struct {
	base Doer
	cfg  resolved
}

// NewClient wraps base with request tracing. A nil base means
// http.DefaultClient. Config defaults are fixed here, not per request.
func NewClient(base Doer, cfg Config) *Client {
	if base == nil {
		base = http.DefaultClient
	}
	return &Client{base: base, cfg: cfg.resolve()}
}

// Send traces req with no body.
func (c *Client) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.trace(ctx, req, func(*http.Request) error { return nil })
}

// SendBody traces req with body attached as an opaque byte payload.
func (c *Client) SendBody(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	return c.trace(ctx, req, func(r *http.Request) error {
		r.Body = io.NopCloser(bytes.NewReader(body))
		r.ContentLength = int64(len(body))
		return nil
	})
}

// SendForm traces req with form URL-encoded as the request body.
func (c *Client) SendForm(ctx context.Context, req *http.Request, form url.Values) (*http.Response, error) {
	return c.trace(ctx, req, func(r *http.Request) error {
		encoded := form.Encode()
		r.Body = io.NopCloser(strings.NewReader(encoded))
		r.ContentLength = int64(len(encoded))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return nil
	})
}

// SendJSON traces req with v marshaled to JSON as the request body. A
// marshal failure takes the error path: the span records it and ends,
// and the error is returned without the request ever being sent.
func (c *Client) SendJSON(ctx context.Context, req *http.Request, v any) (*http.Response, error) {
	return c.trace(ctx, req, func(r *http.Request) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		r.Body = io.NopCloser(bytes.NewReader(data))
		r.ContentLength = int64(len(data))
		r.Header.Set("Content-Type", "application/json")
		return nil
	})
}

// SendStream traces req with body streamed from r. Content length is
// unknown; the transport uses chunked encoding where the protocol
// allows it.
func (c *Client) SendStream(ctx context.Context, req *http.Request, r io.Reader) (*http.Response, error) {
	return c.trace(ctx, req, func(req *http.Request) error {
		if r == nil {
			return nil
		}
		rc, ok := r.(io.ReadCloser)
		if !ok {
			rc = io.NopCloser(r)
		}
		req.Body = rc
		req.ContentLength = -1
		return nil
	})
}

// trace runs the span lifecycle shared by every send variant: start a
// client span with the request's attributes, inject the child context
// into the headers, attach the body, delegate the send, record the
// outcome, end the span. The request is one-shot and must not be
// reused after this returns.
func (c *Client) trace(ctx context.Context, req *http.Request, attach func(*http.Request) error) (*http.Response, error) {
	start := time.Now()
	ctx, span := c.cfg.tracer.Start(ctx, spanName(req.Method, req.URL),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(requestAttrs(req)...),
	)
	guard := newSpanGuard(span)
	// Ends the span even if the wrapped client panics mid-send.
	defer guard.end()

	c.cfg.propagator.Inject(ctx, headerCarrier{
		header: req.Header,
		policy: c.cfg.headerPolicy,
		logger: c.cfg.logger,
	})
	if h := c.cfg.requestIDHeader; h != "" {
		req.Header.Set(h, uuid.NewString())
	}

	if err := attach(req); err != nil {
		guard.Failure(err)
		c.observe(ctx, req, 0, err, start)
		return nil, err
	}

	resp, err := c.base.Do(req.WithContext(ctx))
	if err != nil {
		guard.Failure(err)
		c.observe(ctx, req, 0, err, start)
		return nil, err
	}
	guard.Success(resp)
	c.observe(ctx, req, resp.StatusCode, nil, start)
	return resp, nil
}

func (c *Client) observe(ctx context.Context, req *http.Request, code int, err error, start time.Time) {
	elapsed := time.Since(start)
	if m := c.cfg.metrics; m != nil {
		m.observeRequest(req.Method, code, err, elapsed)
	}
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int64("latency_ms", elapsed.Milliseconds()),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	} else {
		fields = append(fields, zap.Int("status", code))
	}
	c.cfg.logger.Debug(ctx, "http.client.request", fields...)
}
