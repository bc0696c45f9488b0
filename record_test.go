package otelclient

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

func TestSpanGuard_Success(t *testing.T) {
	sr, tp := newTestBackend()
	_, span := tp.Tracer("test").Start(context.Background(), "op")

	g := newSpanGuard(span)
	g.Success(&http.Response{StatusCode: http.StatusNotFound})

	require.Len(t, sr.Ended(), 1)
	got := sr.Ended()[0]
	code, ok := findAttr(got.Attributes(), "http.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(404), code.AsInt64())
	assert.Equal(t, codes.Unset, got.Status().Code)
}

func TestSpanGuard_Failure(t *testing.T) {
	sr, tp := newTestBackend()
	_, span := tp.Tracer("test").Start(context.Background(), "op")

	g := newSpanGuard(span)
	g.Failure(errors.New("connection refused"))

	require.Len(t, sr.Ended(), 1)
	got := sr.Ended()[0]
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "connection refused", got.Status().Description)
}

func TestSpanGuard_EndIsIdempotent(t *testing.T) {
	sr, tp := newTestBackend()
	_, span := tp.Tracer("test").Start(context.Background(), "op")

	g := newSpanGuard(span)
	g.Success(&http.Response{StatusCode: http.StatusOK})
	g.end()
	g.end()

	assert.Len(t, sr.Ended(), 1)
}
