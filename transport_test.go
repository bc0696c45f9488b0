package otelclient

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestWrapClient(t *testing.T) {
	sr, tp := newTestBackend()
	ch := make(chan echo, 1)
	ts := echoServer(t, ch)

	client := WrapClient(ts.Client(), testConfig(tp))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/wrapped", nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	got := <-ch
	assert.NotEmpty(t, got.Traceparent, "wrapped transport did not inject")

	require.Len(t, sr.Ended(), 1)
	span := sr.Ended()[0]
	assert.Equal(t, trace.SpanKindClient, span.SpanKind())
	assert.Contains(t, span.Name(), "/wrapped")

	// The round tripper clones; the caller's request stays untouched.
	assert.Empty(t, req.Header.Get("traceparent"))
}

func TestWrapClient_NilUsesDefault(t *testing.T) {
	_, tp := newTestBackend()
	client := WrapClient(nil, testConfig(tp))
	require.NotNil(t, client)
	assert.NotSame(t, http.DefaultClient, client)
	assert.IsType(t, &roundTripper{}, client.Transport)
}

func TestNewRoundTripper_NoDoubleWrap(t *testing.T) {
	_, tp := newTestBackend()
	rt := NewRoundTripper(http.DefaultTransport, testConfig(tp))
	assert.Same(t, rt, NewRoundTripper(rt, testConfig(tp)))
}

func TestRoundTripper_ErrorPath(t *testing.T) {
	sr, tp := newTestBackend()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // refuse every connection

	client := WrapClient(nil, testConfig(tp))
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.Error(t, err)
	require.Len(t, sr.Ended(), 1)
}
