package otelclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_SuccessCount(t *testing.T) {
	_, tp := newTestBackend()
	m := NewMetrics("test")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	cfg := testConfig(tp)
	cfg.Metrics = m
	client := NewClient(ts.Client(), cfg)

	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodPost, ts.URL, nil)
		require.NoError(t, err)
		resp, err := client.SendBody(context.Background(), req, []byte("x"))
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("POST", "201")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.errors.WithLabelValues("POST")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration), "one latency series per method")
}

func TestMetrics_ErrorCount(t *testing.T) {
	_, tp := newTestBackend()
	m := NewMetrics("test")

	base := doerFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	cfg := testConfig(tp)
	cfg.Metrics = m
	client := NewClient(base, cfg)

	req, err := http.NewRequest(http.MethodGet, "http://example.com/", nil)
	require.NoError(t, err)
	_, err = client.Send(context.Background(), req)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("GET")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("test")
	m.observeRequest("GET", 200, nil, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_client_requests_total")
}
