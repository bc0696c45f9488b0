package otelclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		raw          string
		wantHost     string
		wantInsecure bool
	}{
		{"", "localhost:4317", true},
		{"http://localhost:4317", "localhost:4317", true},
		{"https://collector.example.com:4317", "collector.example.com:4317", false},
		{"localhost:4317", "localhost:4317", true},
		{":4317", "localhost:4317", true},
		{"collector", "collector", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			host, insecure := parseEndpoint(tt.raw)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantInsecure, insecure)
		})
	}
}

func TestSetup_UnsupportedProtocol(t *testing.T) {
	_, err := Setup(context.Background(), TelemetryConfig{
		ServiceName: "test",
		Protocol:    "carrier-pigeon",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported trace protocol")
}

func TestSetup_ClientConfig(t *testing.T) {
	tel, err := Setup(context.Background(), TelemetryConfig{
		ServiceName:       "test",
		CollectorEndpoint: "localhost:4317",
	})
	require.NoError(t, err)

	cfg := tel.ClientConfig()
	assert.Same(t, tel.TracerProvider(), cfg.TracerProvider)
	assert.NotNil(t, cfg.Propagator)
	assert.NotNil(t, cfg.Logger)
	assert.NotNil(t, cfg.Metrics)

	// Shutdown may fail to flush without a live collector; it must
	// still stop the provider.
	_ = tel.Shutdown(context.Background())
}
