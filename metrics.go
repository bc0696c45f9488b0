package otelclient

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// histogramBoundariesMs returns consistent bucket boundaries for
// request latency histograms.
func histogramBoundariesMs() []float64 {
	return []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000} // ms
}

// Metrics records per-request counters and latency on its own
// prometheus registry. Pass one instance in Config to enable metrics;
// share it across clients to aggregate.
type Metrics struct {
	reg *prometheus.Registry

	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{reg: prometheus.NewRegistry()}

	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_requests_total",
		Help:      "Completed traced HTTP client requests by method and status code.",
	}, []string{"method", "code"})
	m.reg.MustRegister(m.requests)

	m.errors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_request_errors_total",
		Help:      "Traced HTTP client requests that failed before a response arrived.",
	}, []string{"method"})
	m.reg.MustRegister(m.errors)

	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "client_request_duration_ms",
		Help:      "Traced HTTP client request latency in milliseconds.",
		Buckets:   histogramBoundariesMs(),
	}, []string{"method"})
	m.reg.MustRegister(m.duration)

	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, for callers that register
// additional collectors next to the client's.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) observeRequest(method string, code int, err error, elapsed time.Duration) {
	if err != nil {
		m.errors.WithLabelValues(method).Inc()
	} else {
		m.requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	}
	m.duration.WithLabelValues(method).Observe(float64(elapsed.Milliseconds()))
}
