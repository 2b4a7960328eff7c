package internal

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects request, gateway and session metrics on a private
// Prometheus registry.
type Metrics struct {
	reqTotal       *prometheus.CounterVec
	reqLatency     *prometheus.HistogramVec
	gatewayTotal   *prometheus.CounterVec
	gatewayLatency *prometheus.HistogramVec
	sessions       prometheus.Gauge
	photoSearches  *prometheus.CounterVec
	registry       *prometheus.Registry
}

// NewMetrics creates a new Metrics instance with a private Prometheus registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	reqTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	reqLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	gatewayTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_calls_total",
			Help: "Persistence gateway calls by table, operation and outcome",
		},
		[]string{"table", "op", "outcome"},
	)

	gatewayLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_call_duration_seconds",
			Help:    "Persistence gateway call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"table", "op"},
	)

	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tracker_sessions_active",
		Help: "Signed-in owners with a live session",
	})

	photoSearches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_searches_total",
			Help: "Photo searches by result kind",
		},
		[]string{"result"},
	)

	registry.MustRegister(reqTotal, reqLatency, gatewayTotal, gatewayLatency, sessions, photoSearches)

	return &Metrics{
		reqTotal:       reqTotal,
		reqLatency:     reqLatency,
		gatewayTotal:   gatewayTotal,
		gatewayLatency: gatewayLatency,
		sessions:       sessions,
		photoSearches:  photoSearches,
		registry:       registry,
	}
}

// Middleware returns a Chi middleware that collects metrics
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(rw, r)

			// Label by route pattern so ids do not explode cardinality.
			path := r.URL.Path
			if chiCtx := chi.RouteContext(r.Context()); chiCtx != nil && len(chiCtx.RoutePatterns) > 0 {
				path = chiCtx.RoutePatterns[len(chiCtx.RoutePatterns)-1]
			}

			status := http.StatusText(rw.code)
			m.reqTotal.WithLabelValues(r.Method, path, status).Inc()
			m.reqLatency.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		})
	}
}

// ObserveGatewayCall implements gateway.Observer.
func (m *Metrics) ObserveGatewayCall(table, op string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.gatewayTotal.WithLabelValues(table, op, outcome).Inc()
	m.gatewayLatency.WithLabelValues(table, op).Observe(elapsed.Seconds())
}

// SetSessions records the number of live sessions.
func (m *Metrics) SetSessions(n int) {
	m.sessions.Set(float64(n))
}

// ObservePhotoSearch counts one photo search.
func (m *Metrics) ObservePhotoSearch(fallback bool) {
	result := "ranked"
	if fallback {
		result = "fallback"
	}
	m.photoSearches.WithLabelValues(result).Inc()
}

// Handler returns an http.Handler that serves Prometheus metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// statusRecorder captures the HTTP status code for metrics
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.code = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	return sr.ResponseWriter.Write(b)
}
