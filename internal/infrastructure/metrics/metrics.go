package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the prometheus collectors of the web app.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec
	RequestDurationSec *prometheus.HistogramVec
	PanicsRecovered    prometheus.Counter
	LoginFailures      prometheus.Counter
	RateLimitDropped   prometheus.Counter
	FeedsAdded         *prometheus.CounterVec
}

func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coldsweat_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"route", "method", "status"}),
		RequestDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coldsweat_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		PanicsRecovered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coldsweat_panics_recovered_total",
			Help: "Total number of panics turned into 500 responses.",
		}),
		LoginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coldsweat_login_failures_total",
			Help: "Total number of failed log in attempts.",
		}),
		RateLimitDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coldsweat_ratelimit_dropped_total",
			Help: "Total number of requests dropped by the rate limiter.",
		}),
		FeedsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coldsweat_feeds_added_total",
			Help: "Total number of feed subscriptions, by outcome.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSec,
		m.PanicsRecovered,
		m.LoginFailures,
		m.RateLimitDropped,
		m.FeedsAdded,
	)

	return m
}

// NewWithRuntime registers the app collectors plus the Go runtime and
// process collectors on a fresh registry.
func NewWithRuntime() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return New(registry)
}

// LoginFailed counts a rejected log in. Safe on a nil *Metrics.
func (m *Metrics) LoginFailed() {
	if m != nil {
		m.LoginFailures.Inc()
	}
}

// FeedAdded counts a subscription attempt by outcome. Safe on a nil *Metrics.
func (m *Metrics) FeedAdded(outcome string) {
	if m != nil {
		m.FeedsAdded.WithLabelValues(outcome).Inc()
	}
}

// PanicRecovered is meant for middleware.ExceptionOptions.OnPanic.
func (m *Metrics) PanicRecovered() {
	if m != nil {
		m.PanicsRecovered.Inc()
	}
}

// RateLimited is meant as the drop hook of middleware.RateLimit.
func (m *Metrics) RateLimited() {
	if m != nil {
		m.RateLimitDropped.Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedAt := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		status := strconv.Itoa(wrapped.statusCode)
		route := normalizeRoute(r.URL.Path)
		m.RequestsTotal.WithLabelValues(route, r.Method, status).Inc()
		m.RequestDurationSec.WithLabelValues(route, r.Method, status).Observe(time.Since(startedAt).Seconds())
	})
}

// Route labels stay bounded: ids and asset names are folded.
func normalizeRoute(path string) string {
	switch {
	case path == "/" || path == "":
		return "/"
	case path == "/entries/mark":
		return "/entries/mark"
	case strings.HasPrefix(path, "/entries/"):
		return "/entries/{id}"
	case strings.HasPrefix(path, "/feeds/edit/"):
		return "/feeds/edit/{id}"
	case strings.HasPrefix(path, "/static/"):
		return "/static/*"
	}

	switch strings.TrimSuffix(path, "/") {
	case "/entries", "/feeds", "/feeds/add", "/login", "/logout",
		"/fever", "/guide", "/about", "/healthz", "/metrics":
		return strings.TrimSuffix(path, "/")
	default:
		return "other"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *statusRecorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
