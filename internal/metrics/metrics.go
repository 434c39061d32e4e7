package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ProviderCalls counts news provider calls by provider and outcome (success, timeout, provider_error, empty).
	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_provider_calls_total",
			Help: "Total number of news provider calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	// MockFallbacks counts responses served from mock articles by the reason that forced them.
	MockFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_mock_fallbacks_total",
			Help: "Total number of mock article fallbacks by reason",
		},
		[]string{"reason"},
	)

	// ReportRenders counts PDF renders by engine and status (ok, error).
	ReportRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_renders_total",
			Help: "Total number of PDF report renders",
		},
		[]string{"engine", "status"},
	)

	// Logins counts login attempts by result (success, invalid, error).
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, ProviderCalls, MockFallbacks, ReportRenders, Logins)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

func RecordProviderCall(provider, outcome string) {
	ProviderCalls.WithLabelValues(provider, outcome).Inc()
}

func RecordMockFallback(reason string) {
	MockFallbacks.WithLabelValues(reason).Inc()
}

func RecordReportRender(engine string, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	ReportRenders.WithLabelValues(engine, status).Inc()
}

func RecordLogin(result string) {
	Logins.WithLabelValues(result).Inc()
}
