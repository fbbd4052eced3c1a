package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danmuck/nexrmc/internal/protocol/nex"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexrmc",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nexrmc",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)
	decodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexrmc",
			Subsystem: "rmc",
			Name:      "decodes_total",
			Help:      "RMC messages decoded, by outcome.",
		},
		[]string{"protocol", "method", "direction", "outcome"},
	)
	decodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nexrmc",
			Subsystem: "rmc",
			Name:      "decode_duration_seconds",
			Help:      "RMC body decode duration in seconds.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
		[]string{"protocol", "direction"},
	)
	diagnostics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexrmc",
			Subsystem: "rmc",
			Name:      "diagnostics_total",
			Help:      "Recoverable decode diagnostics, by kind.",
		},
		[]string{"protocol", "kind"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, decodes, decodeDuration, diagnostics)
	})
}

func RecordHTTPRequest(service, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(service, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(service, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordDecode(protocol, method, direction, outcome string, duration time.Duration) {
	RegisterMetrics()
	decodes.WithLabelValues(protocol, method, direction, outcome).Inc()
	decodeDuration.WithLabelValues(protocol, direction).Observe(duration.Seconds())
}

func RecordDiagnostic(protocol string, kind nex.DiagnosticKind) {
	RegisterMetrics()
	diagnostics.WithLabelValues(protocol, string(kind)).Inc()
}

// DecodeMetrics feeds dispatcher events into the process metrics.
type DecodeMetrics struct{}

func (DecodeMetrics) ObserveDecode(protocol, method, direction, outcome string, elapsed time.Duration) {
	RecordDecode(protocol, method, direction, outcome, elapsed)
}

func (DecodeMetrics) ObserveDiagnostic(protocol string, kind nex.DiagnosticKind) {
	RecordDiagnostic(protocol, kind)
}
