package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/cellgraph/pkg/errors"
	"github.com/matzehuels/cellgraph/pkg/observability"
)

const metricsNamespace = appName

// serverMetrics counts API traffic and sheet edits for the serve command. It
// forwards every event to the logging hooks it wraps.
type serverMetrics struct {
	logHooks

	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	edits        *prometheus.CounterVec
	recalculated prometheus.Histogram
	cache        *prometheus.CounterVec
}

func newServerMetrics(next logHooks) *serverMetrics {
	return &serverMetrics{
		logHooks: next,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by method and status code.",
			},
			[]string{"method", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 100µs to ~200ms
			},
			[]string{"method"},
		),
		edits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "sheet",
				Name:      "edits_total",
				Help:      "Cell edits by result code.",
			},
			[]string{"result"},
		),
		recalculated: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "sheet",
				Name:      "recalculated_cells",
				Help:      "Cells recomputed per successful edit.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "cache",
				Name:      "operations_total",
				Help:      "Cache operations by key type and outcome.",
			},
			[]string{"type", "op"},
		),
	}
}

// MustRegister registers the metrics with the given Prometheus registry.
func (m *serverMetrics) MustRegister(registry prometheus.Registerer) {
	registry.MustRegister(m.requests, m.duration, m.edits, m.recalculated, m.cache)
}

// install makes m the sheet, cache and HTTP hook receiver.
func (m *serverMetrics) install() {
	observability.SetSheetHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *serverMetrics) OnSetContents(name string, affected int, d time.Duration, err error) {
	m.logHooks.OnSetContents(name, affected, d, err)
	if err != nil {
		result := string(errors.GetCode(err))
		if result == "" {
			result = "error"
		}
		m.edits.WithLabelValues(result).Inc()
		return
	}
	m.edits.WithLabelValues("ok").Inc()
	m.recalculated.Observe(float64(affected))
}

func (m *serverMetrics) OnCacheHit(ctx context.Context, keyType string) {
	m.logHooks.OnCacheHit(ctx, keyType)
	m.cache.WithLabelValues(keyType, "hit").Inc()
}

func (m *serverMetrics) OnCacheMiss(ctx context.Context, keyType string) {
	m.logHooks.OnCacheMiss(ctx, keyType)
	m.cache.WithLabelValues(keyType, "miss").Inc()
}

func (m *serverMetrics) OnCacheSet(ctx context.Context, keyType string, size int) {
	m.logHooks.OnCacheSet(ctx, keyType, size)
	m.cache.WithLabelValues(keyType, "set").Inc()
}

func (m *serverMetrics) OnResponse(ctx context.Context, method, path string, status int, d time.Duration) {
	m.logHooks.OnResponse(ctx, method, path, status, d)
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}
