package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/fsnav/pkg/observability"
)

// Metrics records pipeline, cache and HTTP events as Prometheus metrics.
// It implements the observability hook interfaces; register it with
// [Metrics.Register].
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	listEntries   prometheus.Histogram
	visiblePoints prometheus.Histogram

	cacheEvents *prometheus.CounterVec
	cacheBytes  prometheus.Counter

	sessionEvents *prometheus.CounterVec
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsnav_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsnav_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		stageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsnav_pipeline_stage_duration_seconds",
				Help:    "Duration of list, scene and render stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		stageErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsnav_pipeline_errors_total",
				Help: "Total number of failed pipeline stages",
			},
			[]string{"stage"},
		),
		listEntries: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "fsnav_listing_entries",
			Help:    "Number of entries per directory listing",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 140, 500},
		}),
		visiblePoints: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "fsnav_scene_visible_points",
			Help:    "Number of points in front of the near plane per scene",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 140, 500},
		}),
		cacheEvents: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsnav_cache_events_total",
				Help: "Cache hits, misses and sets by key kind",
			},
			[]string{"event", "key_type"},
		),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "fsnav_cache_bytes_written_total",
			Help: "Total bytes written to the cache",
		}),
		sessionEvents: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsnav_session_events_total",
				Help: "Navigator events applied to sessions by type",
			},
			[]string{"type"},
		),
	}
}

// Register installs m as the process-wide observability hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// ObserveSessionEvent counts one applied session event.
func (m *Metrics) ObserveSessionEvent(typ string) {
	m.sessionEvents.WithLabelValues(typ).Inc()
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// =============================================================================
// Pipeline hooks
// =============================================================================

func (m *Metrics) OnListStart(context.Context, string) {}

func (m *Metrics) OnListComplete(_ context.Context, _ string, n int, d time.Duration, err error) {
	m.observeStage("list", d, err)
	if err == nil {
		m.listEntries.Observe(float64(n))
	}
}

func (m *Metrics) OnSceneStart(context.Context, int) {}

func (m *Metrics) OnSceneComplete(_ context.Context, n int, d time.Duration, err error) {
	m.observeStage("scene", d, err)
	if err == nil {
		m.visiblePoints.Observe(float64(n))
	}
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.observeStage("render", d, err)
}

func (m *Metrics) observeStage(stage string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(stage).Inc()
	}
}

// =============================================================================
// Cache hooks
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues("hit", keyType).Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues("miss", keyType).Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues("set", keyType).Inc()
	m.cacheBytes.Add(float64(size))
}

// =============================================================================
// HTTP hooks
// =============================================================================

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
