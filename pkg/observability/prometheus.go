package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "netweave"

// PrometheusHooks records pipeline, cache and HTTP events as Prometheus
// metrics. It implements all three hook interfaces.
type PrometheusHooks struct {
	stageDuration  *prometheus.HistogramVec
	stageErrors    *prometheus.CounterVec
	generatedEdges *prometheus.HistogramVec
	degenerate     prometheus.Counter

	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewPrometheusHooks creates the collectors and registers them with reg.
// It panics if any collector is already registered.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"stage", "kind"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Pipeline stages that returned an error.",
		}, []string{"stage", "kind"}),
		generatedEdges: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generated_edges",
			Help:      "Edge count of generated networks.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"network"}),
		degenerate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degenerate_layouts_total",
			Help:      "Layouts normalized with the collinear-axis fallback.",
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache lookups and writes by key type.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		h.stageDuration, h.stageErrors, h.generatedEdges, h.degenerate,
		h.cacheEvents, h.cacheBytes,
		h.httpRequests, h.httpDuration,
	)
	return h
}

func (h *PrometheusHooks) stage(stage, kind string, d time.Duration, err error) {
	h.stageDuration.WithLabelValues(stage, kind).Observe(d.Seconds())
	if err != nil {
		h.stageErrors.WithLabelValues(stage, kind).Inc()
	}
}

func (h *PrometheusHooks) OnGenerateStart(context.Context, string, int) {}

func (h *PrometheusHooks) OnGenerateComplete(_ context.Context, network string, edges int, d time.Duration, err error) {
	h.stage("generate", network, d, err)
	if err == nil {
		h.generatedEdges.WithLabelValues(network).Observe(float64(edges))
	}
}

func (h *PrometheusHooks) OnLayoutStart(context.Context, string, int) {}

func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, layout string, d time.Duration, err error) {
	h.stage("layout", layout, d, err)
}

func (h *PrometheusHooks) OnNormalizeComplete(_ context.Context, degenerate bool, d time.Duration, err error) {
	h.stage("normalize", "", d, err)
	if degenerate {
		h.degenerate.Inc()
	}
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
