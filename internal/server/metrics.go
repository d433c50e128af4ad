package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RateLimited         prometheus.Counter

	FramesTotal  prometheus.Counter
	VisibleNodes prometheus.Gauge
	VisibleLinks prometheus.Gauge

	ReloadsTotal  *prometheus.CounterVec
	DatasetNodes  prometheus.Gauge
	DatasetLinks  prometheus.Gauge
	LastReloadSec prometheus.Gauge
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	f := promauto.With(m.registry)

	m.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netviz_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netviz_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	m.RateLimited = f.NewCounter(prometheus.CounterOpts{
		Name: "netviz_http_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})

	m.FramesTotal = f.NewCounter(prometheus.CounterOpts{
		Name: "netviz_frames_total",
		Help: "Frames evaluated",
	})
	m.VisibleNodes = f.NewGauge(prometheus.GaugeOpts{
		Name: "netviz_frame_visible_nodes",
		Help: "Visible nodes in the last evaluated frame",
	})
	m.VisibleLinks = f.NewGauge(prometheus.GaugeOpts{
		Name: "netviz_frame_visible_links",
		Help: "Visible links in the last evaluated frame",
	})

	m.ReloadsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netviz_dataset_reloads_total",
			Help: "Dataset reloads by outcome",
		},
		[]string{"status"},
	)
	m.DatasetNodes = f.NewGauge(prometheus.GaugeOpts{
		Name: "netviz_dataset_nodes",
		Help: "Nodes in the loaded dataset",
	})
	m.DatasetLinks = f.NewGauge(prometheus.GaugeOpts{
		Name: "netviz_dataset_links",
		Help: "Links in the loaded dataset",
	})
	m.LastReloadSec = f.NewGauge(prometheus.GaugeOpts{
		Name: "netviz_dataset_last_reload_timestamp_seconds",
		Help: "Unix time of the last successful reload",
	})

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request with its duration.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordFrame records one evaluated frame.
func (m *Metrics) RecordFrame(visibleNodes, visibleLinks int) {
	m.FramesTotal.Inc()
	m.VisibleNodes.Set(float64(visibleNodes))
	m.VisibleLinks.Set(float64(visibleLinks))
}

// RecordReload records a reload attempt. Sizes are only updated on success.
func (m *Metrics) RecordReload(err error, nodes, links int) {
	if err != nil {
		m.ReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	m.ReloadsTotal.WithLabelValues("ok").Inc()
	m.DatasetNodes.Set(float64(nodes))
	m.DatasetLinks.Set(float64(links))
	m.LastReloadSec.Set(float64(time.Now().Unix()))
}
