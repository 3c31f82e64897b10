// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process-wide Prometheus collectors.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RenderDuration  prometheus.Histogram
	SaveDuration    prometheus.Histogram
	ExportsTotal    *prometheus.CounterVec

	sessions atomic.Pointer[func() int]
}

var (
	metricsOnce     sync.Once
	metricsInstance *Metrics
)

// NewMetrics returns the shared collectors, registering them on first use.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		m := &Metrics{
			RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "tipper_http_requests_total",
				Help: "HTTP requests by route pattern, method and status",
			}, []string{"route", "method", "status"}),
			RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "tipper_http_request_duration_seconds",
				Help:    "HTTP request latency by route pattern",
				Buckets: prometheus.DefBuckets,
			}, []string{"route"}),
			RenderDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "tipper_render_duration_seconds",
				Help:    "Time spent compositing previews and exports",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
			}),
			SaveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "tipper_save_duration_seconds",
				Help:    "Time from save request to stored post, including storage",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			}),
			ExportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "tipper_exports_total",
				Help: "Saved media by MIME type",
			}, []string{"mime_type"}),
		}
		promauto.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "tipper_editor_sessions_active",
			Help: "Open editor sessions",
		}, func() float64 {
			if fn := m.sessions.Load(); fn != nil {
				return float64((*fn)())
			}
			return 0
		})
		metricsInstance = m
	})
	return metricsInstance
}

// TrackSessions sets the source of the active sessions gauge.
func (m *Metrics) TrackSessions(count func() int) {
	if m == nil {
		return
	}
	m.sessions.Store(&count)
}

func (m *Metrics) ObserveRender(d time.Duration) {
	if m == nil {
		return
	}
	m.RenderDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveSave(d time.Duration) {
	if m == nil {
		return
	}
	m.SaveDuration.Observe(d.Seconds())
}

func (m *Metrics) RecordExport(mimeType string) {
	if m == nil {
		return
	}
	m.ExportsTotal.WithLabelValues(mimeType).Inc()
}

// WithMetrics counts and times requests by their ServeMux pattern.
func (m *Metrics) WithMetrics(next http.HandlerFunc) http.HandlerFunc {
	if m == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := record(w)
		next(rw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rw.status)).Inc()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
