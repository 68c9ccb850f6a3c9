// Package metrics exports dottex events to Prometheus by implementing the
// observability hooks.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/dottex/pkg/observability"
)

var (
	LayoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dottex_layouts_total",
			Help: "Total number of layouts by positioner and outcome",
		},
		[]string{"positioner", "outcome"},
	)
	LayoutDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dottex_layout_duration_seconds",
			Help:    "Layout duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"positioner"},
	)
	ProbesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dottex_probes_total",
			Help: "Total number of capability probes by positioner and result code",
		},
		[]string{"positioner", "code"},
	)
	CacheEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dottex_cache_events_total",
			Help: "Cache hits, misses and writes by key type",
		},
		[]string{"key_type", "event"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dottex_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dottex_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)
)

// Collectors returns every collector defined by this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		LayoutsTotal, LayoutDuration, ProbesTotal, CacheEventsTotal,
		HTTPRequestsTotal, HTTPRequestDuration,
	}
}

// Register adds the collectors to reg and installs the hooks. Collectors
// already registered with reg are kept.
func Register(reg prometheus.Registerer) error {
	for _, c := range Collectors() {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	observability.SetLayoutHooks(Layout{})
	observability.SetCacheHooks(Cache{})
	return nil
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Layout implements observability.LayoutHooks.
type Layout struct{}

func (Layout) OnLayoutStart(context.Context, string) {}

func (Layout) OnLayoutComplete(_ context.Context, positioner string, _ int, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	LayoutsTotal.WithLabelValues(positioner, outcome).Inc()
	LayoutDuration.WithLabelValues(positioner).Observe(d.Seconds())
}

func (Layout) OnProbe(_ context.Context, positioner string, available bool, code string) {
	if available {
		code = "ok"
	} else if code == "" {
		code = "unknown"
	}
	ProbesTotal.WithLabelValues(positioner, code).Inc()
}

// Cache implements observability.CacheHooks.
type Cache struct{}

func (Cache) OnCacheHit(_ context.Context, keyType string) {
	CacheEventsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (Cache) OnCacheMiss(_ context.Context, keyType string) {
	CacheEventsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (Cache) OnCacheSet(_ context.Context, keyType string, _ int) {
	CacheEventsTotal.WithLabelValues(keyType, "set").Inc()
}

// HTTPMiddleware records request counts and latencies by chi route pattern.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
