package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pricetracker"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	refreshCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "cycles_total",
			Help:      "Total refresh cycles by outcome.",
		},
		[]string{"outcome"},
	)

	refreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of one refresh cycle, excluding the inter-cycle delay.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 8), // 0.5s to ~64s
		},
	)

	refreshNextDelay = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "next_delay_seconds",
			Help:      "Delay scheduled before the next refresh cycle.",
		},
	)

	fetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "total",
			Help:      "Total asset fetches by result.",
		},
		[]string{"asset", "result"},
	)

	fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Duration of one asset fetch including the intra-fetch pause.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		},
		[]string{"asset"},
	)

	snapshotUpdated = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "updated_timestamp_seconds",
			Help:      "Unix time of the last successful snapshot write per asset.",
		},
		[]string{"asset"},
	)

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 10),
		},
		[]string{"method", "route"},
	)

	wsSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "sessions",
			Help:      "Open WebSocket command sessions.",
		},
	)

	wsCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "commands_total",
			Help:      "WebSocket commands handled by command and response type.",
		},
		[]string{"cmd", "type"},
	)
)

func init() {
	Registry.MustRegister(
		refreshCycles,
		refreshDuration,
		refreshNextDelay,
		fetches,
		fetchDuration,
		snapshotUpdated,
		httpInFlight,
		httpRequests,
		httpDuration,
		wsSessions,
		wsCommands,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordCycle records a completed refresh cycle and the delay that follows it.
func RecordCycle(rateLimited bool, duration, nextDelay time.Duration) {
	outcome := "complete"
	if rateLimited {
		outcome = "rate_limited"
	}
	refreshCycles.WithLabelValues(outcome).Inc()
	refreshDuration.Observe(duration.Seconds())
	refreshNextDelay.Set(nextDelay.Seconds())
}

// RecordFetch records one asset fetch. result is "ok" or a failure kind.
func RecordFetch(asset, result string, duration time.Duration) {
	fetches.WithLabelValues(asset, result).Inc()
	fetchDuration.WithLabelValues(asset).Observe(duration.Seconds())
}

// RecordSnapshotUpdate marks asset as refreshed at t.
func RecordSnapshotUpdate(asset string, t time.Time) {
	snapshotUpdated.WithLabelValues(asset).Set(float64(t.UnixNano()) / 1e9)
}

// SessionOpened and SessionClosed track live WebSocket sessions.
func SessionOpened() { wsSessions.Inc() }
func SessionClosed() { wsSessions.Dec() }

// RecordCommand counts one WebSocket command.
func RecordCommand(cmd, respType string) {
	wsCommands.WithLabelValues(cmd, respType).Inc()
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
// Requests are labelled by chi route pattern so ids never become labels.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack is required by the WebSocket upgrade on /ws.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
