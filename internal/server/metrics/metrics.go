// Package metrics defines the Prometheus collectors exported by the server
// and the listener that serves them.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/blobhost/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blobhost"

// Metrics groups every collector. A nil *Metrics is valid and records
// nothing, so components can take one optionally.
type Metrics struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	objectsTotal    *prometheus.CounterVec
	bytesTotal      *prometheus.CounterVec
	fragmentsTotal  *prometheus.CounterVec
	orphansTotal    *prometheus.CounterVec
	idCollisions    prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegisterer(reg, reg)
}

// NewWithRegisterer registers the collectors on reg and serves them from g.
func NewWithRegisterer(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	m := &Metrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"route", "method"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "code"},
		),
		objectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "objects_total",
				Help:      "Objects written, read and deleted",
			},
			[]string{"op"},
		),
		bytesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "object_bytes_total",
				Help:      "Object payload bytes written and read",
			},
			[]string{"op"},
		),
		fragmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fragments_total",
				Help:      "Fragment documents written, read and deleted",
			},
			[]string{"op"},
		),
		orphansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orphans_total",
				Help:      "Records left behind by a failed second phase of a write or delete",
			},
			[]string{"kind"},
		),
		idCollisions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "id_collisions_total",
				Help:      "Generated identifiers that were already in use",
			},
		),
		gatherer: g,
	}

	reg.MustRegister(
		m.requestDuration,
		m.requestsTotal,
		m.objectsTotal,
		m.bytesTotal,
		m.fragmentsTotal,
		m.orphansTotal,
		m.idCollisions,
	)
	return m
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, method).Observe(d.Seconds())
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
}

// ObjectOp records a completed object operation ("write", "read",
// "delete") with its payload size and fragment count.
func (m *Metrics) ObjectOp(op string, size int64, fragments int) {
	if m == nil {
		return
	}
	m.objectsTotal.WithLabelValues(op).Inc()
	if size > 0 {
		m.bytesTotal.WithLabelValues(op).Add(float64(size))
	}
	m.fragmentsTotal.WithLabelValues(op).Add(float64(fragments))
}

// Orphan records records left behind; kind is "header" or "fragments".
func (m *Metrics) Orphan(kind string) {
	if m == nil {
		return
	}
	m.orphansTotal.WithLabelValues(kind).Inc()
}

// IDCollision records one generated id that was already taken.
func (m *Metrics) IDCollision() {
	if m == nil {
		return
	}
	m.idCollisions.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Serve runs a /metrics listener on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "metrics listener started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
