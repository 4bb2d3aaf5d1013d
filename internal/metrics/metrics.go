// Package metrics exposes Prometheus counters for card navigation, list
// rebuilds and template store operations.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mark3labs/mailman/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered on its own registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	navigations     *prometheus.CounterVec
	rebuilds        prometheus.Counter
	rebuildDuration prometheus.Histogram
	templateOps     *prometheus.CounterVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailman_card_navigations_total",
				Help: "Card flow navigations by direction.",
			},
			[]string{"direction"},
		),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mailman_list_rebuilds_total",
			Help: "Full rebuilds of the template list.",
		}),
		rebuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mailman_list_rebuild_duration_seconds",
			Help:    "Time spent rebuilding the template list.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		templateOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailman_template_ops_total",
				Help: "Template store operations by kind.",
			},
			[]string{"op"},
		),
	}
	m.registry.MustRegister(m.navigations, m.rebuilds, m.rebuildDuration, m.templateOps)
	return m
}

// Navigated counts a card flow move ("next" or "back").
func (m *Metrics) Navigated(direction string) {
	if m == nil {
		return
	}
	m.navigations.WithLabelValues(direction).Inc()
}

// Rebuilt counts a list rebuild that took d.
func (m *Metrics) Rebuilt(d time.Duration) {
	if m == nil {
		return
	}
	m.rebuilds.Inc()
	m.rebuildDuration.Observe(d.Seconds())
}

// TemplateOp counts a store operation.
func (m *Metrics) TemplateOp(op string) {
	if m == nil {
		return
	}
	m.templateOps.WithLabelValues(op).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve listens on addr and serves /metrics until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Metrics listening on %s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
