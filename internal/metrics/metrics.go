// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics exposes Prometheus collectors for block dispatch, renderer
// resolution and the page cache.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blockpress/internal/blocks"
)

// Metrics holds the collectors. Create one per process with New.
type Metrics struct {
	registry *prometheus.Registry

	dispatched *prometheus.CounterVec
	resolved   *prometheus.HistogramVec
	pageCache  *prometheus.CounterVec
	renders    *prometheus.CounterVec
}

// New creates and registers all collectors on a fresh registry, together
// with the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blockpress",
			Name:      "blocks_dispatched_total",
			Help:      "Blocks dispatched, by block type and rendering path.",
		}, []string{"type", "path"}),
		resolved: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "blockpress",
			Name:      "renderer_resolve_seconds",
			Help:      "Time to resolve a deferred renderer, by renderer and result.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"renderer", "result"}),
		pageCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blockpress",
			Name:      "page_cache_requests_total",
			Help:      "Page cache lookups, by result (hit, miss, skip).",
		}, []string{"result"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blockpress",
			Name:      "page_renders_total",
			Help:      "Page renders, by kind and outcome (complete, partial, error).",
		}, []string{"kind", "outcome"}),
	}
	m.registry.MustRegister(
		m.dispatched,
		m.resolved,
		m.pageCache,
		m.renders,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveDispatch counts one dispatched block. It has the signature of
// blocks.DispatchObserver.
func (m *Metrics) ObserveDispatch(blockType string, path blocks.Path) {
	m.dispatched.WithLabelValues(blockType, string(path)).Inc()
}

// ObserveResolve records a renderer resolution. It has the signature of
// blocks.ResolveObserver.
func (m *Metrics) ObserveResolve(name string, took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.resolved.WithLabelValues(name, result).Observe(took.Seconds())
}

// CacheHit, CacheMiss and CacheSkip count page cache outcomes. Skip means
// the rendered page was incomplete and was not stored.
func (m *Metrics) CacheHit()  { m.pageCache.WithLabelValues("hit").Inc() }
func (m *Metrics) CacheMiss() { m.pageCache.WithLabelValues("miss").Inc() }
func (m *Metrics) CacheSkip() { m.pageCache.WithLabelValues("skip").Inc() }

// PageRendered counts a page render outcome for kind ("page" or "post").
func (m *Metrics) PageRendered(kind, outcome string) {
	m.renders.WithLabelValues(kind, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
