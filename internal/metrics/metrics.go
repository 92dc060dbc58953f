// Package metrics holds the Prometheus collectors for dzx operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dzx"

// Metrics is a private registry plus the collectors dzx records into. Each
// server or command owns its own so tests do not share global state.
type Metrics struct {
	Registry *prometheus.Registry

	decodes       *prometheus.CounterVec
	encodes       *prometheus.CounterVec
	codecDuration *prometheus.HistogramVec
	unknownChunks *prometheus.CounterVec
	appends       *prometheus.CounterVec
	indexedFiles  *prometheus.CounterVec
	containers    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "decodes_total",
			Help:      "Container decodes. Broken down by result.",
		}, []string{"result"}),
		encodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "encodes_total",
			Help:      "Container encodes. Broken down by result.",
		}, []string{"result"}),
		codecDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "duration_seconds",
			Help:      "Time spent decoding or encoding a container.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"op"}),
		unknownChunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "unknown_chunks_total",
			Help:      "Chunks decoded with placeholder records. Broken down by chunk type.",
		}, []string{"type"}),
		appends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "appends_total",
			Help:      "Records appended to containers. Broken down by record type.",
		}, []string{"type"}),
		indexedFiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "files_total",
			Help:      "Files seen by the catalog indexer. Broken down by outcome.",
		}, []string{"outcome"}),
		containers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "open_containers",
			Help:      "Containers currently held by the API server.",
		}),
	}
	m.Registry.MustRegister(
		m.decodes, m.encodes, m.codecDuration,
		m.unknownChunks, m.appends, m.indexedFiles, m.containers,
	)
	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Decoded records one decode that started at start.
func (m *Metrics) Decoded(start time.Time, err error) {
	if m == nil {
		return
	}
	m.decodes.WithLabelValues(result(err)).Inc()
	m.codecDuration.WithLabelValues("decode").Observe(time.Since(start).Seconds())
}

// Encoded records one encode that started at start.
func (m *Metrics) Encoded(start time.Time, err error) {
	if m == nil {
		return
	}
	m.encodes.WithLabelValues(result(err)).Inc()
	m.codecDuration.WithLabelValues("encode").Observe(time.Since(start).Seconds())
}

func (m *Metrics) UnknownChunk(typ string) {
	if m == nil {
		return
	}
	m.unknownChunks.WithLabelValues(typ).Inc()
}

func (m *Metrics) Appended(typ string) {
	if m == nil {
		return
	}
	m.appends.WithLabelValues(typ).Inc()
}

// Indexed counts a catalog outcome: "indexed", "skipped" or "failed".
func (m *Metrics) Indexed(outcome string) {
	if m == nil {
		return
	}
	m.indexedFiles.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetContainers(n int) {
	if m == nil {
		return
	}
	m.containers.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
