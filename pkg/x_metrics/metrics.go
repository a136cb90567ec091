// file:arbor/pkg/x_metrics/metrics.go

// Package x_metrics holds the prometheus collectors shared by tree backends.
package x_metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//---------------------
// Collectors
//---------------------

// Tree groups the per-operation collectors of tree backends.
type Tree struct {
	Ops      *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Nodes    *prometheus.GaugeVec
}

// NewTree builds tree collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewTree(reg prometheus.Registerer) *Tree {
	m := &Tree{
		Ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arbor",
			Name:      "tree_ops_total",
			Help:      "Tree operations by backend, operation and result.",
		}, []string{"backend", "op", "result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "arbor",
			Name:      "tree_op_duration_seconds",
			Help:      "Tree operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"backend", "op"}),
		Nodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "arbor",
			Name:      "tree_nodes",
			Help:      "Node count observed by the last stats call.",
		}, []string{"backend"}),
	}
	if reg != nil {
		reg.MustRegister(m.Ops, m.Duration, m.Nodes)
	}
	return m
}

// Observe records one finished operation.
func (m *Tree) Observe(backend, op string, began time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Ops.WithLabelValues(backend, op, result).Inc()
	m.Duration.WithLabelValues(backend, op).Observe(time.Since(began).Seconds())
}

//---------------------
// Registry
//---------------------

var (
	// Registry is the process registry served on /metrics.
	Registry = prometheus.NewRegistry()

	// Default is registered on Registry and used when a backend is built
	// without its own collectors.
	Default = NewTree(Registry)
)

// Handler serves Registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
