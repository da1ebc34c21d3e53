package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus instruments the front-end exports.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal *prometheus.CounterVec
	GraphNodes    prometheus.Gauge
	GraphEdges    prometheus.Gauge
	GraphReloads  prometheus.Counter
}

// NewMetrics registers the instruments on a private registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.NewRegistry())
}

// NewMetricsWithRegistry registers on a caller-provided registry. Tests use
// this for isolation.
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "depgraph_http_requests_total",
			Help: "HTTP requests served, by path and status code.",
		}, []string{"path", "code"}),
		GraphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "depgraph_graph_nodes",
			Help: "Nodes in the currently loaded graph.",
		}),
		GraphEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "depgraph_graph_edges",
			Help: "Edges in the currently loaded graph.",
		}),
		GraphReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "depgraph_graph_reloads_total",
			Help: "Times the graph snapshot was reloaded from the store.",
		}),
	}
	reg.MustRegister(m.RequestsTotal, m.GraphNodes, m.GraphEdges, m.GraphReloads)
	return m
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
