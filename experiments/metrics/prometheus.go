package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusCollector exports solver activity as Prometheus metrics and keeps
// in-process totals alongside.
type PrometheusCollector struct {
	totals    Collector
	searches  *prometheus.CounterVec
	nodes     prometheus.Counter
	tableHits prometheus.Counter
	duration  prometheus.Histogram
}

// NewPrometheusCollector registers its metrics on reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	factory := promauto.With(reg)
	return &PrometheusCollector{
		totals: NewCollector(),
		searches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chomp",
			Subsystem: "solver",
			Name:      "searches_total",
			Help:      "Solver queries by outcome for the player to move.",
		}, []string{"outcome"}),
		nodes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "chomp",
			Subsystem: "solver",
			Name:      "nodes_total",
			Help:      "Positions expanded by the solver.",
		}),
		tableHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "chomp",
			Subsystem: "solver",
			Name:      "table_hits_total",
			Help:      "Positions answered from the transposition table.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chomp",
			Subsystem: "solver",
			Name:      "search_duration_seconds",
			Help:      "Wall time of a solver query.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
	}
}

func (p *PrometheusCollector) Observe(metric SearchMetric) {
	outcome := "loss"
	if metric.Winning {
		outcome = "win"
	}
	p.searches.WithLabelValues(outcome).Inc()
	p.nodes.Add(float64(metric.Nodes))
	p.tableHits.Add(float64(metric.TableHits))
	p.duration.Observe(metric.Duration.Seconds())
	p.totals.Observe(metric)
}

func (p *PrometheusCollector) Totals() Totals {
	return p.totals.Totals()
}
