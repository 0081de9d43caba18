package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/rebalance/types"
)

// PrometheusCollector implements types.RebalanceMetrics backed by Prometheus.
//
// Metrics are registered lazily on first use so that constructing a collector
// never panics on duplicate registration in tests that share the default
// registerer.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	rebalanceDuration *prometheus.HistogramVec
	rebalanceAttempts *prometheus.CounterVec
	partitionCount    *prometheus.GaugeVec
	orphanedReplicas  *prometheus.GaugeVec
	excessReplicas    *prometheus.GaugeVec
}

// Compile-time assertion that PrometheusCollector implements RebalanceMetrics.
var _ types.RebalanceMetrics = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "rebalance" if empty)
//
// Returns:
//   - *PrometheusCollector: A RebalanceMetrics implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "rebalance"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.rebalanceDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "strategy",
			Name:      "duration_seconds",
			Help:      "Time taken to compute a partition assignment.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8), // 100us .. ~1.6s
		}, []string{"resource"})

		p.rebalanceAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "strategy",
			Name:      "attempts_total",
			Help:      "Total rebalance attempts by outcome (success,failure).",
		}, []string{"resource", "outcome"})

		p.partitionCount = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "strategy",
			Name:      "partitions",
			Help:      "Number of partitions in the last computed assignment.",
		}, []string{"resource"})

		p.orphanedReplicas = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "strategy",
			Name:      "orphaned_replicas",
			Help:      "Replicas left unplaced by the last rebalance.",
		}, []string{"resource"})

		p.excessReplicas = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "strategy",
			Name:      "excess_replicas",
			Help:      "Replicas retained above node capacity by the last rebalance.",
		}, []string{"resource"})

		p.reg.MustRegister(
			p.rebalanceDuration,
			p.rebalanceAttempts,
			p.partitionCount,
			p.orphanedReplicas,
			p.excessReplicas,
		)
	})
}

// RecordRebalance records one completed rebalance computation.
func (p *PrometheusCollector) RecordRebalance(resource string, duration float64, success bool) {
	p.ensureRegistered()

	outcome := "success"
	if !success {
		outcome = "failure"
	}
	p.rebalanceAttempts.WithLabelValues(resource, outcome).Inc()
	p.rebalanceDuration.WithLabelValues(resource).Observe(duration)
}

// RecordPartitionCount sets the partition count gauge for a resource.
func (p *PrometheusCollector) RecordPartitionCount(resource string, count int) {
	p.ensureRegistered()
	p.partitionCount.WithLabelValues(resource).Set(float64(count))
}

// RecordOrphanedReplicas sets the orphaned replica gauge for a resource.
func (p *PrometheusCollector) RecordOrphanedReplicas(resource string, count int) {
	p.ensureRegistered()
	p.orphanedReplicas.WithLabelValues(resource).Set(float64(count))
}

// RecordExcessReplicas sets the excess replica gauge for a resource.
func (p *PrometheusCollector) RecordExcessReplicas(resource string, count int) {
	p.ensureRegistered()
	p.excessReplicas.WithLabelValues(resource).Set(float64(count))
}
