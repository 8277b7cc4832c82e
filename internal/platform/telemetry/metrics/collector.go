package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector records RTE call metrics.
type Collector struct {
	registry *prometheus.Registry

	callsTotal     *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	callLatency    *prometheus.HistogramVec
	activeSessions *prometheus.GaugeVec
}

// NewCollector creates a collector whose metrics live under namespace.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "scormrte"
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.callsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "calls_total",
			Help:      "Total number of RTE verb calls",
		},
		[]string{"version", "verb", "result"},
	)

	c.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Total number of RTE verb calls that raised an error, by reported code",
		},
		[]string{"version", "verb", "code"},
	)

	c.callLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "call_duration_seconds",
			Help:      "Time taken to serve an RTE verb",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		},
		[]string{"version", "verb"},
	)

	c.activeSessions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "active_sessions",
			Help:      "Content sessions initialized and not yet terminated",
		},
		[]string{"version"},
	)

	c.registry.MustRegister(c.callsTotal, c.errorsTotal, c.callLatency, c.activeSessions)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordCall records one verb call. code is the numeric error code reported
// to content and is only used when failed is true.
func (c *Collector) RecordCall(version, verb string, failed bool, code int, duration time.Duration) {
	result := "ok"
	if failed {
		result = "error"
		c.errorsTotal.WithLabelValues(version, verb, strconv.Itoa(code)).Inc()
	}
	c.callsTotal.WithLabelValues(version, verb, result).Inc()
	c.callLatency.WithLabelValues(version, verb).Observe(duration.Seconds())
}

// SessionStarted marks a content session as active.
func (c *Collector) SessionStarted(version string) {
	c.activeSessions.WithLabelValues(version).Inc()
}

// SessionEnded marks a content session as finished.
func (c *Collector) SessionEnded(version string) {
	c.activeSessions.WithLabelValues(version).Dec()
}

// WriteTextfile writes every metric to path in the Prometheus text format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
