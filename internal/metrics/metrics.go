// Package metrics exposes Prometheus collectors for Aseprite invocations.
package metrics

import (
	"net/http"
	"time"

	"github.com/deixis/aseprite-mcp/internal/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aseprite_mcp"

// Collector records runner activity. It implements runner.Observer.
type Collector struct {
	registry *prometheus.Registry

	invocations     *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	cleanupFailures prometheus.Counter
}

// New creates a Collector registered on its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invocations_total",
				Help:      "Aseprite process invocations by argument shape and outcome.",
			},
			[]string{"mode", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "invocation_duration_seconds",
				Help:      "Wall-clock duration of Aseprite invocations.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"mode"},
		),
		cleanupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "script_cleanup_failures_total",
			Help:      "Temporary Lua scripts that could not be removed.",
		}),
	}
	c.registry.MustRegister(c.invocations, c.duration, c.cleanupFailures)
	return c
}

// ObserveInvocation implements runner.Observer.
func (c *Collector) ObserveInvocation(mode runner.Mode, outcome runner.Outcome, d time.Duration) {
	c.invocations.WithLabelValues(string(mode), string(outcome)).Inc()
	c.duration.WithLabelValues(string(mode)).Observe(d.Seconds())
}

// ObserveCleanupFailure implements runner.Observer.
func (c *Collector) ObserveCleanupFailure() {
	c.cleanupFailures.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
