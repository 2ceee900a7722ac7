package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics exposed by the daemon.
type Metrics struct {
	InvocationsTotal       *prometheus.CounterVec
	InvocationErrorsTotal  *prometheus.CounterVec
	InvocationDurationSecs prometheus.Histogram
	UnknownCommandsTotal   prometheus.Counter

	registry *prometheus.Registry
}

func NewMetrics() *Metrics {
	m := &Metrics{
		InvocationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rpctoast_invocations_total",
			Help: "Total number of command invocations handled by the daemon",
		}, []string{"command"}),
		InvocationErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rpctoast_invocation_errors_total",
			Help: "Total number of command invocations that settled with an error",
		}, []string{"command"}),
		InvocationDurationSecs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rpctoast_invocation_duration_seconds",
			Help:    "Wall-clock duration of command invocations",
			Buckets: prometheus.DefBuckets,
		}),
		UnknownCommandsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rpctoast_unknown_commands_total",
			Help: "Total number of invocation requests for unregistered commands",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.InvocationsTotal,
		m.InvocationErrorsTotal,
		m.InvocationDurationSecs,
		m.UnknownCommandsTotal,
	)

	return m
}

// Handler serves the metrics over HTTP.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
