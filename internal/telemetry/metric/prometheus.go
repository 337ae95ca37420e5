package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "respkv"

// Command outcome labels.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Registry holds all application metrics.
//
// A nil *Registry is valid and records nothing, so callers never need to
// check whether metrics are enabled.
type Registry struct {
	reg *prometheus.Registry

	commandsTotal     *prometheus.CounterVec
	commandDuration   *prometheus.HistogramVec
	connectionsActive prometheus.Gauge
	connectionsTotal  prometheus.Counter
	protocolErrors    prometheus.Counter
}

// NewRegistry creates a registry with the respkv metrics and the Go runtime
// and process collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "commands_total",
			Help:      "Commands processed, by command name and outcome.",
		}, []string{"command", "status"}),
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "command_duration_seconds",
			Help:      "Command execution latency.",
			Buckets:   []float64{.00001, .00005, .0001, .00025, .0005, .001, .0025, .005, .01, .05},
		}, []string{"command"}),
		connectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "connections_active",
			Help:      "Currently open client connections.",
		}),
		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "connections_total",
			Help:      "Client connections accepted since start.",
		}),
		protocolErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "protocol_errors_total",
			Help:      "Requests that could not be decoded.",
		}),
	}

	r.reg.MustRegister(
		r.commandsTotal,
		r.commandDuration,
		r.connectionsActive,
		r.connectionsTotal,
		r.protocolErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// MustRegister adds extra collectors, such as a StoreCollector.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	if r == nil {
		return
	}
	r.reg.MustRegister(cs...)
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

// ObserveCommand records one executed command.
func (r *Registry) ObserveCommand(command string, ok bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	status := StatusOK
	if !ok {
		status = StatusError
	}
	r.commandsTotal.WithLabelValues(command, status).Inc()
	r.commandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// ConnOpened records an accepted connection.
func (r *Registry) ConnOpened() {
	if r == nil {
		return
	}
	r.connectionsTotal.Inc()
	r.connectionsActive.Inc()
}

// ConnClosed records a closed connection.
func (r *Registry) ConnClosed() {
	if r == nil {
		return
	}
	r.connectionsActive.Dec()
}

// ProtocolError records a request that failed to decode.
func (r *Registry) ProtocolError() {
	if r == nil {
		return
	}
	r.protocolErrors.Inc()
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
