// v0
// internal/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline counters exposed on /metrics.
type Metrics struct {
	reg *prometheus.Registry

	SensorEvents   prometheus.Counter
	ActuatorEvents prometheus.Counter
	CommandsOut    prometheus.Counter
	HistoryRows    prometheus.Counter
	HandlerErrors  prometheus.Counter
}

// New builds a self-contained registry so tests can run several instances.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		SensorEvents: f.NewCounter(prometheus.CounterOpts{
			Name: "hydro_sensor_events_total",
			Help: "Sensor telemetry messages ingested.",
		}),
		ActuatorEvents: f.NewCounter(prometheus.CounterOpts{
			Name: "hydro_actuator_events_total",
			Help: "Actuator status echoes ingested.",
		}),
		CommandsOut: f.NewCounter(prometheus.CounterOpts{
			Name: "hydro_commands_out_total",
			Help: "Actuator commands accepted by the transport.",
		}),
		HistoryRows: f.NewCounter(prometheus.CounterOpts{
			Name: "hydro_history_rows_total",
			Help: "Rows appended to the prediction log.",
		}),
		HandlerErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "hydro_handler_errors_total",
			Help: "Message handler failures (message dropped, loop alive).",
		}),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
