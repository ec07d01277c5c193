package manager

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors a Manager updates. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	commits  prometheus.Counter
	ignored  *prometheus.CounterVec
	undos    prometheus.Counter
	redos    prometheus.Counter
	position prometheus.Gauge
	depth    prometheus.Gauge
}

// Reasons a settled or raw value was not recorded.
const (
	reasonUnchanged = "unchanged"
	reasonStale     = "stale"
	reasonEcho      = "echo"
)

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		commits: f.NewCounter(prometheus.CounterOpts{
			Name: "retrace_commits_total",
			Help: "Total number of commands recorded",
		}),
		ignored: f.NewCounterVec(prometheus.CounterOpts{
			Name: "retrace_ignored_total",
			Help: "Values that did not produce a command, by reason",
		}, []string{"reason"}),
		undos: f.NewCounter(prometheus.CounterOpts{
			Name: "retrace_undos_total",
			Help: "Total number of successful undos",
		}),
		redos: f.NewCounter(prometheus.CounterOpts{
			Name: "retrace_redos_total",
			Help: "Total number of successful redos",
		}),
		position: f.NewGauge(prometheus.GaugeOpts{
			Name: "retrace_history_position",
			Help: "Current cursor position in the history",
		}),
		depth: f.NewGauge(prometheus.GaugeOpts{
			Name: "retrace_history_depth",
			Help: "Number of commands in the history",
		}),
	}
}

func (m *Metrics) commit() {
	if m != nil {
		m.commits.Inc()
	}
}

func (m *Metrics) ignore(reason string) {
	if m != nil {
		m.ignored.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) undo() {
	if m != nil {
		m.undos.Inc()
	}
}

func (m *Metrics) redo() {
	if m != nil {
		m.redos.Inc()
	}
}

func (m *Metrics) cursor(position, depth int) {
	if m != nil {
		m.position.Set(float64(position))
		m.depth.Set(float64(depth))
	}
}
