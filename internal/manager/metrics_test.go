package manager

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gather returns metric values by name, with labelled series keyed as
// name{value}.
func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "{" + lp.GetValue() + "}"
			}
			out[key] = value(mf.GetType(), m)
		}
	}
	return out
}

func value(typ dto.MetricType, m *dto.Metric) float64 {
	switch typ {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	default:
		return 0
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := newFixture(t, 0, WithMetrics(NewMetrics(reg)))

	f.commit(1)
	f.commit(2)
	f.commit(3)
	f.commit(3)
	f.input.Publish(4)
	f.input.Publish(3)
	f.clk.Advance(testDebounce)
	f.m.Undo()
	f.m.Undo()
	f.m.Redo()

	got := gather(t, reg)
	assert.Equal(t, 3.0, got["retrace_commits_total"])
	assert.Equal(t, 2.0, got["retrace_undos_total"])
	assert.Equal(t, 1.0, got["retrace_redos_total"])
	assert.Equal(t, 1.0, got["retrace_ignored_total{echo}"])
	assert.Equal(t, 1.0, got["retrace_ignored_total{unchanged}"])
	assert.Equal(t, 2.0, got["retrace_history_position"])
	assert.Equal(t, 3.0, got["retrace_history_depth"])
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	assert.Panics(t, func() { NewMetrics(reg) })
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.commit()
		m.ignore(reasonStale)
		m.undo()
		m.redo()
		m.cursor(1, 2)
	})
}
