package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GateMetrics records the outcomes of invite checks performed at the gate.
type GateMetrics struct {
	validations *prometheus.CounterVec
	actions     *prometheus.CounterVec
}

// NewGateMetrics registers the gate metrics on the provided registerer.
func NewGateMetrics(reg prometheus.Registerer) *GateMetrics {
	if reg == nil {
		return &GateMetrics{}
	}
	validations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gate_validations_total",
		Help: "Invite validations performed at the gate, by outcome.",
	}, []string{"outcome"})
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gate_actions_total",
		Help: "Invite actions applied at the gate, by action.",
	}, []string{"action"})
	reg.MustRegister(validations, actions)
	return &GateMetrics{
		validations: validations,
		actions:     actions,
	}
}

// RecordValidation increments the validation counter for the given outcome.
func (g *GateMetrics) RecordValidation(outcome string) {
	if g == nil || g.validations == nil {
		return
	}
	g.validations.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// RecordAction increments the action counter for the given action name.
func (g *GateMetrics) RecordAction(action string) {
	if g == nil || g.actions == nil {
		return
	}
	g.actions.WithLabelValues(normalizeLabel(action)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
