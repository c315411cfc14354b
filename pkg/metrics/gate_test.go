package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGateMetricsRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	gate := NewGateMetrics(reg)

	gate.RecordValidation("valid")
	gate.RecordValidation("valid")
	gate.RecordValidation("outside_window")
	gate.RecordAction("arrival")
	gate.RecordValidation("")

	expected := `
# HELP gate_validations_total Invite validations performed at the gate, by outcome.
# TYPE gate_validations_total counter
gate_validations_total{outcome="outside_window"} 1
gate_validations_total{outcome="unknown"} 1
gate_validations_total{outcome="valid"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "gate_validations_total"); err != nil {
		t.Fatalf("unexpected validation metrics: %v", err)
	}

	if got := testutil.ToFloat64(gate.actions.WithLabelValues("arrival")); got != 1 {
		t.Fatalf("expected 1 arrival action, got %v", got)
	}
}

func TestGateMetricsNilSafe(t *testing.T) {
	var gate *GateMetrics
	gate.RecordValidation("valid")
	gate.RecordAction("arrival")

	unregistered := NewGateMetrics(nil)
	unregistered.RecordValidation("valid")
	unregistered.RecordAction("departure")
}
