package statesync

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/statesync/pkg/reactive"
)

func TestMetricsCountUpdates(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	source := map[string]any{"v": 1}
	target := reactive.NewCell(nil)

	h := Synchronize(source, []Mapping{{Path: "v", Target: target}}, WithMetrics(m))

	if got := testutil.ToFloat64(m.updates.WithLabelValues(ResultApplied)); got != 1 {
		t.Errorf("expected 1 applied update, got %v", got)
	}
	if got := testutil.ToFloat64(m.activeMappings); got != 1 {
		t.Errorf("expected 1 active mapping, got %v", got)
	}

	source["v"] = 1
	h.Refresh() // same value, detected as unchanged at the watch level
	if got := testutil.ToFloat64(m.updates.WithLabelValues(ResultApplied)); got != 1 {
		t.Errorf("unchanged refresh should not count, got %v", got)
	}

	h.Stop()
	if got := testutil.ToFloat64(m.activeMappings); got != 0 {
		t.Errorf("expected 0 active mappings after stop, got %v", got)
	}
}

func TestMetricsCountMissesAndStageErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	target := reactive.NewCell(nil)
	h := Synchronize(map[string]any{"v": 1}, []Mapping{
		{Path: "missing.path", Target: target},
		{Path: "v", Target: target, Transform: func(any) any { panic("x") }},
	}, WithMetrics(m))
	defer h.Stop()

	if got := testutil.ToFloat64(m.pathMisses); got < 1 {
		t.Errorf("expected at least 1 path miss, got %v", got)
	}
	if got := testutil.ToFloat64(m.stageErrors.WithLabelValues("transform")); got != 1 {
		t.Errorf("expected 1 transform stage error, got %v", got)
	}
}
