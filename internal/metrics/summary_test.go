package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/podsim/internal/pod"
)

func TestTopSpeed(t *testing.T) {
	m := NewTopSpeed()
	for _, v := range []float64{1, 5, 3} {
		m.Observe(pod.Record{Velocity: v}, 0)
	}
	if m.Value() != 5 {
		t.Errorf("top speed %g, want 5", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("reset top speed %g, want 0", m.Value())
	}
}

func TestMeanEfficiencySkipsSentinels(t *testing.T) {
	m := NewMeanEfficiency()
	m.Observe(pod.Record{PowerIn: 0, Efficiency: math.NaN()}, 0)
	m.Observe(pod.Record{PowerIn: 100, Efficiency: 0.8}, 0.01)
	m.Observe(pod.Record{PowerIn: 100, Efficiency: 0.6}, 0.02)
	m.Observe(pod.Record{PowerIn: -50, Efficiency: 1.0}, 0.03)

	if got := m.Value(); math.Abs(got-0.7) > 1e-12 {
		t.Errorf("mean efficiency %g, want 0.7", got)
	}
}

func TestMeanEfficiencyEmpty(t *testing.T) {
	m := NewMeanEfficiency()
	if m.Value() != 0 {
		t.Errorf("value with no samples %g, want 0", m.Value())
	}
}

func TestRunTime(t *testing.T) {
	m := NewRunTime()
	m.Observe(pod.Record{}, 0.5)
	m.Observe(pod.Record{}, 1.5)
	if m.Value() != 1.5 {
		t.Errorf("run time %g, want 1.5", m.Value())
	}
}
