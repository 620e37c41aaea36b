// Package metrics accumulates summary quantities over a trajectory run.
package metrics

import (
	"math"

	"github.com/san-kum/podsim/internal/pod"
)

// TopSpeed tracks the peak pod velocity.
type TopSpeed struct {
	max float64
}

func NewTopSpeed() *TopSpeed { return &TopSpeed{} }

func (m *TopSpeed) Name() string { return "top_speed" }

func (m *TopSpeed) Observe(rec pod.Record, t float64) {
	if rec.Velocity > m.max {
		m.max = rec.Velocity
	}
}

func (m *TopSpeed) Value() float64 { return m.max }
func (m *TopSpeed) Reset()         { m.max = 0 }

// PeakPower tracks the maximum electrical input power.
type PeakPower struct {
	max float64
}

func NewPeakPower() *PeakPower { return &PeakPower{} }

func (m *PeakPower) Name() string { return "peak_power" }

func (m *PeakPower) Observe(rec pod.Record, t float64) {
	if rec.PowerIn > m.max {
		m.max = rec.PowerIn
	}
}

func (m *PeakPower) Value() float64 { return m.max }
func (m *PeakPower) Reset()         { m.max = 0 }

// MeanEfficiency averages the drivetrain efficiency over the steps where
// input power was positive; the NaN sentinel steps are skipped.
type MeanEfficiency struct {
	sum     float64
	samples int
}

func NewMeanEfficiency() *MeanEfficiency { return &MeanEfficiency{} }

func (m *MeanEfficiency) Name() string { return "mean_efficiency" }

func (m *MeanEfficiency) Observe(rec pod.Record, t float64) {
	if rec.PowerIn <= 0 || math.IsNaN(rec.Efficiency) {
		return
	}
	m.sum += rec.Efficiency
	m.samples++
}

func (m *MeanEfficiency) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanEfficiency) Reset() {
	m.sum = 0
	m.samples = 0
}

// Distance tracks the furthest point reached along the track.
type Distance struct {
	max float64
}

func NewDistance() *Distance { return &Distance{} }

func (m *Distance) Name() string { return "distance" }

func (m *Distance) Observe(rec pod.Record, t float64) {
	if rec.Distance > m.max {
		m.max = rec.Distance
	}
}

func (m *Distance) Value() float64 { return m.max }
func (m *Distance) Reset()         { m.max = 0 }

// RunTime records the simulated time of the last observed step.
type RunTime struct {
	last float64
}

func NewRunTime() *RunTime { return &RunTime{} }

func (m *RunTime) Name() string { return "run_time" }

func (m *RunTime) Observe(rec pod.Record, t float64) { m.last = t }

func (m *RunTime) Value() float64 { return m.last }
func (m *RunTime) Reset()         { m.last = 0 }
