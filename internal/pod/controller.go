package pod

import (
	"fmt"
	"math"
)

// BrakeTrigger selects how the controller decides to begin braking.
type BrakeTrigger int

const (
	// TriggerEnergy brakes when the worst-case stopping distance estimated
	// from the pod's kinetic and rotational energy no longer fits in the
	// remaining track.
	TriggerEnergy BrakeTrigger = iota

	// TriggerDistance brakes once a fixed configured distance is reached.
	TriggerDistance
)

// ParseBrakeTrigger maps a configuration string to a trigger mode.
func ParseBrakeTrigger(s string) (BrakeTrigger, error) {
	switch s {
	case "", "energy":
		return TriggerEnergy, nil
	case "distance":
		return TriggerDistance, nil
	}
	return 0, fmt.Errorf("%w: unknown brake trigger %q", ErrParameterBounds, s)
}

// Controller decides the phase for each upcoming step. It holds the current
// phase between calls; Decelerating and RotorSpeedLimited never revert to
// Accelerating.
type Controller struct {
	veh             Vehicle
	brakes          Brakes
	wheels          int
	trigger         BrakeTrigger
	triggerDistance float64
	phase           Phase
}

func NewController(veh Vehicle, brakes Brakes, wheels int, trigger BrakeTrigger, triggerDistance float64) *Controller {
	return &Controller{
		veh:             veh,
		brakes:          brakes,
		wheels:          wheels,
		trigger:         trigger,
		triggerDistance: triggerDistance,
		phase:           Accelerating,
	}
}

// Phase returns the controller's current phase.
func (c *Controller) Phase() Phase { return c.phase }

// RotorLimited reports whether rec breached the configured rotor RPM limit.
// The driver must recompute that record under RotorSpeedLimited before
// using it, so the cap is never exceeded for more than one step.
func (c *Controller) RotorLimited(rec Record) bool {
	return rec.Omega*60/(2*math.Pi) > c.veh.MaxRPM
}

// Next decides the phase for the upcoming step. prev is the previous
// record, already corrected if RotorLimited flagged it; rotorLimited is the
// result of that check.
func (c *Controller) Next(prev Record, rotorLimited bool) Phase {
	ph := c.phase
	if rotorLimited {
		ph = RotorSpeedLimited
	}
	if c.shouldBrake(prev) {
		ph = Decelerating
	}
	c.phase = ph
	return ph
}

func (c *Controller) shouldBrake(prev Record) bool {
	if c.phase == Decelerating {
		return true
	}
	if c.trigger == TriggerDistance {
		return prev.Distance >= c.triggerDistance
	}

	// Worst-case stopping distance from total kinetic plus rotational
	// energy under full braking deceleration.
	kinetic := 0.5 * c.veh.Mass * prev.Velocity * prev.Velocity
	rotational := float64(c.wheels) * 0.5 * c.veh.Inertia * prev.Omega * prev.Omega
	decel := c.brakes.TotalForce() / c.veh.Mass
	braking := (kinetic + rotational) / c.veh.Mass / decel

	return prev.Distance >= c.veh.TrackLength-braking
}
