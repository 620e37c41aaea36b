package pod

import (
	"math"

	"github.com/san-kum/podsim/internal/lookup"
	"github.com/san-kum/podsim/internal/solver"
)

// Stepper computes the next state record from the previous one under a
// given phase. It is stateless between calls; each regime's update rule is
// made self-consistent by root-finding where the equations are implicit.
type Stepper struct {
	veh    Vehicle
	brakes Brakes
	wheels int // driven wheel pairs
	dt     float64
	models lookup.Set
}

func NewStepper(veh Vehicle, brakes Brakes, wheels int, dt float64, models lookup.Set) *Stepper {
	return &Stepper{veh: veh, brakes: brakes, wheels: wheels, dt: dt, models: models}
}

// Step produces the record following prev under phase ph. A root-finding
// failure is fatal for the step and is returned unwrapped for the driver
// to attribute to its index.
func (s *Stepper) Step(prev Record, ph Phase) (Record, error) {
	v := prev.Velocity
	ro := s.veh.WheelRadius

	var slip, thrust, omega float64
	switch ph {
	case Accelerating:
		slip = s.models.Slip.OptimalSlip(v)
		thrust = s.models.Thrust.Thrust(slip, v)
		omega = (slip + v) / ro

	case Decelerating:
		var err error
		slip, err = s.brakingSlip(prev)
		if err != nil {
			return Record{}, err
		}
		thrust = s.models.Thrust.Thrust(slip, v)
		omega = prev.Omega - thrust*ro/s.veh.Inertia*s.dt

	case RotorSpeedLimited:
		omega = s.veh.MaxOmega
		slip = omega*ro - v
		thrust = s.models.Thrust.Thrust(slip, v)
	}

	torque := (omega - prev.Omega) / s.dt * s.veh.Inertia
	motorTorque := 0.0
	if ph != Decelerating {
		motorTorque = torque + thrust*ro
	}

	// Hardware torque cap: clamp the motor torque and re-solve the slip so
	// the torque balance stays consistent. The corrected slip supersedes
	// the phase-specific values above.
	if motorTorque > s.veh.MaxMotorTorque {
		var err error
		slip, err = s.cappedSlip(prev, slip)
		if err != nil {
			return Record{}, err
		}
		thrust = s.models.Thrust.Thrust(slip, v)
		motorTorque = s.veh.MaxMotorTorque
		torque = motorTorque - ro*thrust
		omega = (slip + v) / ro
	}

	loss := float64(s.wheels) * s.models.Loss.Loss(slip, v)

	force := thrust * float64(s.wheels)
	if ph == Decelerating {
		force -= s.brakes.TotalForce()
	}

	accel := force / s.veh.Mass
	vel := v + s.dt*accel

	// Lateral dynamics are a pass-through placeholder: no model computes
	// the per-wheel lateral force, it stays at its externally supplied
	// value (zero in practice).
	latThrust := prev.LatThrust

	powerOut := force * vel
	powerIn := powerOut + loss
	eff := math.NaN()
	if powerIn != 0 {
		eff = powerOut / powerIn
	}

	return Record{
		Velocity:    vel,
		Accel:       accel,
		Distance:    prev.Distance + s.dt*vel,
		Theta:       prev.Theta + omega*s.dt,
		Omega:       omega,
		Torque:      torque,
		LatTorque:   ro * s.veh.TrackWidth * latThrust,
		MotorTorque: motorTorque,
		PowerOut:    powerOut,
		PowerLoss:   loss,
		PowerIn:     powerIn,
		Efficiency:  eff,
		Slip:        slip,
		Thrust:      thrust,
		LatThrust:   latThrust,
		Force:       force,
		LatForce:    latThrust * float64(s.wheels),
	}, nil
}

// brakingSlip solves the implicit slip during friction braking, where the
// motor contributes no torque and the wheel spins down against the thrust
// reaction. The residual couples the translational and rotor balances over
// one step; the root is bracketed one slip unit around the previous slip.
func (s *Stepper) brakingSlip(prev Record) (float64, error) {
	v := prev.Velocity
	ro := s.veh.WheelRadius
	brake := s.brakes.TotalForce()

	residual := func(slip float64) float64 {
		thrust := s.models.Thrust.Thrust(slip, v)
		vNext := v + (float64(s.wheels)*thrust-brake)/s.veh.Mass*s.dt
		return (slip+vNext)/ro - prev.Omega + thrust*ro/s.veh.Inertia*s.dt
	}

	return solver.Brent(residual, prev.Slip-1, prev.Slip+1)
}

// cappedSlip solves for the slip consistent with the motor pinned at its
// torque limit. The upper bracket is the just-computed uncapped slip, which
// is not guaranteed to bracket the root in every parameter regime; a
// bracketing failure here is an expected outcome, not a bug.
func (s *Stepper) cappedSlip(prev Record, uncapped float64) (float64, error) {
	v := prev.Velocity
	ro := s.veh.WheelRadius

	residual := func(slip float64) float64 {
		return s.veh.Inertia*((v+slip)/ro-prev.Omega)/s.dt +
			s.models.Thrust.Thrust(slip, v)*ro - s.veh.MaxMotorTorque
	}

	return solver.Brent(residual, prev.Slip-1, uncapped)
}
