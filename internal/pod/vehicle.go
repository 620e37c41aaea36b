package pod

import (
	"errors"
	"fmt"
)

// ErrParameterBounds indicates a vehicle or brake parameter outside its
// valid range. Parameters are rejected before stepping begins so a bad
// value cannot surface as a division fault mid-run.
var ErrParameterBounds = errors.New("pod: parameter out of valid bounds")

// Vehicle holds the constant physical parameters of a run.
type Vehicle struct {
	Mass           float64 // kg
	WheelRadius    float64 // m
	Inertia        float64 // kg*m^2, wheel plus rotor
	TrackWidth     float64 // m, lateral wheel separation
	TrackLength    float64 // m
	MaxOmega       float64 // rad/s, rotor hardware limit
	MaxRPM         float64 // rotor limit as RPM, used by the phase check
	MaxMotorTorque float64 // N*m
}

func (v Vehicle) Validate() error {
	positive := []struct {
		name string
		val  float64
	}{
		{"mass", v.Mass},
		{"wheel radius", v.WheelRadius},
		{"inertia", v.Inertia},
		{"max omega", v.MaxOmega},
		{"max rpm", v.MaxRPM},
		{"max motor torque", v.MaxMotorTorque},
	}
	for _, p := range positive {
		if p.val <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrParameterBounds, p.name, p.val)
		}
	}
	if v.TrackLength < 0 {
		return fmt.Errorf("%w: track length must be nonnegative, got %g", ErrParameterBounds, v.TrackLength)
	}
	if v.TrackWidth < 0 {
		return fmt.Errorf("%w: track width must be nonnegative, got %g", ErrParameterBounds, v.TrackWidth)
	}
	return nil
}

// Brakes describes the friction braking hardware.
type Brakes struct {
	PadForce float64 // N delivered by a single pad
	Count    int     // active pads
}

// TotalForce returns the combined braking force.
func (b Brakes) TotalForce() float64 {
	return b.PadForce * float64(b.Count)
}

func (b Brakes) Validate() error {
	if b.PadForce <= 0 {
		return fmt.Errorf("%w: brake pad force must be positive, got %g", ErrParameterBounds, b.PadForce)
	}
	if b.Count < 1 {
		return fmt.Errorf("%w: brake count must be at least 1, got %d", ErrParameterBounds, b.Count)
	}
	return nil
}
