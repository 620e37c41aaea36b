// Package lookup provides the propulsion model handles consumed by the
// step update: thrust and loss as functions of (slip, velocity), and the
// optimal slip as a function of velocity. Backends are precomputed tables
// with interpolation, fitted curves, and a closed-form linear model.
package lookup

// ThrustModel returns the net thrust force per wheel pair at a given slip
// and pod velocity. Implementations must be continuous in slip so the
// implicit step equations can be solved by bracketing.
type ThrustModel interface {
	Thrust(slip, velocity float64) float64
}

// LossModel returns the nonnegative dissipated power per wheel pair.
type LossModel interface {
	Loss(slip, velocity float64) float64
}

// SlipModel returns the slip that optimizes thrust at a given velocity.
type SlipModel interface {
	OptimalSlip(velocity float64) float64
}

// Set bundles the three model handles a simulation run needs.
type Set struct {
	Thrust ThrustModel
	Loss   LossModel
	Slip   SlipModel
}
