package lookup

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// PolySlip computes the optimal slip from fitted polynomial coefficients,
// ordered from the constant term upward.
type PolySlip struct {
	Coeffs []float64
}

func (p PolySlip) OptimalSlip(velocity float64) float64 {
	s := 0.0
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		s = s*velocity + p.Coeffs[i]
	}
	return s
}

// SlipCurve computes the optimal slip from a tabulated velocity -> slip
// curve with piecewise-linear interpolation. Queries outside the tabulated
// velocity range clamp to the curve endpoints.
type SlipCurve struct {
	pl       interp.PiecewiseLinear
	min, max float64
}

// NewSlipCurve fits a curve through the given nodes. Velocities must be
// strictly ascending with at least two nodes.
func NewSlipCurve(velocities, slips []float64) (*SlipCurve, error) {
	if len(velocities) != len(slips) {
		return nil, fmt.Errorf("lookup: %d velocities for %d slips", len(velocities), len(slips))
	}
	if len(velocities) < 2 {
		return nil, fmt.Errorf("lookup: slip curve needs at least 2 nodes, got %d", len(velocities))
	}
	if err := checkAscending("velocity", velocities); err != nil {
		return nil, err
	}
	c := &SlipCurve{}
	if err := c.pl.Fit(velocities, slips); err != nil {
		return nil, fmt.Errorf("lookup: fitting slip curve: %w", err)
	}
	c.min = velocities[0]
	c.max = velocities[len(velocities)-1]
	return c, nil
}

func (c *SlipCurve) OptimalSlip(velocity float64) float64 {
	if velocity < c.min {
		velocity = c.min
	}
	if velocity > c.max {
		velocity = c.max
	}
	return c.pl.Predict(velocity)
}
