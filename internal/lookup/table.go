package lookup

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Table is a read-only bilinear interpolant over a (slip x velocity) grid.
// Queries outside the grid clamp to the nearest edge.
type Table struct {
	slips []float64   // ascending slip axis
	vels  []float64   // ascending velocity axis
	vals  [][]float64 // vals[i][j] at (slips[i], vels[j])
}

// NewTable builds a table from its axes and value grid. Both axes must be
// strictly ascending with at least two nodes each, and vals must be
// len(slips) rows of len(vels) columns.
func NewTable(slips, vels []float64, vals [][]float64) (*Table, error) {
	if len(slips) < 2 || len(vels) < 2 {
		return nil, fmt.Errorf("lookup: table needs at least a 2x2 grid, got %dx%d", len(slips), len(vels))
	}
	if err := checkAscending("slip", slips); err != nil {
		return nil, err
	}
	if err := checkAscending("velocity", vels); err != nil {
		return nil, err
	}
	if len(vals) != len(slips) {
		return nil, fmt.Errorf("lookup: %d value rows for %d slip nodes", len(vals), len(slips))
	}
	for i, row := range vals {
		if len(row) != len(vels) {
			return nil, fmt.Errorf("lookup: row %d has %d values for %d velocity nodes", i, len(row), len(vels))
		}
	}
	return &Table{slips: slips, vels: vels, vals: vals}, nil
}

func checkAscending(name string, axis []float64) error {
	for i := 1; i < len(axis); i++ {
		if axis[i] <= axis[i-1] {
			return fmt.Errorf("lookup: %s axis not strictly ascending at index %d", name, i)
		}
	}
	return nil
}

// At returns the bilinearly interpolated value at (slip, vel).
func (t *Table) At(slip, vel float64) float64 {
	i, fs := segment(t.slips, slip)
	j, fv := segment(t.vels, vel)

	v00 := t.vals[i][j]
	v01 := t.vals[i][j+1]
	v10 := t.vals[i+1][j]
	v11 := t.vals[i+1][j+1]

	lo := v00 + fv*(v01-v00)
	hi := v10 + fv*(v11-v10)
	return lo + fs*(hi-lo)
}

// segment locates v on the axis and returns the segment index and the
// fractional position within it, clamping outside the axis range.
func segment(axis []float64, v float64) (int, float64) {
	n := len(axis)
	if v <= axis[0] {
		return 0, 0
	}
	if v >= axis[n-1] {
		return n - 2, 1
	}
	i := floats.Within(axis, v)
	return i, (v - axis[i]) / (axis[i+1] - axis[i])
}

// ThrustTable adapts a force grid to the ThrustModel interface.
type ThrustTable struct {
	*Table
}

func (t ThrustTable) Thrust(slip, velocity float64) float64 {
	return t.At(slip, velocity)
}

// LossTable adapts a loss grid to the LossModel interface. Interpolated
// losses are floored at zero since dissipated power cannot be negative.
type LossTable struct {
	*Table
}

func (t LossTable) Loss(slip, velocity float64) float64 {
	loss := t.At(slip, velocity)
	if loss < 0 {
		return 0
	}
	return loss
}
