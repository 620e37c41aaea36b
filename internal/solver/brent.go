// Package solver provides scalar root finding for the implicit slip
// equations in the step update.
package solver

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors for root finding.
var (
	// ErrNoRootBracketed indicates f does not change sign over [lo, hi].
	ErrNoRootBracketed = errors.New("solver: no root bracketed in interval")

	// ErrMaxIterations indicates the iteration budget ran out before the
	// tolerance was met.
	ErrMaxIterations = errors.New("solver: maximum iterations exceeded")
)

const (
	// Tolerance is the absolute convergence tolerance on the root.
	// Slip precision propagates into force and torque balances, so this
	// is kept well below the sub-percent level the physics needs.
	Tolerance = 1e-12

	eps = 2.220446049250313e-16
)

// MaxIter bounds the number of Brent iterations per solve.
var MaxIter = 100

// Brent finds a root of f in [lo, hi] using Brent's method (inverse
// quadratic interpolation with secant and bisection fallbacks). The caller
// must supply a bracket: f(lo) and f(hi) must have opposite signs.
func Brent(f func(float64) float64, lo, hi float64) (float64, error) {
	a, b := lo, hi
	fa, fb := f(a), f(b)

	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if (fa > 0) == (fb > 0) {
		return 0, fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNoRootBracketed, a, fa, b, fb)
	}

	c, fc := a, fa
	d := b - a
	e := d

	for i := 0; i < MaxIter; i++ {
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol1 := 2*eps*math.Abs(b) + 0.5*Tolerance
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// Attempt inverse quadratic interpolation (secant when a == c).
			s := fb / fa
			var p, q, r float64
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r = fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				// Interpolation rejected, bisect.
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
	}

	return 0, fmt.Errorf("%w: no convergence in %d iterations", ErrMaxIterations, MaxIter)
}
