// Package stripe detects fixed-position track marker crossings in a
// finalized trajectory, for downstream instrumentation.
package stripe

import (
	"fmt"

	"github.com/san-kum/podsim/internal/pod"
)

// Crossing marks the pod passing one track stripe.
type Crossing struct {
	Stripe   int     // 1-based stripe number
	Step     int     // index of the first record at or past the stripe
	Time     float64 // s, interpolated between samples
	Velocity float64 // m/s, interpolated between samples
}

// Detect scans a trajectory for stripe crossings. pitch is the spacing
// between stripes in metres; the first stripe sits one pitch from the
// start. Crossing time and velocity are linearly interpolated between the
// two samples straddling each stripe.
func Detect(recs []pod.Record, times []float64, pitch float64) ([]Crossing, error) {
	if pitch <= 0 {
		return nil, fmt.Errorf("stripe: pitch must be positive, got %g", pitch)
	}
	if len(recs) != len(times) {
		return nil, fmt.Errorf("stripe: %d records for %d times", len(recs), len(times))
	}

	var crossings []Crossing
	next := pitch
	n := 1

	for i := 1; i < len(recs); i++ {
		prev, cur := recs[i-1], recs[i]
		for cur.Distance >= next && prev.Distance < next {
			span := cur.Distance - prev.Distance
			frac := 0.0
			if span > 0 {
				frac = (next - prev.Distance) / span
			}
			crossings = append(crossings, Crossing{
				Stripe:   n,
				Step:     i,
				Time:     times[i-1] + frac*(times[i]-times[i-1]),
				Velocity: prev.Velocity + frac*(cur.Velocity-prev.Velocity),
			})
			n++
			next += pitch
		}
	}

	return crossings, nil
}
