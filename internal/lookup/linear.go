package lookup

// Linear is a closed-form propulsion model with thrust proportional to slip
// and no losses. It doubles as the "linear" run backend and as the synthetic
// model the physics tests compare against by hand.
type Linear struct {
	Gain float64 // thrust per unit slip, N/(m/s)
	Slip float64 // commanded slip, m/s
}

func (l Linear) Thrust(slip, velocity float64) float64 {
	return l.Gain * slip
}

func (l Linear) Loss(slip, velocity float64) float64 {
	return 0
}

func (l Linear) OptimalSlip(velocity float64) float64 {
	return l.Slip
}

// Models returns the model set for a linear run.
func (l Linear) Models() Set {
	return Set{Thrust: l, Loss: l, Slip: l}
}
