package pod

// Phase identifies the propulsion regime governing a step. Accelerating is
// the initial regime; Decelerating and RotorSpeedLimited are sticky in the
// sense that no rule returns a run to Accelerating.
type Phase int

const (
	Accelerating Phase = iota
	Decelerating
	RotorSpeedLimited
)

func (p Phase) String() string {
	switch p {
	case Accelerating:
		return "accelerating"
	case Decelerating:
		return "decelerating"
	case RotorSpeedLimited:
		return "rotor-limited"
	}
	return "unknown"
}
