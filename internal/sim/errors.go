package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/podsim/internal/pod"
)

// ErrConfig indicates an invalid run configuration, rejected before any
// stepping begins.
var ErrConfig = errors.New("sim: invalid run configuration")

// StepError attributes a fatal step failure to its index and phase. The
// underlying cause is a root-finding failure; there is no retry since the
// physical inputs would not change.
type StepError struct {
	Step    int
	Time    float64
	Phase   pod.Phase
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("sim: step %d (t=%.4f, %s): %v", e.Step, e.Time, e.Phase, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
