// Package sim drives a pod trajectory run: it owns the growing series of
// state records, applies the phase controller and step update each tick,
// and finalizes the result at the terminal condition.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/podsim/internal/lookup"
	"github.com/san-kum/podsim/internal/pod"
)

// Config holds the immutable per-run settings.
type Config struct {
	Dt              float64
	Duration        float64 // maximum simulated time
	Wheels          int     // driven wheel pairs
	Trigger         pod.BrakeTrigger
	TriggerDistance float64 // used by TriggerDistance mode
}

// Metric accumulates a summary value over the produced records.
type Metric interface {
	Name() string
	Observe(rec pod.Record, t float64)
	Value() float64
	Reset()
}

// Observer is notified after each computed step.
type Observer interface {
	OnStep(rec pod.Record, ph pod.Phase, t float64)
}

// Result is the finalized trajectory of a single run. Records, Phases, and
// Times are index-aligned; index 0 is the all-zero initial condition. The
// series ends at the terminal condition, it is truncated rather than padded.
type Result struct {
	Records []pod.Record
	Phases  []pod.Phase
	Times   []float64
	Metrics map[string]float64
	Steps   int // computed steps, excluding the initial record
}

// Driver runs a single trajectory.
type Driver struct {
	veh       pod.Vehicle
	brakes    pod.Brakes
	cfg       Config
	stepper   *pod.Stepper
	ctrl      *pod.Controller
	metrics   []Metric
	observers []Observer
}

func NewDriver(veh pod.Vehicle, brakes pod.Brakes, cfg Config, models lookup.Set) (*Driver, error) {
	if err := validate(veh, brakes, cfg); err != nil {
		return nil, err
	}
	return &Driver{
		veh:     veh,
		brakes:  brakes,
		cfg:     cfg,
		stepper: pod.NewStepper(veh, brakes, cfg.Wheels, cfg.Dt, models),
		ctrl:    pod.NewController(veh, brakes, cfg.Wheels, cfg.Trigger, cfg.TriggerDistance),
	}, nil
}

func validate(veh pod.Vehicle, brakes pod.Brakes, cfg Config) error {
	if err := veh.Validate(); err != nil {
		return err
	}
	if err := brakes.Validate(); err != nil {
		return err
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrConfig, cfg.Duration)
	}
	if cfg.Wheels < 1 {
		return fmt.Errorf("%w: need at least one wheel pair, got %d", ErrConfig, cfg.Wheels)
	}
	return nil
}

func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// Run simulates from launch until the pod stops or the time budget runs
// out. A root-finding failure inside a step aborts the run with a
// StepError naming the failing index and phase.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	// Rounded, not truncated: duration/dt lands just below a whole number
	// for common decimal settings (60/0.01 is 5999.999... in float64).
	steps := int(math.Round(d.cfg.Duration / d.cfg.Dt))
	res := &Result{
		Records: make([]pod.Record, 0, steps+1),
		Phases:  make([]pod.Phase, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range d.metrics {
		m.Reset()
	}

	res.Records = append(res.Records, pod.Record{})
	res.Phases = append(res.Phases, pod.Accelerating)
	res.Times = append(res.Times, 0)

	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		prev := res.Records[i-1]
		t := float64(i) * d.cfg.Dt

		// Rotor-speed check one step late: when the previous record
		// breached the RPM cap, amend it in place under the limited
		// regime before it seeds the next step. This is the sole rewrite
		// of already-written history.
		rotorLimited := d.ctrl.RotorLimited(prev)
		if rotorLimited && i >= 2 && res.Phases[i-1] != pod.RotorSpeedLimited {
			fixed, err := d.stepper.Step(res.Records[i-2], pod.RotorSpeedLimited)
			if err != nil {
				return res, &StepError{Step: i - 1, Time: t - d.cfg.Dt, Phase: pod.RotorSpeedLimited, Wrapped: err}
			}
			res.Records[i-1] = fixed
			res.Phases[i-1] = pod.RotorSpeedLimited
			prev = fixed
		}

		ph := d.ctrl.Next(prev, rotorLimited)

		rec, err := d.stepper.Step(prev, ph)
		if err != nil {
			return res, &StepError{Step: i, Time: t, Phase: ph, Wrapped: err}
		}

		res.Records = append(res.Records, rec)
		res.Phases = append(res.Phases, ph)
		res.Times = append(res.Times, t)
		res.Steps++

		for _, m := range d.metrics {
			m.Observe(rec, t)
		}
		for _, o := range d.observers {
			o.OnStep(rec, ph, t)
		}

		if rec.Velocity <= 0 {
			break
		}
	}

	for _, m := range d.metrics {
		res.Metrics[m.Name()] = m.Value()
	}

	return res, nil
}
