package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/podsim/internal/lookup"
	"github.com/san-kum/podsim/internal/pod"
	"github.com/san-kum/podsim/internal/solver"
)

func testVehicle() pod.Vehicle {
	return pod.Vehicle{
		Mass:           250,
		WheelRadius:    0.1,
		Inertia:        0.05,
		TrackWidth:     1.0,
		TrackLength:    1250,
		MaxOmega:       2000,
		MaxRPM:         2000 * 60 / (2 * math.Pi),
		MaxMotorTorque: 60,
	}
}

func testBrakes() pod.Brakes {
	return pod.Brakes{PadForce: 1000, Count: 4}
}

func testConfig() Config {
	return Config{
		Dt:       0.01,
		Duration: 60,
		Wheels:   2,
		Trigger:  pod.TriggerEnergy,
	}
}

func testModels() lookup.Set {
	return lookup.Linear{Gain: 200, Slip: 1.0}.Models()
}

func mustRun(t *testing.T, veh pod.Vehicle, brakes pod.Brakes, cfg Config, models lookup.Set) *Result {
	t.Helper()
	d, err := NewDriver(veh, brakes, cfg, models)
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	res, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res
}

func TestRunInvariants(t *testing.T) {
	veh := testVehicle()
	cfg := testConfig()
	res := mustRun(t, veh, testBrakes(), cfg, testModels())

	if res.Steps < 2 {
		t.Fatalf("expected a multi-step run, got %d steps", res.Steps)
	}
	if len(res.Records) != res.Steps+1 || len(res.Phases) != res.Steps+1 || len(res.Times) != res.Steps+1 {
		t.Fatalf("series lengths inconsistent: %d records, %d phases, %d times, %d steps",
			len(res.Records), len(res.Phases), len(res.Times), res.Steps)
	}

	for i := 1; i < len(res.Records); i++ {
		rec, prev := res.Records[i], res.Records[i-1]

		if rec.Velocity != prev.Velocity+cfg.Dt*rec.Accel {
			t.Fatalf("step %d: velocity recurrence broken", i)
		}
		if rec.Distance != prev.Distance+cfg.Dt*rec.Velocity {
			t.Fatalf("step %d: distance recurrence broken", i)
		}
		if rec.MotorTorque > veh.MaxMotorTorque+1e-9 {
			t.Fatalf("step %d: motor torque %g exceeds cap %g", i, rec.MotorTorque, veh.MaxMotorTorque)
		}
		if rec.PowerIn > 0 {
			if rec.Efficiency < 0 || rec.Efficiency > 1 {
				t.Fatalf("step %d: efficiency %g outside [0,1]", i, rec.Efficiency)
			}
		}
	}

	// Phase monotonicity: no rule returns the run to Accelerating.
	left := false
	for i, ph := range res.Phases {
		if ph != pod.Accelerating {
			left = true
		} else if left {
			t.Fatalf("step %d: phase reverted to accelerating", i)
		}
	}

	// Terminal condition: the pod stopped or the budget ran out.
	last := res.Records[len(res.Records)-1]
	if last.Velocity > 0 && res.Steps != int(math.Round(cfg.Duration/cfg.Dt)) {
		t.Errorf("run ended early at step %d with velocity %g", res.Steps, last.Velocity)
	}
	if last.Velocity <= 0 && last.Distance <= 0 {
		t.Errorf("pod stopped without covering any track: %g m", last.Distance)
	}
}

func TestTorqueCapActivatesAtLaunch(t *testing.T) {
	// Uncapped launch torque is ~70 N*m against a 60 N*m motor.
	res := mustRun(t, testVehicle(), testBrakes(), testConfig(), testModels())

	first := res.Records[1]
	if math.Abs(first.MotorTorque-60) > 1e-9 {
		t.Errorf("launch motor torque %g, want capped 60", first.MotorTorque)
	}
	if first.Slip >= 1.0 {
		t.Errorf("capped launch slip %g should be below the commanded 1.0", first.Slip)
	}
}

func TestZeroLengthTrack(t *testing.T) {
	veh := testVehicle()
	veh.TrackLength = 0
	res := mustRun(t, veh, testBrakes(), testConfig(), testModels())

	if res.Phases[1] != pod.Decelerating {
		t.Errorf("zero-length track: first phase %v, want decelerating", res.Phases[1])
	}
	if res.Steps > 2 {
		t.Errorf("zero-length track should terminate immediately, ran %d steps", res.Steps)
	}
	last := res.Records[len(res.Records)-1]
	if last.Velocity > 0 {
		t.Errorf("pod still moving at %g m/s", last.Velocity)
	}
	if math.Abs(last.Distance) > 0.01 {
		t.Errorf("distance %g, want near zero", last.Distance)
	}
}

func TestRotorLimitRetroactiveCorrection(t *testing.T) {
	veh := testVehicle()
	veh.MaxRPM = 97
	veh.MaxOmega = veh.MaxRPM * 2 * math.Pi / 60
	veh.MaxMotorTorque = 1e6 // keep the torque cap out of the way
	res := mustRun(t, veh, testBrakes(), testConfig(), testModels())

	limited := -1
	for i, ph := range res.Phases {
		if ph == pod.RotorSpeedLimited {
			limited = i
			break
		}
	}
	if limited < 1 || limited > 10 {
		t.Fatalf("expected rotor-limited phase within a few steps, first at %d", limited)
	}

	// The breaching record was amended in place: its omega sits exactly at
	// the cap and its slip differs from the commanded optimal slip an
	// uncorrected accelerating step would have used.
	amended := res.Records[limited]
	if amended.Omega != veh.MaxOmega {
		t.Errorf("amended omega %g, want pinned at %g", amended.Omega, veh.MaxOmega)
	}
	if math.Abs(amended.Slip-1.0) < 1e-6 {
		t.Errorf("amended slip %g should differ from the optimal slip 1.0", amended.Slip)
	}

	// After correction no stored record exceeds the RPM cap.
	for i, rec := range res.Records {
		rpm := rec.Omega * 60 / (2 * math.Pi)
		if rpm > veh.MaxRPM*(1+1e-12) {
			t.Errorf("step %d: %g RPM exceeds cap %g", i, rpm, veh.MaxRPM)
		}
	}
}

func TestStepBudgetRounding(t *testing.T) {
	veh := testVehicle()
	veh.TrackLength = 1e9 // never brake

	// 0.3/0.1 is 2.9999... in float64; truncation would lose the last step.
	cfg := Config{Dt: 0.1, Duration: 0.3, Wheels: 2, Trigger: pod.TriggerEnergy}
	res := mustRun(t, veh, testBrakes(), cfg, testModels())

	if res.Steps != 3 {
		t.Errorf("got %d steps for a 0.3s budget at dt=0.1, want 3", res.Steps)
	}
	if got := res.Times[len(res.Times)-1]; math.Abs(got-0.3) > 1e-12 {
		t.Errorf("final time %g, want 0.3", got)
	}
}

// flatThrust returns a slip-independent thrust, so against a vanishing motor
// torque cap the capped-slip residual has no sign change over its bracket.
type flatThrust struct{ f float64 }

func (m flatThrust) Thrust(slip, velocity float64) float64 { return m.f }
func (m flatThrust) Loss(slip, velocity float64) float64   { return 0 }
func (m flatThrust) OptimalSlip(velocity float64) float64  { return 1.0 }

func TestStepErrorAttribution(t *testing.T) {
	veh := testVehicle()
	veh.MaxMotorTorque = 1e-3
	m := flatThrust{f: 1000}

	d, err := NewDriver(veh, testBrakes(), testConfig(), lookup.Set{Thrust: m, Loss: m, Slip: m})
	if err != nil {
		t.Fatalf("driver: %v", err)
	}

	_, err = d.Run(context.Background())
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected a StepError, got %v", err)
	}
	if stepErr.Step != 1 {
		t.Errorf("failure attributed to step %d, want 1", stepErr.Step)
	}
	if stepErr.Phase != pod.Accelerating {
		t.Errorf("failure attributed to phase %v, want accelerating", stepErr.Phase)
	}
	if !errors.Is(err, solver.ErrNoRootBracketed) {
		t.Errorf("expected ErrNoRootBracketed in the chain, got %v", err)
	}
}

func TestDriverRejectsBadParameters(t *testing.T) {
	veh := testVehicle()
	veh.Mass = 0
	if _, err := NewDriver(veh, testBrakes(), testConfig(), testModels()); !errors.Is(err, pod.ErrParameterBounds) {
		t.Errorf("zero mass: got %v, want ErrParameterBounds", err)
	}

	cfg := testConfig()
	cfg.Dt = 0
	if _, err := NewDriver(testVehicle(), testBrakes(), cfg, testModels()); !errors.Is(err, ErrConfig) {
		t.Errorf("zero dt: got %v, want ErrConfig", err)
	}
}

func TestRunCancellation(t *testing.T) {
	d, err := NewDriver(testVehicle(), testBrakes(), testConfig(), testModels())
	if err != nil {
		t.Fatalf("driver: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

type countingMetric struct{ n int }

func (m *countingMetric) Name() string                      { return "steps_observed" }
func (m *countingMetric) Observe(rec pod.Record, t float64) { m.n++ }
func (m *countingMetric) Value() float64                    { return float64(m.n) }
func (m *countingMetric) Reset()                            { m.n = 0 }

func TestDriverMetrics(t *testing.T) {
	d, err := NewDriver(testVehicle(), testBrakes(), testConfig(), testModels())
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	d.AddMetric(&countingMetric{})

	res, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := res.Metrics["steps_observed"]; got != float64(res.Steps) {
		t.Errorf("metric observed %g steps, want %d", got, res.Steps)
	}
}

func TestSweep(t *testing.T) {
	variants := []Variant{
		{Name: "4 brakes", Veh: testVehicle(), Brakes: pod.Brakes{PadForce: 1000, Count: 4}, Cfg: testConfig(), Models: testModels()},
		{Name: "8 brakes", Veh: testVehicle(), Brakes: pod.Brakes{PadForce: 1000, Count: 8}, Cfg: testConfig(), Models: testModels()},
	}

	results, err := Sweep(context.Background(), variants)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, res := range results {
		if res == nil || res.Steps == 0 {
			t.Errorf("variant %d produced no trajectory", i)
		}
	}

	// More brakes shrink the stopping estimate, so the pod accelerates
	// longer and peaks faster before braking.
	peak := func(res *Result) float64 {
		max := 0.0
		for _, rec := range res.Records {
			if rec.Velocity > max {
				max = rec.Velocity
			}
		}
		return max
	}
	if peak(results[1]) <= peak(results[0]) {
		t.Errorf("8-brake run should peak faster: %g vs %g", peak(results[1]), peak(results[0]))
	}
}
