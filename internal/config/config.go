// Package config loads and validates run configuration: vehicle and brake
// parameters, run settings, and the propulsion model source.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/podsim/internal/lookup"
	"github.com/san-kum/podsim/internal/pod"
	"github.com/san-kum/podsim/internal/sim"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 60.0
	DefaultWheels   = 2
)

type Config struct {
	Model   string        `yaml:"model"` // "linear" or "table"
	Vehicle VehicleConfig `yaml:"vehicle"`
	Brakes  BrakeConfig   `yaml:"brakes"`
	Run     RunConfig     `yaml:"run"`
	Tables  TableConfig   `yaml:"tables"`
	Linear  LinearConfig  `yaml:"linear"`
}

type VehicleConfig struct {
	Mass           float64 `yaml:"mass"`
	WheelRadius    float64 `yaml:"wheel_radius"`
	Inertia        float64 `yaml:"inertia"`
	TrackWidth     float64 `yaml:"track_width"`
	TrackLength    float64 `yaml:"track_length"`
	MaxOmega       float64 `yaml:"max_omega"`
	MaxRPM         float64 `yaml:"max_rpm"`
	MaxMotorTorque float64 `yaml:"max_motor_torque"`
}

type BrakeConfig struct {
	PadForce float64 `yaml:"pad_force"`
	Count    int     `yaml:"count"`
}

type RunConfig struct {
	Dt              float64 `yaml:"dt"`
	Duration        float64 `yaml:"duration"`
	Wheels          int     `yaml:"wheels"`
	BrakeTrigger    string  `yaml:"brake_trigger"` // "energy" or "distance"
	TriggerDistance float64 `yaml:"trigger_distance"`
}

// TableConfig names the lookup table sources for the "table" model.
type TableConfig struct {
	Force     string    `yaml:"force"`      // CSV grid, (slip x velocity) -> thrust
	Loss      string    `yaml:"loss"`       // CSV grid, (slip x velocity) -> loss
	SlipCurve string    `yaml:"slip_curve"` // CSV curve, velocity -> optimal slip
	SlipPoly  []float64 `yaml:"slip_poly"`  // polynomial alternative to the curve
}

// LinearConfig parameterizes the closed-form "linear" model.
type LinearConfig struct {
	Gain float64 `yaml:"gain"`
	Slip float64 `yaml:"slip"`
}

func DefaultConfig() *Config {
	return &Config{
		Model: "linear",
		Vehicle: VehicleConfig{
			Mass:           250,
			WheelRadius:    0.09,
			Inertia:        0.05,
			TrackWidth:     1.0,
			TrackLength:    1250,
			MaxOmega:       1100,
			MaxRPM:         10500,
			MaxMotorTorque: 250,
		},
		Brakes: BrakeConfig{PadForce: 1200, Count: 4},
		Run: RunConfig{
			Dt:           DefaultDt,
			Duration:     DefaultDuration,
			Wheels:       DefaultWheels,
			BrakeTrigger: "energy",
		},
		Linear: LinearConfig{Gain: 220, Slip: 1.0},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// PodVehicle maps the vehicle block to the physics parameters.
func (c *Config) PodVehicle() pod.Vehicle {
	return pod.Vehicle{
		Mass:           c.Vehicle.Mass,
		WheelRadius:    c.Vehicle.WheelRadius,
		Inertia:        c.Vehicle.Inertia,
		TrackWidth:     c.Vehicle.TrackWidth,
		TrackLength:    c.Vehicle.TrackLength,
		MaxOmega:       c.Vehicle.MaxOmega,
		MaxRPM:         c.Vehicle.MaxRPM,
		MaxMotorTorque: c.Vehicle.MaxMotorTorque,
	}
}

// PodBrakes maps the brakes block to the physics parameters.
func (c *Config) PodBrakes() pod.Brakes {
	return pod.Brakes{PadForce: c.Brakes.PadForce, Count: c.Brakes.Count}
}

// SimConfig maps the run block to the driver configuration.
func (c *Config) SimConfig() (sim.Config, error) {
	trigger, err := pod.ParseBrakeTrigger(c.Run.BrakeTrigger)
	if err != nil {
		return sim.Config{}, err
	}
	return sim.Config{
		Dt:              c.Run.Dt,
		Duration:        c.Run.Duration,
		Wheels:          c.Run.Wheels,
		Trigger:         trigger,
		TriggerDistance: c.Run.TriggerDistance,
	}, nil
}

// Models builds the propulsion model set for the configured backend.
func (c *Config) Models() (lookup.Set, error) {
	switch c.Model {
	case "", "linear":
		return lookup.Linear{Gain: c.Linear.Gain, Slip: c.Linear.Slip}.Models(), nil

	case "table":
		force, err := lookup.LoadTable(c.Tables.Force)
		if err != nil {
			return lookup.Set{}, fmt.Errorf("config: force table: %w", err)
		}
		loss, err := lookup.LoadTable(c.Tables.Loss)
		if err != nil {
			return lookup.Set{}, fmt.Errorf("config: loss table: %w", err)
		}

		var slip lookup.SlipModel
		if len(c.Tables.SlipPoly) > 0 {
			slip = lookup.PolySlip{Coeffs: c.Tables.SlipPoly}
		} else {
			curve, err := lookup.LoadSlipCurve(c.Tables.SlipCurve)
			if err != nil {
				return lookup.Set{}, fmt.Errorf("config: slip curve: %w", err)
			}
			slip = curve
		}

		return lookup.Set{
			Thrust: lookup.ThrustTable{Table: force},
			Loss:   lookup.LossTable{Table: loss},
			Slip:   slip,
		}, nil
	}

	return lookup.Set{}, fmt.Errorf("config: unknown model %q", c.Model)
}

// Validate checks the whole configuration before a run starts.
func (c *Config) Validate() error {
	if err := c.PodVehicle().Validate(); err != nil {
		return err
	}
	if err := c.PodBrakes().Validate(); err != nil {
		return err
	}
	if c.Run.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Run.Dt)
	}
	if c.Run.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %g", c.Run.Duration)
	}
	if c.Run.Wheels < 1 {
		return fmt.Errorf("config: wheels must be at least 1, got %d", c.Run.Wheels)
	}
	if _, err := pod.ParseBrakeTrigger(c.Run.BrakeTrigger); err != nil {
		return err
	}
	return nil
}
