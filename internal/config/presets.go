package config

import (
	"math"
	"sort"
)

// Presets are ready-made run configurations.
var Presets = map[string]func() *Config{
	// Full-length competition run with the default vehicle.
	"fullrun": DefaultConfig,

	// Short low-speed run for checking out the vehicle and tooling.
	"shakedown": func() *Config {
		cfg := DefaultConfig()
		cfg.Vehicle.TrackLength = 150
		cfg.Run.Duration = 30
		return cfg
	},

	// Braking triggered at a fixed distance instead of the energy estimate.
	"fixed-brake": func() *Config {
		cfg := DefaultConfig()
		cfg.Run.BrakeTrigger = "distance"
		cfg.Run.TriggerDistance = 800
		return cfg
	},

	// Rotor pinned at a low RPM cap early in the run.
	"lowrpm": func() *Config {
		cfg := DefaultConfig()
		cfg.Vehicle.MaxRPM = 2500
		cfg.Vehicle.MaxOmega = 2500 * 2 * math.Pi / 60
		return cfg
	},
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
