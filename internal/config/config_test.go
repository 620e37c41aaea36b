package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config rejected: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Vehicle.Mass = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero mass should be rejected")
	}

	cfg = DefaultConfig()
	cfg.Run.Dt = -0.01
	if err := cfg.Validate(); err == nil {
		t.Error("negative dt should be rejected")
	}

	cfg = DefaultConfig()
	cfg.Run.BrakeTrigger = "sideways"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown brake trigger should be rejected")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Vehicle.Mass = 300
	cfg.Run.BrakeTrigger = "distance"
	cfg.Run.TriggerDistance = 900

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Vehicle.Mass != 300 {
		t.Errorf("mass %g, want 300", loaded.Vehicle.Mass)
	}
	if loaded.Run.BrakeTrigger != "distance" || loaded.Run.TriggerDistance != 900 {
		t.Errorf("brake trigger %q at %g, want distance at 900",
			loaded.Run.BrakeTrigger, loaded.Run.TriggerDistance)
	}
}

func TestLinearModels(t *testing.T) {
	cfg := DefaultConfig()
	models, err := cfg.Models()
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if got := models.Thrust.Thrust(1, 0); got != cfg.Linear.Gain {
		t.Errorf("thrust at unit slip %g, want %g", got, cfg.Linear.Gain)
	}
	if got := models.Slip.OptimalSlip(50); got != cfg.Linear.Slip {
		t.Errorf("optimal slip %g, want %g", got, cfg.Linear.Slip)
	}
}

func TestUnknownModelRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "warp"
	if _, err := cfg.Models(); err == nil {
		t.Error("unknown model should be rejected")
	}
}

func TestPresets(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %q missing", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
	if GetPreset("nope") != nil {
		t.Error("unknown preset should return nil")
	}
}
