package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/murmursim/murmur/sim"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}

	if cfg.Screen.Width <= 0 || cfg.Screen.Height <= 0 {
		t.Errorf("screen = %dx%d, want positive", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Derived.BoundaryMode != sim.BoundaryTorus {
		t.Errorf("default boundary = %v, want torus", cfg.Derived.BoundaryMode)
	}
	if cfg.Derived.AttractMode != sim.AttractOff {
		t.Errorf("default attraction = %v, want off", cfg.Derived.AttractMode)
	}
	if cfg.Derived.WorldW32 != float32(cfg.Screen.Width) {
		t.Errorf("world width %v should default to screen width %d",
			cfg.Derived.WorldW32, cfg.Screen.Width)
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	override := `
flock:
  max_speed: 7
boundary:
  mode: mobiusX
world:
  width: 2000
  height: 1500
`
	if err := os.WriteFile(path, []byte(override), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Flock.MaxSpeed != 7 {
		t.Errorf("max_speed = %v, want 7", cfg.Flock.MaxSpeed)
	}
	if cfg.Derived.BoundaryMode != sim.BoundaryMobiusX {
		t.Errorf("boundary = %v, want mobiusX", cfg.Derived.BoundaryMode)
	}
	if cfg.Derived.WorldW32 != 2000 || cfg.Derived.WorldH32 != 1500 {
		t.Errorf("world = %vx%v, want 2000x1500", cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	}
	// Fields absent from the override keep their defaults.
	if cfg.Flock.PerceptionRadius != 50 {
		t.Errorf("perception_radius = %v, want default 50", cfg.Flock.PerceptionRadius)
	}
}

func TestLoadRejectsBadModes(t *testing.T) {
	dir := t.TempDir()

	for name, body := range map[string]string{
		"boundary":   "boundary:\n  mode: donut\n",
		"attraction": "attraction:\n  mode: sideways\n",
	} {
		path := filepath.Join(dir, name+".yaml")
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error for invalid mode", name)
		}
	}
}

func TestParamsConversion(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	p := cfg.Params()
	if p.MaxSpeed != float32(cfg.Flock.MaxSpeed) {
		t.Errorf("MaxSpeed = %v, want %v", p.MaxSpeed, cfg.Flock.MaxSpeed)
	}
	if p.TrailLength != cfg.Visual.TrailLength {
		t.Errorf("TrailLength = %d, want %d", p.TrailLength, cfg.Visual.TrailLength)
	}
	if p.Boundary != cfg.Derived.BoundaryMode {
		t.Errorf("Boundary = %v, want %v", p.Boundary, cfg.Derived.BoundaryMode)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Flock != cfg.Flock {
		t.Errorf("flock section changed in round trip:\n got  %+v\n want %+v",
			reloaded.Flock, cfg.Flock)
	}
}
