// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/murmursim/murmur/sim"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Flock      FlockConfig      `yaml:"flock"`
	Boundary   BoundaryConfig   `yaml:"boundary"`
	Attraction AttractionConfig `yaml:"attraction"`
	Population PopulationConfig `yaml:"population"`
	Visual     VisualConfig     `yaml:"visual"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds simulation world dimensions.
// World can be larger than the screen; camera handles the viewport.
type WorldConfig struct {
	Width  int `yaml:"width"`  // World width in world units (0 = use screen width)
	Height int `yaml:"height"` // World height in world units (0 = use screen height)
}

// FlockConfig holds the steering force parameters.
type FlockConfig struct {
	Alignment        float64 `yaml:"alignment"`
	Cohesion         float64 `yaml:"cohesion"`
	Separation       float64 `yaml:"separation"`
	PerceptionRadius float64 `yaml:"perception_radius"`
	MaxSpeed         float64 `yaml:"max_speed"`
	MaxForce         float64 `yaml:"max_force"`
	NoiseStrength    float64 `yaml:"noise_strength"`
}

// BoundaryConfig holds edge behavior parameters.
type BoundaryConfig struct {
	Mode       string  `yaml:"mode"`        // plane, cylinderX, cylinderY, torus, mobiusX, mobiusY, kleinX, kleinY, projectivePlane
	EdgeMargin float64 `yaml:"edge_margin"` // Steer-back distance from bouncing edges
}

// AttractionConfig holds cursor interaction parameters.
type AttractionConfig struct {
	Mode     string  `yaml:"mode"`     // off, attract, repel
	Strength float64 `yaml:"strength"`
	Boost    float64 `yaml:"boost"` // Multiplier while dragging
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	Initial int `yaml:"initial"`
	Max     int `yaml:"max"`
	// StepSize is how many agents the +/- keys add or remove at once.
	StepSize int `yaml:"step_size"`
}

// VisualConfig holds rendering parameters the simulation carries but never
// reads.
type VisualConfig struct {
	BoidSize         float64 `yaml:"boid_size"`
	TrailLength      int     `yaml:"trail_length"`
	ColorSensitivity float64 `yaml:"color_sensitivity"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindowTicks    int `yaml:"stats_window_ticks"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32    float32         // Screen.Width as float32
	ScreenH32    float32         // Screen.Height as float32
	WorldW32     float32         // Effective world width as float32
	WorldH32     float32         // Effective world height as float32
	BoundaryMode sim.BoundaryMode
	AttractMode  sim.AttractMode
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)

	mode, err := sim.ParseBoundaryMode(c.Boundary.Mode)
	if err != nil {
		return fmt.Errorf("boundary config: %w", err)
	}
	c.Derived.BoundaryMode = mode

	switch c.Attraction.Mode {
	case "", "off":
		c.Derived.AttractMode = sim.AttractOff
	case "attract":
		c.Derived.AttractMode = sim.AttractPull
	case "repel":
		c.Derived.AttractMode = sim.AttractPush
	default:
		return fmt.Errorf("attraction config: unknown mode %q", c.Attraction.Mode)
	}

	if c.Population.StepSize < 1 {
		c.Population.StepSize = 1
	}
	return nil
}

// Params converts the flock configuration into simulation parameters.
func (c *Config) Params() sim.Params {
	return sim.Params{
		Alignment:        float32(c.Flock.Alignment),
		Cohesion:         float32(c.Flock.Cohesion),
		Separation:       float32(c.Flock.Separation),
		PerceptionRadius: float32(c.Flock.PerceptionRadius),
		MaxSpeed:         float32(c.Flock.MaxSpeed),
		MaxForce:         float32(c.Flock.MaxForce),
		NoiseStrength:    float32(c.Flock.NoiseStrength),
		TrailLength:      c.Visual.TrailLength,
		EdgeMargin:       float32(c.Boundary.EdgeMargin),
		Boundary:         c.Derived.BoundaryMode,
		Attraction:       float32(c.Attraction.Strength),
		AttractionMode:   c.Derived.AttractMode,
		AttractBoost:     float32(c.Attraction.Boost),
		BoidSize:         float32(c.Visual.BoidSize),
		ColorSensitivity: float32(c.Visual.ColorSensitivity),
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
