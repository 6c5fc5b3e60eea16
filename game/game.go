// Package game wires the simulation, camera, telemetry, and UI into the
// interactive application loop.
package game

import (
	"github.com/murmursim/murmur/camera"
	"github.com/murmursim/murmur/config"
	"github.com/murmursim/murmur/sim"
	"github.com/murmursim/murmur/telemetry"
	"github.com/murmursim/murmur/ui"
)

// Options holds runtime settings that come from CLI flags rather than the
// config file.
type Options struct {
	Seed             uint64
	Headless         bool
	LogStats         bool
	StatsWindowTicks int64 // 0 = use config
	OutputDir        string
	StepsPerUpdate   int
	Population       int // 0 = use config
}

// Game holds the complete application state.
type Game struct {
	cfg  *config.Config
	sim  *sim.Simulation
	pool *sim.Pool

	// params stages panel and keyboard edits; applied before each tick so
	// the simulation sees at most one params change per tick.
	params      sim.Params
	paramsDirty bool

	camera *camera.Camera
	panel  *ui.ParamsPanel
	hud    *ui.HUD

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager

	headless       bool
	logStats       bool
	stepsPerUpdate int

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game from the loaded config plus CLI options.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	params := cfg.Params()
	population := cfg.Population.Initial
	if opts.Population > 0 {
		population = opts.Population
	}

	windowTicks := int64(cfg.Telemetry.StatsWindowTicks)
	if opts.StatsWindowTicks > 0 {
		windowTicks = opts.StatsWindowTicks
	}

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	g := &Game{
		cfg:            cfg,
		sim:            sim.New(cfg.Derived.WorldW32, cfg.Derived.WorldH32, params, opts.Seed, population),
		pool:           sim.NewPool(),
		params:         params,
		collector:      telemetry.NewCollector(windowTicks),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		headless:       opts.Headless,
		logStats:       opts.LogStats,
		stepsPerUpdate: stepsPerUpdate,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
	}

	if !opts.Headless {
		g.camera = camera.New(g.screenWidth, g.screenHeight, cfg.Derived.WorldW32, cfg.Derived.WorldH32)
		g.panel = ui.NewParamsPanel(240)
		g.hud = ui.NewHUD()
		g.updateCameraWrap()
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.output = om
	if err := g.output.WriteConfig(cfg); err != nil {
		return nil, err
	}

	return g, nil
}

// Update runs one interactive frame: input, simulation ticks, telemetry.
// Draw closes the perf tick after rendering.
func (g *Game) Update() {
	g.handleInput()

	g.perf.StartTick()
	g.perf.StartPhase(telemetry.PhaseSim)
	g.applyStagedParams()
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.sim.StepParallel(g.pool)
	}
	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
}

// UpdateHeadless runs simulation ticks without any input or rendering.
func (g *Game) UpdateHeadless() {
	g.perf.StartTick()
	g.perf.StartPhase(telemetry.PhaseSim)
	g.applyStagedParams()
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.sim.StepParallel(g.pool)
	}
	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perf.EndTick()
}

// applyStagedParams pushes accumulated edits into the simulation.
func (g *Game) applyStagedParams() {
	if !g.paramsDirty {
		return
	}
	g.sim.SetParams(g.params)
	// SetParams sanitizes; read back so the panel shows effective values.
	g.params = g.sim.Params()
	g.paramsDirty = false
	if !g.headless {
		g.updateCameraWrap()
	}
}

// updateCameraWrap syncs seam-aware rendering with the boundary topology.
func (g *Game) updateCameraWrap() {
	if g.camera == nil {
		return
	}
	wrapX, wrapY := g.params.Boundary.Glued()
	g.camera.SetWrap(wrapX, wrapY)
}

// setPopulation resizes the flock, clamped to the configured maximum, and
// records the change for telemetry.
func (g *Game) setPopulation(n int) {
	if n < 0 {
		n = 0
	}
	if max := g.cfg.Population.Max; max > 0 && n > max {
		n = max
	}
	before := len(g.sim.Agents())
	g.sim.SetPopulation(n)
	after := len(g.sim.Agents())
	if after > before {
		g.collector.RecordSpawns(after - before)
	} else if before > after {
		g.collector.RecordDespawns(before - after)
	}
}

// cycleBoundary advances to the next boundary topology.
func (g *Game) cycleBoundary() {
	g.params.Boundary = g.params.Boundary.Next()
	g.paramsDirty = true
	g.collector.RecordBoundarySwitch()
}

// cycleAttraction advances the cursor mode: off -> attract -> repel.
func (g *Game) cycleAttraction() {
	g.params.AttractionMode = g.params.AttractionMode.Next()
	g.paramsDirty = true
	if g.params.AttractionMode == sim.AttractOff {
		g.sim.ClearCursor()
	}
}

// applyActions executes requests collected by the params panel.
func (g *Game) applyActions(acts ui.Actions) {
	if acts.ParamsChanged {
		g.paramsDirty = true
	}
	if acts.CycleBoundary {
		g.cycleBoundary()
	}
	if acts.CycleAttraction {
		g.cycleAttraction()
	}
	if acts.TogglePause {
		g.sim.SetRunning(!g.sim.Running())
	}
	if acts.PopulationDelta != 0 {
		g.setPopulation(len(g.sim.Agents()) + acts.PopulationDelta)
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() uint64 {
	return g.sim.Tick()
}

// Sim exposes the simulation for tools built on top of the game loop.
func (g *Game) Sim() *sim.Simulation {
	return g.sim
}

// Unload releases workers and output files. Final partial-window stats are
// flushed so short runs still produce a record.
func (g *Game) Unload() {
	stats := g.collector.Flush(g.sim)
	if g.logStats {
		stats.LogStats()
	}
	if err := g.output.WriteTelemetry(stats); err != nil {
		logError("writing telemetry", err)
	}

	g.pool.Stop()
	if err := g.output.Close(); err != nil {
		logError("closing output", err)
	}
}
