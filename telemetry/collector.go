package telemetry

import "github.com/murmursim/murmur/sim"

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks     int64
	windowStartTick int64

	// Seam crossing tracking derives from the simulation's cumulative
	// counter; the rest are explicit events.
	lastSeamTotal uint64

	spawns           int
	despawns         int
	boundarySwitches int

	// Reusable sample buffers
	speeds    []float64
	neighbors []float64
	velX      []float64
	velY      []float64
}

// NewCollector creates a stats collector that flushes every windowTicks
// ticks.
func NewCollector(windowTicks int64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// RecordSpawns records n agents added to the flock.
func (c *Collector) RecordSpawns(n int) {
	c.spawns += n
}

// RecordDespawns records n agents removed from the flock.
func (c *Collector) RecordDespawns(n int) {
	c.despawns += n
}

// RecordBoundarySwitch records a boundary mode change.
func (c *Collector) RecordBoundarySwitch() {
	c.boundarySwitches++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// WindowTicks returns the window length in ticks.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}

// Flush samples the simulation, produces a WindowStats, and resets the
// event counters for the next window.
func (c *Collector) Flush(s *sim.Simulation) WindowStats {
	agents := s.Agents()
	tick := int64(s.Tick())

	c.speeds = c.speeds[:0]
	c.neighbors = c.neighbors[:0]
	c.velX = c.velX[:0]
	c.velY = c.velY[:0]
	for i := range agents {
		c.speeds = append(c.speeds, float64(agents[i].Vel.Len()))
		c.neighbors = append(c.neighbors, float64(agents[i].NeighborCount))
		c.velX = append(c.velX, float64(agents[i].Vel.X))
		c.velY = append(c.velY, float64(agents[i].Vel.Y))
	}

	speedMean, speedP10, speedP50, speedP90 := ComputeDistStats(c.speeds)
	nbrMean, nbrP10, nbrP50, nbrP90 := ComputeDistStats(c.neighbors)

	seamTotal := s.SeamEvents()
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		Boundary:        s.Params().Boundary.String(),

		Population: len(agents),

		SeamCrossings:    int(seamTotal - c.lastSeamTotal),
		Spawns:           c.spawns,
		Despawns:         c.despawns,
		BoundarySwitches: c.boundarySwitches,

		SpeedMean: speedMean,
		SpeedP10:  speedP10,
		SpeedP50:  speedP50,
		SpeedP90:  speedP90,

		NeighborMean: nbrMean,
		NeighborP10:  nbrP10,
		NeighborP50:  nbrP50,
		NeighborP90:  nbrP90,

		Polarization: Polarization(c.velX, c.velY),
	}

	// Reset for next window
	c.windowStartTick = tick
	c.lastSeamTotal = seamTotal
	c.spawns = 0
	c.despawns = 0
	c.boundarySwitches = 0

	return stats
}
