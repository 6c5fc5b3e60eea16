// Package telemetry aggregates simulation statistics over tick windows and
// writes them to structured logs and CSV files.
package telemetry

import (
	"log/slog"
	"math"
	"sort"
)

// WindowStats holds aggregated flock statistics for a time window.
type WindowStats struct {
	WindowStartTick int64  `csv:"-"`
	WindowEndTick   int64  `csv:"window_end"`
	Boundary        string `csv:"boundary"`

	// Population at window end
	Population int `csv:"population"`

	// Events during window
	SeamCrossings    int `csv:"seam_crossings"`
	Spawns           int `csv:"spawns"`
	Despawns         int `csv:"despawns"`
	BoundarySwitches int `csv:"boundary_switches"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Neighbor-count distribution
	NeighborMean float64 `csv:"neighbor_mean"`
	NeighborP10  float64 `csv:"neighbor_p10"`
	NeighborP50  float64 `csv:"neighbor_p50"`
	NeighborP90  float64 `csv:"neighbor_p90"`

	// Polarization is the magnitude of the mean unit heading, in [0, 1].
	// 1 means the whole flock moves the same way.
	Polarization float64 `csv:"polarization"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistStats calculates mean and percentiles of a sample. The input
// is not modified.
func ComputeDistStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// Polarization computes the order parameter of a set of headings: the
// magnitude of the mean unit velocity. Agents at rest are skipped.
func Polarization(velX, velY []float64) float64 {
	if len(velX) != len(velY) || len(velX) == 0 {
		return 0
	}

	var sumX, sumY float64
	counted := 0
	for i := range velX {
		mag := math.Hypot(velX[i], velY[i])
		if mag == 0 {
			continue
		}
		sumX += velX[i] / mag
		sumY += velY[i] / mag
		counted++
	}
	if counted == 0 {
		return 0
	}
	return math.Hypot(sumX, sumY) / float64(counted)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.String("boundary", s.Boundary),
		slog.Int("population", s.Population),
		slog.Int("seam_crossings", s.SeamCrossings),
		slog.Int("spawns", s.Spawns),
		slog.Int("despawns", s.Despawns),
		slog.Int("boundary_switches", s.BoundarySwitches),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("neighbor_mean", s.NeighborMean),
		slog.Float64("neighbor_p10", s.NeighborP10),
		slog.Float64("neighbor_p50", s.NeighborP50),
		slog.Float64("neighbor_p90", s.NeighborP90),
		slog.Float64("polarization", s.Polarization),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"boundary", s.Boundary,
		"population", s.Population,
		"seam_crossings", s.SeamCrossings,
		"spawns", s.Spawns,
		"despawns", s.Despawns,
		"boundary_switches", s.BoundarySwitches,
		"speed_mean", s.SpeedMean,
		"speed_p10", s.SpeedP10,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"neighbor_mean", s.NeighborMean,
		"neighbor_p10", s.NeighborP10,
		"neighbor_p50", s.NeighborP50,
		"neighbor_p90", s.NeighborP90,
		"polarization", s.Polarization,
	)
}
