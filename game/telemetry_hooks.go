package game

import "log/slog"

// flushTelemetry emits window stats when the current window closes.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(int64(g.sim.Tick())) {
		return
	}

	stats := g.collector.Flush(g.sim)
	perfStats := g.perf.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteTelemetry(stats); err != nil {
		logError("writing telemetry", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		logError("writing perf stats", err)
	}
}

func logError(msg string, err error) {
	slog.Error(msg, "error", err)
}
