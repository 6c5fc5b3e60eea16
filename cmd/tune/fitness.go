package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/murmursim/murmur/config"
	"github.com/murmursim/murmur/sim"
	"github.com/murmursim/murmur/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    uint64
	seeds       []uint64
	baseConfig  *config.Config
	windowTicks int64

	mu          sync.Mutex
	lastOrder   float64 // polarization from most recent Evaluate call
	bestFitness float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks uint64, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		windowTicks: 300,
		bestFitness: math.Inf(1),
	}
}

// LastOrder returns the mean polarization from the most recent evaluation.
func (fe *FitnessEvaluator) LastOrder() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastOrder
}

// warmupWindows is how many leading stat windows get discarded so the
// random initial placement does not pollute the score.
const warmupWindows = 2

// runResult holds the results from a single simulation run.
type runResult struct {
	windowStats []telemetry.WindowStats
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	order   float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative flock score: a well-ordered, reasonably grouped flock
// scores high, so its fitness is low.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			fitness, order := fe.scoreRun(result)
			results[idx] = seedResult{fitness: fitness, order: order}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalOrder float64
	for _, r := range results {
		totalFitness += r.fitness
		totalOrder += r.order
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
	}
	fe.lastOrder = totalOrder / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless simulation run.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed uint64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	s := sim.New(
		cfg.Derived.WorldW32, cfg.Derived.WorldH32,
		cfg.Params(), seed, cfg.Population.Initial,
	)
	pool := sim.NewPool()
	defer pool.Stop()

	collector := telemetry.NewCollector(fe.windowTicks)
	result := &runResult{}

	for s.Tick() < fe.maxTicks {
		s.StepParallel(pool)
		if collector.ShouldFlush(int64(s.Tick())) {
			result.windowStats = append(result.windowStats, collector.Flush(s))
		}
	}

	return result
}

// copyConfig creates a copy of the base config safe to mutate per run.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// Score component weights. Order (polarization) dominates; grouping adds a
// bonus for flocks that actually stay together, and overcrowding is
// penalized so separation cannot collapse to zero.
const (
	groupingWeight  = 0.3
	overcrowdWeight = 0.4
	targetNeighbors = 6.0
	crowdLimit      = 25.0
)

// scoreRun reduces a run's window stats to (fitness, meanOrder).
func (fe *FitnessEvaluator) scoreRun(r *runResult) (float64, float64) {
	if len(r.windowStats) <= warmupWindows {
		return 0, 0
	}
	windows := r.windowStats[warmupWindows:]

	orders := make([]float64, len(windows))
	scores := make([]float64, len(windows))
	for i, w := range windows {
		orders[i] = w.Polarization

		grouping := w.NeighborMean / targetNeighbors
		if grouping > 1 {
			grouping = 1
		}

		overcrowd := 0.0
		if w.NeighborMean > crowdLimit {
			overcrowd = (w.NeighborMean - crowdLimit) / crowdLimit
			if overcrowd > 1 {
				overcrowd = 1
			}
		}

		scores[i] = w.Polarization + groupingWeight*grouping - overcrowdWeight*overcrowd
	}

	return -stat.Mean(scores, nil), stat.Mean(orders, nil)
}
