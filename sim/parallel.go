package sim

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum agent count to use parallel steering.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// workChunk represents a range of agents for a worker to process.
type workChunk struct {
	sim        *Simulation
	start, end int
}

// Pool runs the read-only steering phase across persistent worker
// goroutines. Integration stays single-threaded, so results are
// bit-identical to the serial path regardless of worker count or
// scheduling order.
type Pool struct {
	numWorkers int
	scratches  [][]int32

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// NewPool creates a pool sized to GOMAXPROCS. Workers start lazily on the
// first large enough step.
func NewPool() *Pool {
	numWorkers := runtime.GOMAXPROCS(0)
	scratches := make([][]int32, numWorkers)
	for i := range scratches {
		scratches[i] = make([]int32, 0, 64)
	}
	return &Pool{
		numWorkers: numWorkers,
		scratches:  scratches,
	}
}

// start launches the persistent worker goroutines.
func (p *Pool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop signals all workers to exit and waits for them. The pool can be
// reused after Stop; workers restart on the next dispatch.
func (p *Pool) Stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *Pool) worker(workerID int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.computeChunk(chunk, workerID)
			p.doneChan <- struct{}{}
		}
	}
}

// computeChunk runs steering for a range of agents. Only the spatial grid
// and agent snapshot are read; outputs land in per-index slots, so chunks
// never contend.
func (p *Pool) computeChunk(chunk workChunk, workerID int) {
	s := chunk.sim
	pr := s.params.PerceptionRadius
	cand := p.scratches[workerID]

	for i := chunk.start; i < chunk.end; i++ {
		cand = s.grid.QueryInto(cand[:0], s.agents[i].Pos.X, s.agents[i].Pos.Y, pr)
		s.outs[i] = s.computeSteering(i, cand, s.noise[i])
	}

	p.scratches[workerID] = cand
}

// StepParallel advances the simulation one tick using the pool for the
// steering phase. Small populations fall through to the serial path.
func (s *Simulation) StepParallel(pool *Pool) {
	if !s.running {
		return
	}

	n := len(s.agents)
	if n < parallelThreshold {
		s.stepSerial()
		return
	}

	s.grid.Rebuild(s.agents, s.params.PerceptionRadius, s.w, s.h)
	s.ensureScratch()
	s.drawNoise()

	if !pool.running {
		pool.start()
	}

	chunkSize := (n + pool.numWorkers - 1) / pool.numWorkers
	dispatched := 0
	for w := 0; w < pool.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		pool.workChan <- workChunk{sim: s, start: start, end: end}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-pool.doneChan
	}

	s.integrate()
	s.tick++
}
