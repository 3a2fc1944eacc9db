package searcher

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

// runSequential drives iterations on one goroutine, bounded by the smaller
// of the iteration cap and the wall-clock deadline, and by cancellation.
func (m *MCTS) runSequential(root *node, cfg Config, deadline time.Time) {
	rng := rand.New(rand.NewSource(m.seed))
	for int(m.iterations.Load()) < cfg.Iterations &&
		!m.cancelled.Load() && time.Now().Before(deadline) {
		m.runIteration(root, cfg, rng)
		m.iterations.Add(1)
		m.metrics.AddIteration()
	}
}

// runParallel races cfg.Goroutines workers against the same root. There is
// no work partitioning: every worker repeats the four-phase pass until the
// deadline, the iteration cap, or cancellation, and the scheduler joins all
// of them before returning. Two workers briefly agreeing on the same "best"
// child just costs a duplicated simulation; atomic counters and the
// append-scoped structural lock keep the tree itself consistent.
func (m *MCTS) runParallel(root *node, cfg Config, deadline time.Time) {
	var wg sync.WaitGroup
	for id := 0; id < cfg.Goroutines; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(m.seed + uint64(id)))

			for time.Now().Before(deadline) && !m.cancelled.Load() &&
				int(m.iterations.Load()) < cfg.Iterations {
				m.runIteration(root, cfg, rng)
				m.iterations.Add(1)
				m.metrics.AddIteration()
			}
		}(id)
	}
	wg.Wait()
}
