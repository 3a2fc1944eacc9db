package searcher

import (
	"sync/atomic"
	"time"
)

// SearchMetrics summarizes one FindBestMove call.
type SearchMetrics struct {
	StartTime    time.Time
	Duration     time.Duration
	Iterations   int64
	FullPlayouts int64 // playouts that reached a decisive result before the ply cap
}

type Collector interface {
	Start()
	AddIteration()
	AddFullPlayout()
	Complete() SearchMetrics
}

type collector struct {
	startTime    time.Time
	iterations   atomic.Int64
	fullPlayouts atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start() {
	c.startTime = time.Now()
	c.iterations.Store(0)
	c.fullPlayouts.Store(0)
}

func (c *collector) AddIteration() {
	c.iterations.Add(1)
}

func (c *collector) AddFullPlayout() {
	c.fullPlayouts.Add(1)
}

func (c *collector) Complete() SearchMetrics {
	return SearchMetrics{
		StartTime:    c.startTime,
		Duration:     time.Since(c.startTime),
		Iterations:   c.iterations.Load(),
		FullPlayouts: c.fullPlayouts.Load(),
	}
}

type nopCollector struct{}

func NewNopCollector() Collector {
	return &nopCollector{}
}

func (nopCollector) Start()                  {}
func (nopCollector) AddIteration()           {}
func (nopCollector) AddFullPlayout()         {}
func (nopCollector) Complete() SearchMetrics { return SearchMetrics{} }
