package backtest

import (
	"context"
	"runtime"
	"sync"

	"github.com/aavc-team/aavc-backtest/internal/strategy"
	"github.com/aavc-team/aavc-backtest/pkg/types"
)

// simulationJob is one (strategy, parameters) pair to run against the
// shared read-only series.
type simulationJob struct {
	name     string
	strategy strategy.Strategy
	params   strategy.Parameters
}

// simulationResult carries one finished run back to the collector.
type simulationResult struct {
	name   string
	result *Result
	err    error
}

// workerPool fans per-strategy simulations out over a fixed number of
// goroutines. Simulations share no mutable state (the series is
// read-only), so no locking is needed beyond the channels themselves.
type workerPool struct {
	workerCount int
	jobQueue    chan simulationJob
	resultQueue chan simulationResult
	wg          sync.WaitGroup
	engine      *Engine
	series      *types.PriceSeries
}

func newWorkerPool(workerCount, jobBufferSize int, engine *Engine, series *types.PriceSeries) *workerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	return &workerPool{
		workerCount: workerCount,
		jobQueue:    make(chan simulationJob, jobBufferSize),
		resultQueue: make(chan simulationResult, jobBufferSize),
		engine:      engine,
		series:      series,
	}
}

func (wp *workerPool) start(ctx context.Context) {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx)
	}
}

// stop closes the job queue and waits for in-flight simulations.
func (wp *workerPool) stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

func (wp *workerPool) submit(ctx context.Context, job simulationJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (wp *workerPool) results() <-chan simulationResult {
	return wp.resultQueue
}

func (wp *workerPool) worker(ctx context.Context) {
	defer wp.wg.Done()
	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}
			result, err := wp.engine.Run(wp.series, job.strategy, job.params)
			select {
			case wp.resultQueue <- simulationResult{name: job.name, result: result, err: err}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
