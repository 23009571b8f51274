package backtest

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/aavc-team/aavc-backtest/internal/errors"
	"github.com/aavc-team/aavc-backtest/internal/monitoring"
	"github.com/aavc-team/aavc-backtest/internal/strategy"
	"github.com/aavc-team/aavc-backtest/pkg/types"
)

// StrategyRequest names one strategy to compare plus the caller's
// parameter overrides, merged over the strategy's schema defaults.
type StrategyRequest struct {
	Name      string
	Overrides map[string]interface{}
}

// Comparison runs a set of strategies over one shared price series and
// merges their results. A comparison call either fully succeeds or fails
// with one identified error; it never returns an object with missing
// entries.
type Comparison struct {
	registry *strategy.Registry
	engine   *Engine
	workers  int
}

// NewComparison builds a comparison runner over the given registry with
// one worker per CPU.
func NewComparison(registry *strategy.Registry) *Comparison {
	return &Comparison{
		registry: registry,
		engine:   NewEngine(),
	}
}

// NewComparisonWithWorkers pins the simulation worker count. workers <= 0
// falls back to one per CPU.
func NewComparisonWithWorkers(registry *strategy.Registry, workers int) *Comparison {
	c := NewComparison(registry)
	c.workers = workers
	return c
}

type resolvedRequest struct {
	name     string
	strategy strategy.Strategy
	params   strategy.Parameters
	// capitalMatched marks a lump-sum run whose capital must be filled
	// from another strategy's total invested before it can start.
	capitalMatched bool
}

// Run executes every requested strategy and aggregates the results.
// Validation is fail-fast: an unknown strategy name or invalid parameter
// set aborts the whole call before any simulation starts, so partial,
// inconsistent comparisons are never returned.
func (c *Comparison) Run(ctx context.Context, series *types.PriceSeries, requests []StrategyRequest) (*ComparisonResult, error) {
	started := time.Now()

	if series.Len() == 0 {
		return nil, apperrors.NewEmptySeries(seriesSymbol(series))
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("invalid price series: %w", err)
	}
	if len(requests) == 0 {
		return nil, apperrors.NewInvalidParameters("", "no strategies requested")
	}

	resolved, err := c.resolve(requests)
	if err != nil {
		return nil, err
	}

	order := make([]string, len(resolved))
	for i, r := range resolved {
		order[i] = r.name
	}

	results, err := c.simulate(ctx, series, resolved)
	if err != nil {
		return nil, err
	}

	comparison := Aggregate(series.Symbol, order, results)
	monitoring.RecordComparison(series.Symbol, len(resolved), time.Since(started))
	return comparison, nil
}

// resolve maps requests to strategies and validated parameter sets.
func (c *Comparison) resolve(requests []StrategyRequest) ([]resolvedRequest, error) {
	resolved := make([]resolvedRequest, 0, len(requests))
	seen := make(map[string]bool, len(requests))

	for _, req := range requests {
		if seen[req.Name] {
			return nil, apperrors.NewInvalidParameters(req.Name, "strategy requested twice")
		}
		seen[req.Name] = true

		strat, ok := c.registry.Get(req.Name)
		if !ok {
			return nil, apperrors.NewUnknownStrategy(req.Name)
		}

		meta := strat.Metadata()
		params := strategy.ResolveParameters(meta, req.Overrides)
		if !strat.Validate(params) {
			return nil, apperrors.NewInvalidParameters(req.Name, "parameter validation failed")
		}

		_, wantsCapital := meta.Parameters["total_capital"]
		resolved = append(resolved, resolvedRequest{
			name:           req.Name,
			strategy:       strat,
			params:         params,
			capitalMatched: wantsCapital && !params.Has("total_capital"),
		})
	}
	return resolved, nil
}

// simulate runs the independent strategies through the worker pool, then
// the capital-matched lump-sum runs against the first independent
// strategy's total invested.
func (c *Comparison) simulate(ctx context.Context, series *types.PriceSeries, resolved []resolvedRequest) (map[string]*Result, error) {
	var independent, deferred []resolvedRequest
	for _, r := range resolved {
		if r.capitalMatched {
			deferred = append(deferred, r)
		} else {
			independent = append(independent, r)
		}
	}
	if len(deferred) > 0 && len(independent) == 0 {
		return nil, apperrors.NewInvalidParameters(deferred[0].name,
			"capital matching needs at least one strategy with its own schedule, or an explicit total_capital")
	}

	results := make(map[string]*Result, len(resolved))

	pool := newWorkerPool(c.workers, len(independent), c.engine, series)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	pool.start(ctx)

	submitted := 0
	var submitErr error
	for _, r := range independent {
		if err := pool.submit(ctx, simulationJob{name: r.name, strategy: r.strategy, params: r.params}); err != nil {
			submitErr = err
			break
		}
		submitted++
	}
	pool.stop()

	var runErr error
	for res := range pool.results() {
		if res.err != nil && runErr == nil {
			runErr = res.err
		}
		if res.err == nil {
			results[res.name] = res.result
			monitoring.RecordSimulation(res.name)
		}
	}
	if submitErr != nil {
		return nil, submitErr
	}
	if runErr != nil {
		return nil, runErr
	}
	if submitted != len(independent) || len(results) != len(independent) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("comparison aborted before all simulations completed")
	}

	// Capital-matched runs follow the run they borrow their budget from.
	matchedCapital := results[independent[0].name].TotalInvested
	for _, r := range deferred {
		params := make(strategy.Parameters, len(r.params)+1)
		for k, v := range r.params {
			params[k] = v
		}
		params["total_capital"] = matchedCapital

		result, err := c.engine.Run(series, r.strategy, params)
		if err != nil {
			return nil, err
		}
		results[r.name] = result
		monitoring.RecordSimulation(r.name)
	}

	return results, nil
}
