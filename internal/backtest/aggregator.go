package backtest

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary names the stand-out strategies of a comparison. Ties are
// broken by request order: first seen wins.
type Summary struct {
	BestPerformer  string // highest total return
	WorstPerformer string // lowest total return
	BestSharpe     string // highest Sharpe ratio
	LowestDrawdown string // smallest max drawdown
}

// ComparisonResult is the merged outcome of one comparison invocation:
// every requested strategy's result, cross-strategy rankings per metric
// and the pairwise correlation matrix of portfolio-value trajectories.
// Created once per invocation, immutable; reporting collaborators must
// not mutate it.
type ComparisonResult struct {
	Symbol        string
	StrategyOrder []string
	Results       map[string]*Result
	Summary       Summary
	Rankings      map[string][]string
	Correlations  map[string]map[string]float64
}

// Aggregate combines per-strategy results. order is the request order
// and drives tie-breaking and correlation-matrix layout; it must hold
// exactly the keys of results.
func Aggregate(symbol string, order []string, results map[string]*Result) *ComparisonResult {
	names := make([]string, len(order))
	copy(names, order)

	return &ComparisonResult{
		Symbol:        symbol,
		StrategyOrder: names,
		Results:       results,
		Summary:       summarize(names, results),
		Rankings:      rank(names, results),
		Correlations:  correlate(names, results),
	}
}

func summarize(names []string, results map[string]*Result) Summary {
	var s Summary
	for _, name := range names {
		r := results[name]
		if s.BestPerformer == "" || r.TotalReturn > results[s.BestPerformer].TotalReturn {
			s.BestPerformer = name
		}
		if s.WorstPerformer == "" || r.TotalReturn < results[s.WorstPerformer].TotalReturn {
			s.WorstPerformer = name
		}
		if s.BestSharpe == "" || r.SharpeRatio > results[s.BestSharpe].SharpeRatio {
			s.BestSharpe = name
		}
		if s.LowestDrawdown == "" || r.MaxDrawdown < results[s.LowestDrawdown].MaxDrawdown {
			s.LowestDrawdown = name
		}
	}
	return s
}

// rank produces a full ordering of strategy names per metric: descending
// for total return and Sharpe, ascending for drawdown and volatility
// (lower is better for both).
func rank(names []string, results map[string]*Result) map[string][]string {
	metrics := map[string]struct {
		value     func(*Result) float64
		ascending bool
	}{
		MetricTotalReturn: {func(r *Result) float64 { return r.TotalReturn }, false},
		MetricSharpeRatio: {func(r *Result) float64 { return r.SharpeRatio }, false},
		MetricMaxDrawdown: {func(r *Result) float64 { return r.MaxDrawdown }, true},
		MetricVolatility:  {func(r *Result) float64 { return r.Volatility }, true},
	}

	rankings := make(map[string][]string, len(metrics))
	for metric, spec := range metrics {
		ordered := make([]string, len(names))
		copy(ordered, names)
		sort.SliceStable(ordered, func(i, j int) bool {
			a, b := spec.value(results[ordered[i]]), spec.value(results[ordered[j]])
			if spec.ascending {
				return a < b
			}
			return a > b
		})
		rankings[metric] = ordered
	}
	return rankings
}

// correlate computes the Pearson correlation of every pair of
// portfolio-value trajectories. The matrix is symmetric with an exact
// 1.0 diagonal; a coefficient that evaluates to NaN (constant series)
// is reported as 0.
func correlate(names []string, results map[string]*Result) map[string]map[string]float64 {
	matrix := make(map[string]map[string]float64, len(names))
	for _, name := range names {
		matrix[name] = make(map[string]float64, len(names))
	}
	for i, a := range names {
		matrix[a][a] = 1.0
		for _, b := range names[i+1:] {
			c := stat.Correlation(results[a].PortfolioHistory, results[b].PortfolioHistory, nil)
			if math.IsNaN(c) {
				c = 0.0
			}
			matrix[a][b] = c
			matrix[b][a] = c
		}
	}
	return matrix
}
