package backtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/aavc-team/aavc-backtest/internal/errors"
	"github.com/aavc-team/aavc-backtest/internal/strategy"
)

func TestComparisonRun_UnknownStrategyFailsWholeCall(t *testing.T) {
	comparison := NewComparison(strategy.DefaultRegistry())
	series := makeSeries(t, 100, 101, 102)

	result, err := comparison.Run(context.Background(), series, []StrategyRequest{
		{Name: "dca"},
		{Name: "no_such_strategy"},
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsCategory(err, apperrors.ErrorCategoryUnknownStrategy))
}

func TestComparisonRun_InvalidParametersFailWholeCall(t *testing.T) {
	comparison := NewComparison(strategy.DefaultRegistry())
	series := makeSeries(t, 100, 101, 102)

	result, err := comparison.Run(context.Background(), series, []StrategyRequest{
		{Name: "dca", Overrides: map[string]interface{}{"base_amount": -50.0}},
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsCategory(err, apperrors.ErrorCategoryInvalidParameters))
}

func TestComparisonRun_EmptySeries(t *testing.T) {
	comparison := NewComparison(strategy.DefaultRegistry())

	result, err := comparison.Run(context.Background(), nil, []StrategyRequest{{Name: "dca"}})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsCategory(err, apperrors.ErrorCategoryEmptySeries))
}

func TestComparisonRun_DuplicateStrategyRejected(t *testing.T) {
	comparison := NewComparison(strategy.DefaultRegistry())
	series := makeSeries(t, 100, 101, 102)

	_, err := comparison.Run(context.Background(), series, []StrategyRequest{
		{Name: "dca"},
		{Name: "dca"},
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.ErrorCategoryInvalidParameters))
}

func TestComparisonRun_NoRequests(t *testing.T) {
	comparison := NewComparison(strategy.DefaultRegistry())
	series := makeSeries(t, 100, 101, 102)

	_, err := comparison.Run(context.Background(), series, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.ErrorCategoryInvalidParameters))
}

func TestComparisonRun_FullComparison(t *testing.T) {
	comparison := NewComparison(strategy.DefaultRegistry())
	series := makeSeries(t, 100, 95, 102, 110, 104, 99, 108)

	requests := []StrategyRequest{
		{Name: "aavc_static", Overrides: map[string]interface{}{"base_amount": 100.0}},
		{Name: "dca", Overrides: map[string]interface{}{"base_amount": 100.0}},
		{Name: "buy_and_hold"},
	}

	result, err := comparison.Run(context.Background(), series, requests)
	require.NoError(t, err)
	require.NotNil(t, result)

	// All-or-nothing: every requested strategy has an entry.
	assert.Equal(t, []string{"aavc_static", "dca", "buy_and_hold"}, result.StrategyOrder)
	assert.Len(t, result.Results, 3)
	for _, name := range result.StrategyOrder {
		require.Contains(t, result.Results, name)
	}

	for metric, ranking := range result.Rankings {
		assert.ElementsMatch(t, result.StrategyOrder, ranking, "metric %s", metric)
	}
	for _, name := range result.StrategyOrder {
		assert.Equal(t, 1.0, result.Correlations[name][name])
	}
}

func TestComparisonRun_BuyAndHoldCapitalMatched(t *testing.T) {
	comparison := NewComparison(strategy.DefaultRegistry())
	series := makeSeries(t, 100, 90, 80)

	result, err := comparison.Run(context.Background(), series, []StrategyRequest{
		{Name: "dca", Overrides: map[string]interface{}{"base_amount": 100.0}},
		{Name: "buy_and_hold"},
	})
	require.NoError(t, err)

	dca := result.Results["dca"]
	bnh := result.Results["buy_and_hold"]
	assert.Equal(t, dca.TotalInvested, bnh.TotalInvested)
	assert.Equal(t, bnh.TotalInvested, bnh.InvestmentHistory[0])
}

func TestComparisonRun_ExplicitCapitalRespected(t *testing.T) {
	comparison := NewComparison(strategy.DefaultRegistry())
	series := makeSeries(t, 100, 90, 80)

	result, err := comparison.Run(context.Background(), series, []StrategyRequest{
		{Name: "buy_and_hold", Overrides: map[string]interface{}{"total_capital": 1000.0}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, result.Results["buy_and_hold"].TotalInvested)
}

func TestComparisonRun_CapitalMatchNeedsAnotherStrategy(t *testing.T) {
	comparison := NewComparison(strategy.DefaultRegistry())
	series := makeSeries(t, 100, 90, 80)

	_, err := comparison.Run(context.Background(), series, []StrategyRequest{
		{Name: "buy_and_hold"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.ErrorCategoryInvalidParameters))
}

func TestComparisonRun_ConstantSeriesParity(t *testing.T) {
	// On a constant series the AAVC deviation is zero every day, so the
	// static-reference variant degenerates to plain DCA.
	comparison := NewComparison(strategy.DefaultRegistry())
	series := makeSeries(t, 100, 100, 100, 100, 100)

	result, err := comparison.Run(context.Background(), series, []StrategyRequest{
		{Name: "aavc_static", Overrides: map[string]interface{}{"base_amount": 250.0}},
		{Name: "dca", Overrides: map[string]interface{}{"base_amount": 250.0}},
	})
	require.NoError(t, err)

	aavc := result.Results["aavc_static"]
	dca := result.Results["dca"]
	require.Len(t, aavc.InvestmentHistory, series.Len())
	for i := range aavc.InvestmentHistory {
		assert.InDelta(t, dca.InvestmentHistory[i], aavc.InvestmentHistory[i], 1e-9, "day %d", i)
	}
}

func TestComparisonRun_ParallelAndSequentialAgree(t *testing.T) {
	series := makeSeries(t, 100, 95, 102, 110, 104, 99, 108, 101, 97, 112)
	requests := []StrategyRequest{
		{Name: "aavc_static", Overrides: map[string]interface{}{"base_amount": 100.0}},
		{Name: "aavc_ma", Overrides: map[string]interface{}{"base_amount": 100.0, "window_size": 3}},
		{Name: "aavc_highest_reset", Overrides: map[string]interface{}{"base_amount": 100.0}},
		{Name: "dca", Overrides: map[string]interface{}{"base_amount": 100.0}},
	}

	parallel, err := NewComparisonWithWorkers(strategy.DefaultRegistry(), 4).Run(context.Background(), series, requests)
	require.NoError(t, err)
	sequential, err := NewComparisonWithWorkers(strategy.DefaultRegistry(), 1).Run(context.Background(), series, requests)
	require.NoError(t, err)

	for _, name := range parallel.StrategyOrder {
		assert.Equal(t, sequential.Results[name].TotalInvested, parallel.Results[name].TotalInvested, name)
		assert.Equal(t, sequential.Results[name].FinalValue, parallel.Results[name].FinalValue, name)
	}
}
