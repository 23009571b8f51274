package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/aavc-team/aavc-backtest/internal/errors"
	"github.com/aavc-team/aavc-backtest/internal/strategy"
	"github.com/aavc-team/aavc-backtest/pkg/types"
)

// makeSeries builds a series with one trading day per close, starting
// 2024-01-02.
func makeSeries(t *testing.T, closes ...float64) *types.PriceSeries {
	t.Helper()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, len(closes))
	for i := range closes {
		dates[i] = start.AddDate(0, 0, i)
	}
	series, err := types.NewPriceSeries("TEST", dates, closes)
	require.NoError(t, err)
	return series
}

func resolvedParams(t *testing.T, strat strategy.Strategy, overrides map[string]interface{}) strategy.Parameters {
	t.Helper()
	params := strategy.ResolveParameters(strat.Metadata(), overrides)
	require.True(t, strat.Validate(params))
	return params
}

func TestEngineRun_DCAOnFallingSeries(t *testing.T) {
	engine := NewEngine()
	strat := strategy.NewDCA()
	params := resolvedParams(t, strat, map[string]interface{}{"base_amount": 100.0})

	result, err := engine.Run(makeSeries(t, 100, 90, 80), strat, params)
	require.NoError(t, err)

	assert.Equal(t, []float64{100, 100, 100}, result.InvestmentHistory)
	assert.Equal(t, 300.0, result.TotalInvested)

	// shares: 1 + 100/90 + 100/80 = 3.3611..., final = shares * 80
	assert.InDelta(t, 268.89, result.FinalValue, 0.01)
	assert.InDelta(t, -10.37, result.TotalReturn, 0.01)
}

func TestEngineRun_BuyAndHoldMatchesLumpSum(t *testing.T) {
	engine := NewEngine()
	strat := strategy.NewBuyAndHold()
	params := resolvedParams(t, strat, map[string]interface{}{"total_capital": 300.0})

	result, err := engine.Run(makeSeries(t, 100, 90, 80), strat, params)
	require.NoError(t, err)

	assert.Equal(t, []float64{300, 0, 0}, result.InvestmentHistory)
	assert.Equal(t, 300.0, result.TotalInvested)
	assert.InDelta(t, 240.0, result.FinalValue, 1e-9)
	assert.InDelta(t, -20.0, result.TotalReturn, 1e-9)
}

func TestEngineRun_InvestedSumMatchesTotalExactly(t *testing.T) {
	engine := NewEngine()
	strat := strategy.NewAAVCStatic()
	params := resolvedParams(t, strat, map[string]interface{}{"base_amount": 123.45})

	result, err := engine.Run(makeSeries(t, 100, 97, 103, 92, 88, 105), strat, params)
	require.NoError(t, err)

	sum := 0.0
	for _, amount := range result.InvestmentHistory {
		sum += amount
	}
	assert.Equal(t, sum, result.TotalInvested)
}

func TestEngineRun_HistoriesAreDayIndexed(t *testing.T) {
	engine := NewEngine()
	strat := strategy.NewDCA()
	params := resolvedParams(t, strat, map[string]interface{}{"base_amount": 50.0})

	series := makeSeries(t, 100, 110, 120, 130)
	result, err := engine.Run(series, strat, params)
	require.NoError(t, err)

	assert.Len(t, result.PortfolioHistory, series.Len())
	assert.Len(t, result.InvestmentHistory, series.Len())
	assert.Equal(t, series.Dates, result.Dates)
}

func TestEngineRun_EmptySeries(t *testing.T) {
	engine := NewEngine()
	strat := strategy.NewDCA()
	params := resolvedParams(t, strat, nil)

	empty := &types.PriceSeries{Symbol: "TEST"}
	_, err := engine.Run(empty, strat, params)
	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.ErrorCategoryEmptySeries))
}

func TestEngineRun_ZeroInvestmentContributesNoShares(t *testing.T) {
	engine := NewEngine()
	strat := strategy.NewBuyAndHold()
	params := resolvedParams(t, strat, map[string]interface{}{"total_capital": 0.0})

	result, err := engine.Run(makeSeries(t, 100, 110), strat, params)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.TotalInvested)
	assert.Equal(t, []float64{0, 0}, result.PortfolioHistory)
	assert.Equal(t, 0.0, result.TotalReturn)
}
