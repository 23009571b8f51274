package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testDates(n int) []time.Time {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

func TestComputeMetrics_EmptyHistories(t *testing.T) {
	m := ComputeMetrics(nil, nil, nil)

	assert.Equal(t, 0.0, m.FinalValue)
	assert.Equal(t, 0.0, m.TotalInvested)
	assert.Equal(t, 0.0, m.TotalReturn)
	assert.Equal(t, 0.0, m.AnnualReturn)
	assert.Equal(t, 0.0, m.MaxDrawdown)
	assert.Equal(t, 0.0, m.Volatility)
	assert.Equal(t, 0.0, m.SharpeRatio)
}

func TestComputeMetrics_TotalReturnZeroWhenNothingInvested(t *testing.T) {
	m := ComputeMetrics([]float64{0, 0, 0}, []float64{0, 0, 0}, testDates(3))
	assert.Equal(t, 0.0, m.TotalReturn)
	assert.Equal(t, 0.0, m.AnnualReturn)
}

func TestComputeMetrics_MaxDrawdownZeroForNonDecreasingSeries(t *testing.T) {
	m := ComputeMetrics([]float64{100, 100, 150, 150, 200}, []float64{100, 0, 0, 0, 0}, testDates(5))
	assert.Equal(t, 0.0, m.MaxDrawdown)
}

func TestComputeMetrics_MaxDrawdownRunningPeak(t *testing.T) {
	// Peak 200, trough 50: 75% drawdown even though the series recovers.
	m := ComputeMetrics([]float64{100, 200, 50, 180}, []float64{100, 0, 0, 0}, testDates(4))
	assert.InDelta(t, 75.0, m.MaxDrawdown, 1e-9)
	assert.GreaterOrEqual(t, m.MaxDrawdown, 0.0)
	assert.LessOrEqual(t, m.MaxDrawdown, 100.0)
}

func TestComputeMetrics_VolatilityZeroForConstantPortfolio(t *testing.T) {
	m := ComputeMetrics([]float64{100, 100, 100, 100}, []float64{100, 0, 0, 0}, testDates(4))
	assert.Equal(t, 0.0, m.Volatility)
	assert.Equal(t, 0.0, m.SharpeRatio)
}

func TestComputeMetrics_VolatilityZeroForFewerThanTwoPoints(t *testing.T) {
	m := ComputeMetrics([]float64{100}, []float64{100}, testDates(1))
	assert.Equal(t, 0.0, m.Volatility)
	assert.Equal(t, 0.0, m.SharpeRatio)
}

func TestComputeMetrics_PositiveVolatilityForMovingPortfolio(t *testing.T) {
	m := ComputeMetrics([]float64{100, 110, 95, 120, 90}, []float64{100, 0, 0, 0, 0}, testDates(5))
	assert.Greater(t, m.Volatility, 0.0)
}

func TestComputeMetrics_AnnualReturnSignFollowsTotalReturn(t *testing.T) {
	dates := []time.Time{
		time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
	}

	up := ComputeMetrics([]float64{100, 150}, []float64{100, 0}, dates)
	assert.Greater(t, up.AnnualReturn, 0.0)
	assert.Greater(t, up.TotalReturn, 0.0)

	down := ComputeMetrics([]float64{100, 80}, []float64{100, 0}, dates)
	assert.Less(t, down.AnnualReturn, 0.0)
}

func TestComputeMetrics_TotalInvestedIsExactSum(t *testing.T) {
	invested := []float64{10.5, 0, 3.25, 7.75}
	m := ComputeMetrics([]float64{10, 11, 15, 22}, invested, testDates(4))
	assert.Equal(t, 10.5+0+3.25+7.75, m.TotalInvested)
}
