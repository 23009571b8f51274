package backtest

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

const (
	// AnnualRiskFreeRate is the fixed annual risk-free rate used by the
	// Sharpe computation. It is converted to a daily rate by dividing by
	// TradingDaysPerYear and is not strategy-specific.
	AnnualRiskFreeRate = 0.0

	// TradingDaysPerYear annualizes daily volatility and Sharpe by √252.
	TradingDaysPerYear = 252
)

// Metric names used for rankings and reporting.
const (
	MetricTotalReturn = "total_return"
	MetricSharpeRatio = "sharpe_ratio"
	MetricMaxDrawdown = "max_drawdown"
	MetricVolatility  = "volatility"
)

// Metrics are the scalar scores derived from one completed ledger.
type Metrics struct {
	FinalValue    float64
	TotalInvested float64
	TotalReturn   float64 // percent
	AnnualReturn  float64 // percent
	MaxDrawdown   float64 // percent
	Volatility    float64 // percent, annualized
	SharpeRatio   float64
}

// ComputeMetrics scores a completed run. It is a pure function over the
// histories; numerically degenerate inputs (empty series, zero invested,
// zero-variance returns) resolve to 0 rather than erroring.
func ComputeMetrics(portfolioHistory, investmentHistory []float64, dates []time.Time) Metrics {
	var m Metrics

	if len(portfolioHistory) > 0 {
		m.FinalValue = portfolioHistory[len(portfolioHistory)-1]
	}
	for _, amount := range investmentHistory {
		m.TotalInvested += amount
	}

	if m.TotalInvested > 0 {
		m.TotalReturn = (m.FinalValue/m.TotalInvested - 1.0) * 100
	}

	years := elapsedYears(dates)
	if years > 0 && m.TotalInvested > 0 {
		m.AnnualReturn = (math.Pow(m.FinalValue/m.TotalInvested, 1.0/years) - 1.0) * 100
	}

	m.MaxDrawdown = maxDrawdown(portfolioHistory)

	returns := logReturns(portfolioHistory)
	if len(returns) >= 2 {
		stdDev := stat.StdDev(returns, nil)
		m.Volatility = stdDev * math.Sqrt(TradingDaysPerYear) * 100

		dailyRiskFree := AnnualRiskFreeRate / TradingDaysPerYear
		excess := make([]float64, len(returns))
		for i, r := range returns {
			excess[i] = r - dailyRiskFree
		}
		excessStd := stat.StdDev(excess, nil)
		if excessStd > 0 {
			m.SharpeRatio = stat.Mean(excess, nil) / excessStd * math.Sqrt(TradingDaysPerYear)
		}
	}

	return m
}

// elapsedYears measures the span between the first and last date in
// 365.25-day years.
func elapsedYears(dates []time.Time) float64 {
	if len(dates) < 2 {
		return 0
	}
	days := dates[len(dates)-1].Sub(dates[0]).Hours() / 24
	return days / 365.25
}

// maxDrawdown is the running-peak algorithm: the largest percentage
// decline from the highest portfolio value seen so far.
func maxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	peak := values[0]
	worst := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak * 100; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

// logReturns builds the day-over-day log-return series, skipping pairs
// with a non-positive side (a lump-sum portfolio is worth 0 before its
// first buy).
func logReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] > 0 && values[i] > 0 {
			returns = append(returns, math.Log(values[i]/values[i-1]))
		}
	}
	return returns
}
