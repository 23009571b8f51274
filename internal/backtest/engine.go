package backtest

import (
	"time"

	apperrors "github.com/aavc-team/aavc-backtest/internal/errors"
	"github.com/aavc-team/aavc-backtest/internal/strategy"
	"github.com/aavc-team/aavc-backtest/pkg/types"
)

// Result is the completed ledger and scores of one strategy run. Created
// once per run, immutable thereafter; consumed by the aggregator and by
// the reporting collaborators.
type Result struct {
	StrategyName  string
	FinalValue    float64
	TotalInvested float64
	TotalReturn   float64 // percent
	AnnualReturn  float64 // percent
	MaxDrawdown   float64 // percent
	Volatility    float64 // percent, annualized
	SharpeRatio   float64

	PortfolioHistory  []float64
	InvestmentHistory []float64
	Dates             []time.Time
	Parameters        strategy.Parameters
}

// Engine drives one strategy across one price series, producing the
// day-indexed ledger of shares held, cash invested and portfolio value.
type Engine struct{}

// NewEngine creates a simulation engine. The engine is stateless; one
// instance may run any number of simulations concurrently.
func NewEngine() *Engine {
	return &Engine{}
}

// Run simulates the strategy over the whole series. Each day the
// strategy sees the price/date prefix ending at that day; the returned
// amount is converted to shares at the same day's close with no slippage
// or rounding. Zero amounts contribute nothing; negative amounts are the
// strategy's contract to prevent, not the engine's.
func (e *Engine) Run(series *types.PriceSeries, strat strategy.Strategy, params strategy.Parameters) (*Result, error) {
	if series.Len() == 0 {
		return nil, apperrors.NewEmptySeries(seriesSymbol(series))
	}

	sharesOwned := 0.0
	totalInvested := 0.0
	portfolio := make([]float64, 0, series.Len())
	investments := make([]float64, 0, series.Len())

	for i := 0; i < series.Len(); i++ {
		price := series.Closes[i]
		amount, err := strat.ComputeInvestment(price, series.Closes[:i+1], series.Dates[:i+1], params)
		if err != nil {
			return nil, err
		}

		sharesOwned += amount / price
		totalInvested += amount
		portfolio = append(portfolio, sharesOwned*price)
		investments = append(investments, amount)
	}

	metrics := ComputeMetrics(portfolio, investments, series.Dates)
	return &Result{
		StrategyName:      strat.Metadata().Name,
		FinalValue:        metrics.FinalValue,
		TotalInvested:     metrics.TotalInvested,
		TotalReturn:       metrics.TotalReturn,
		AnnualReturn:      metrics.AnnualReturn,
		MaxDrawdown:       metrics.MaxDrawdown,
		Volatility:        metrics.Volatility,
		SharpeRatio:       metrics.SharpeRatio,
		PortfolioHistory:  portfolio,
		InvestmentHistory: investments,
		Dates:             series.Dates,
		Parameters:        params,
	}, nil
}

func seriesSymbol(series *types.PriceSeries) string {
	if series == nil {
		return ""
	}
	return series.Symbol
}
