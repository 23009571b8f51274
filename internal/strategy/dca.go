package strategy

import (
	"time"

	apperrors "github.com/aavc-team/aavc-backtest/internal/errors"
)

// DCAStrategy is the neutral baseline: it invests the configured base
// amount on every investment day regardless of price history.
type DCAStrategy struct {
	meta Metadata
}

// NewDCA builds the fixed-amount periodic strategy.
func NewDCA() *DCAStrategy {
	return &DCAStrategy{
		meta: Metadata{
			Name:        "dca",
			Description: "Dollar cost averaging: fixed amount per period",
			Version:     "1.0",
			Author:      "AAVC Team",
			Category:    "systematic",
			Parameters: map[string]ParamSpec{
				"base_amount": {
					Type: "float", Default: 5000.0,
					Description: "amount invested per decision",
				},
				"investment_frequency": {
					Type: "string", Default: FrequencyDaily,
					Description: "daily or monthly (first trading day of the month)",
				},
			},
		},
	}
}

func (s *DCAStrategy) Metadata() Metadata {
	return s.meta
}

func (s *DCAStrategy) Validate(params Parameters) bool {
	if params.Float("base_amount", -1) < 0 {
		return false
	}
	return validFrequency(params.String("investment_frequency", FrequencyDaily))
}

func (s *DCAStrategy) ComputeInvestment(_ float64, priceHistory []float64, dateHistory []time.Time, params Parameters) (float64, error) {
	if len(priceHistory) == 0 {
		return 0, apperrors.NewEmptySeries(s.meta.Name)
	}
	baseAmount := params.Float("base_amount", 5000.0)
	if baseAmount < 0 {
		return 0, apperrors.NewInvalidParameters(s.meta.Name, "base_amount must be non-negative")
	}
	if !investsToday(dateHistory, params.String("investment_frequency", FrequencyDaily)) {
		return 0, nil
	}
	return baseAmount, nil
}
