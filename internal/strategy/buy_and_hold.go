package strategy

import (
	"time"

	apperrors "github.com/aavc-team/aavc-backtest/internal/errors"
)

// BuyAndHoldStrategy invests its entire allocated capital on the first
// simulated day and nothing afterwards. The capital is supplied per run,
// typically matched to another strategy's total invested so comparisons
// stay capital-equal; the comparison runner fills it in when absent.
type BuyAndHoldStrategy struct {
	meta Metadata
}

// NewBuyAndHold builds the single-lump-sum strategy.
func NewBuyAndHold() *BuyAndHoldStrategy {
	return &BuyAndHoldStrategy{
		meta: Metadata{
			Name:        "buy_and_hold",
			Description: "Invest all allocated capital on day one, hold thereafter",
			Version:     "1.0",
			Author:      "AAVC Team",
			Category:    "passive",
			Parameters: map[string]ParamSpec{
				"total_capital": {
					Type: "float", Default: nil,
					Description: "capital invested on the first day (unset: matched to another strategy's total invested)",
				},
			},
		},
	}
}

func (s *BuyAndHoldStrategy) Metadata() Metadata {
	return s.meta
}

func (s *BuyAndHoldStrategy) Validate(params Parameters) bool {
	if params.Has("total_capital") && params.Float("total_capital", -1) < 0 {
		return false
	}
	return true
}

func (s *BuyAndHoldStrategy) ComputeInvestment(_ float64, priceHistory []float64, _ []time.Time, params Parameters) (float64, error) {
	if len(priceHistory) == 0 {
		return 0, apperrors.NewEmptySeries(s.meta.Name)
	}
	capital := params.Float("total_capital", 0)
	if capital < 0 {
		return 0, apperrors.NewInvalidParameters(s.meta.Name, "total_capital must be non-negative")
	}
	if len(priceHistory) == 1 {
		return capital, nil
	}
	return 0, nil
}
