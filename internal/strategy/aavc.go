package strategy

import (
	"math"
	"time"

	talib "github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"

	apperrors "github.com/aavc-team/aavc-backtest/internal/errors"
)

// baselineVolatility is the 1% daily move the volatility adjustment is
// normalized against: factor = 1 + volatility/baselineVolatility.
const baselineVolatility = 0.01

// DefaultVolatilityWindow is the rolling lookback (trading days) for the
// volatility measure. A window of 0 means the entire history.
const DefaultVolatilityWindow = 20

// referencePolicy computes the baseline price the current price is
// measured against. Implementations derive any path-dependent state from
// the history prefix so the strategy stays pure.
type referencePolicy interface {
	referencePrice(currentPrice float64, priceHistory []float64, params Parameters) float64
}

// AAVCStrategy is the asymmetric volatility-adjusted strategy: it scales
// the deviation of the current price from a policy-defined reference
// price by recent volatility and an asymmetric coefficient that amplifies
// the response to drops, then clamps the result to
// [0, base_amount * max_investment_multiplier].
type AAVCStrategy struct {
	meta   Metadata
	policy referencePolicy
}

func aavcCommonParams() map[string]ParamSpec {
	return map[string]ParamSpec{
		"base_amount": {
			Type: "float", Default: 5000.0,
			Description: "base investment amount per decision",
		},
		"asymmetric_coefficient": {
			Type: "float", Default: 2.0,
			Description: "multiplier amplifying the response to downside deviations",
		},
		"max_investment_multiplier": {
			Type: "float", Default: 3.0,
			Description: "cap on the investment as a multiple of base_amount",
		},
		"investment_frequency": {
			Type: "string", Default: FrequencyDaily,
			Description: "daily or monthly (first trading day of the month)",
		},
		"volatility_window": {
			Type: "int", Default: DefaultVolatilityWindow,
			Description: "rolling lookback in trading days for the volatility measure (0 = full history)",
		},
	}
}

// NewAAVCStatic builds the variant with a fixed reference price: the
// ref_price parameter when set, otherwise the first observed price.
func NewAAVCStatic() *AAVCStrategy {
	params := aavcCommonParams()
	params["ref_price"] = ParamSpec{
		Type: "float", Default: nil,
		Description: "fixed reference price (unset: oldest price in history)",
	}
	return &AAVCStrategy{
		meta: Metadata{
			Name:        "aavc_static",
			Description: "AAVC with static reference price",
			Version:     "1.0",
			Author:      "AAVC Team",
			Category:    "value_averaging",
			Parameters:  params,
		},
		policy: staticReference{},
	}
}

// NewAAVCMovingAverage builds the variant whose reference price is a
// trailing moving average of configurable window.
func NewAAVCMovingAverage() *AAVCStrategy {
	params := aavcCommonParams()
	params["window_size"] = ParamSpec{
		Type: "int", Default: 200,
		Description: "moving-average window in trading days",
	}
	return &AAVCStrategy{
		meta: Metadata{
			Name:        "aavc_ma",
			Description: "AAVC with moving-average reference price",
			Version:     "1.0",
			Author:      "AAVC Team",
			Category:    "value_averaging",
			Parameters:  params,
		},
		policy: movingAverageReference{},
	}
}

// NewAAVCHighestReset builds the ratchet variant: the reference price is
// the running high scaled by reset_factor, so it only ever moves up.
func NewAAVCHighestReset() *AAVCStrategy {
	params := aavcCommonParams()
	params["reset_factor"] = ParamSpec{
		Type: "float", Default: 0.8,
		Description: "reference price as a fraction of the running high",
	}
	return &AAVCStrategy{
		meta: Metadata{
			Name:        "aavc_highest_reset",
			Description: "AAVC with reference price ratcheted to the running high",
			Version:     "1.0",
			Author:      "AAVC Team",
			Category:    "value_averaging",
			Parameters:  params,
		},
		policy: highestResetReference{},
	}
}

// NewAAVCDynamic builds the threshold-reset variant: whenever a price
// exceeds the effective reference by ref_price_reset_threshold, the
// reference resets to that price scaled by ref_price_reset_factor.
func NewAAVCDynamic() *AAVCStrategy {
	params := aavcCommonParams()
	params["ref_price"] = ParamSpec{
		Type: "float", Default: nil,
		Description: "initial reference price (unset: oldest price in history)",
	}
	params["ref_price_reset_threshold"] = ParamSpec{
		Type: "float", Default: 2.0,
		Description: "reference reset triggers when price exceeds reference * threshold",
	}
	params["ref_price_reset_factor"] = ParamSpec{
		Type: "float", Default: 0.8,
		Description: "new reference as a fraction of the triggering price",
	}
	return &AAVCStrategy{
		meta: Metadata{
			Name:        "aavc_dynamic",
			Description: "AAVC with dynamic threshold reference reset",
			Version:     "2.0",
			Author:      "AAVC Team",
			Category:    "value_averaging",
			Parameters:  params,
		},
		policy: dynamicResetReference{},
	}
}

// Metadata implements Strategy.
func (s *AAVCStrategy) Metadata() Metadata {
	return s.meta
}

// Validate implements Strategy. Extra keys never fail validation.
func (s *AAVCStrategy) Validate(params Parameters) bool {
	if params.Float("base_amount", -1) < 0 {
		return false
	}
	if params.Float("asymmetric_coefficient", -1) < 0 {
		return false
	}
	if params.Float("max_investment_multiplier", -1) <= 0 {
		return false
	}
	if params.Int("volatility_window", 0) < 0 {
		return false
	}
	if !validFrequency(params.String("investment_frequency", FrequencyDaily)) {
		return false
	}
	if params.Has("ref_price") && params.Float("ref_price", 0) <= 0 {
		return false
	}
	return true
}

// ComputeInvestment implements Strategy.
func (s *AAVCStrategy) ComputeInvestment(currentPrice float64, priceHistory []float64, dateHistory []time.Time, params Parameters) (float64, error) {
	if len(priceHistory) == 0 {
		return 0, apperrors.NewEmptySeries(s.meta.Name)
	}

	baseAmount := params.Float("base_amount", 5000.0)
	coefficient := params.Float("asymmetric_coefficient", 2.0)
	maxMultiplier := params.Float("max_investment_multiplier", 3.0)
	if baseAmount < 0 || coefficient < 0 || maxMultiplier < 0 {
		return 0, apperrors.NewInvalidParameters(s.meta.Name, "amounts and coefficients must be non-negative")
	}

	if !investsToday(dateHistory, params.String("investment_frequency", FrequencyDaily)) {
		return 0, nil
	}

	reference := s.policy.referencePrice(currentPrice, priceHistory, params)
	if reference <= 0 {
		// First observation with no usable history falls back to the
		// current price itself: zero deviation, base amount invested.
		reference = currentPrice
	}

	volatility := rollingVolatility(priceHistory, params.Int("volatility_window", DefaultVolatilityWindow))
	deviation := (reference - currentPrice) / reference
	adjustedRate := coefficient * deviation * (1.0 + volatility/baselineVolatility)

	amount := baseAmount * (1.0 + adjustedRate)
	if amount < 0 {
		return 0, nil
	}
	if ceiling := baseAmount * maxMultiplier; amount > ceiling {
		return ceiling, nil
	}
	return amount, nil
}

// rollingVolatility is the mean absolute day-over-day percentage change
// over the last window observations (0 = entire history). Fewer than two
// prices yield zero.
func rollingVolatility(priceHistory []float64, window int) float64 {
	prices := priceHistory
	if window > 0 && len(prices) > window+1 {
		prices = prices[len(prices)-window-1:]
	}
	if len(prices) < 2 {
		return 0
	}
	changes := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		changes = append(changes, math.Abs((prices[i]-prices[i-1])/prices[i-1]))
	}
	return stat.Mean(changes, nil)
}

// --- reference-price policies ---

type staticReference struct{}

func (staticReference) referencePrice(_ float64, priceHistory []float64, params Parameters) float64 {
	if params.Has("ref_price") {
		return params.Float("ref_price", 0)
	}
	return priceHistory[0]
}

type movingAverageReference struct{}

func (movingAverageReference) referencePrice(_ float64, priceHistory []float64, params Parameters) float64 {
	window := params.Int("window_size", 200)
	if window < 1 || len(priceHistory) < window {
		return priceHistory[0]
	}
	sma := talib.Sma(priceHistory, window)
	return sma[len(sma)-1]
}

type highestResetReference struct{}

func (highestResetReference) referencePrice(_ float64, priceHistory []float64, params Parameters) float64 {
	resetFactor := params.Float("reset_factor", 0.8)
	highest := priceHistory[0]
	for _, p := range priceHistory[1:] {
		if p > highest {
			highest = p
		}
	}
	return highest * resetFactor
}

type dynamicResetReference struct{}

// referencePrice replays the prefix: the effective reference starts at
// ref_price (or the first price) and jumps to price*factor whenever a
// price crosses reference*threshold. Replaying keeps the strategy pure
// while reproducing the path-dependent reset behaviour.
func (dynamicResetReference) referencePrice(_ float64, priceHistory []float64, params Parameters) float64 {
	threshold := params.Float("ref_price_reset_threshold", 2.0)
	resetFactor := params.Float("ref_price_reset_factor", 0.8)

	reference := priceHistory[0]
	if params.Has("ref_price") {
		reference = params.Float("ref_price", reference)
	}
	for _, p := range priceHistory {
		if p > reference*threshold {
			reference = p * resetFactor
		}
	}
	return reference
}
