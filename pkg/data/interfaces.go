package data

import (
	"context"
	"errors"
	"time"

	"github.com/aavc-team/aavc-backtest/pkg/types"
)

// ErrSymbolNotFound distinguishes "the symbol does not exist / has no
// data" from a generic fetch failure. Providers wrap it so callers can
// test with errors.Is; the backtest core propagates either unchanged.
var ErrSymbolNotFound = errors.New("symbol not found")

// PriceProvider supplies an ordered, validated daily closing-price
// series, oldest first. Implementations do not retry on failure; that
// policy belongs to the caller.
type PriceProvider interface {
	// GetName identifies the provider in logs and metrics.
	GetName() string

	// FetchDaily returns the daily series for symbol over [start, end].
	FetchDaily(ctx context.Context, symbol string, start, end time.Time) (*types.PriceSeries, error)
}

// IsNotFound reports whether err means the symbol has no data, as
// opposed to a transient fetch failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSymbolNotFound)
}
