package data

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/aavc-team/aavc-backtest/internal/logger"
	"github.com/aavc-team/aavc-backtest/internal/monitoring"
	"github.com/aavc-team/aavc-backtest/pkg/types"
)

// AlpacaProvider fetches split-adjusted daily bars from the Alpaca
// market-data API.
type AlpacaProvider struct {
	client *marketdata.Client
}

// NewAlpacaProvider creates a provider with the given API credentials.
func NewAlpacaProvider(apiKey, apiSecret string) *AlpacaProvider {
	return &AlpacaProvider{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
	}
}

// GetName implements PriceProvider.
func (p *AlpacaProvider) GetName() string {
	return "alpaca"
}

// FetchDaily implements PriceProvider. An empty bar response maps to
// ErrSymbolNotFound; transport errors stay fetch failures.
func (p *AlpacaProvider) FetchDaily(ctx context.Context, symbol string, start, end time.Time) (*types.PriceSeries, error) {
	bars, err := p.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      start,
		End:        end,
	})
	if err != nil {
		monitoring.RecordDataFetchError(p.GetName())
		return nil, fmt.Errorf("fetching daily bars for %q: %w", symbol, err)
	}
	if len(bars) == 0 {
		monitoring.RecordDataFetchError(p.GetName())
		return nil, fmt.Errorf("no bars for %q between %s and %s: %w",
			symbol, start.Format("2006-01-02"), end.Format("2006-01-02"), ErrSymbolNotFound)
	}

	dates := make([]time.Time, len(bars))
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		dates[i] = bar.Timestamp
		closes[i] = bar.Close
	}

	logger.Log.Debugf("fetched %d daily bars for %s from alpaca", len(bars), symbol)
	return types.NewPriceSeries(symbol, dates, closes)
}
