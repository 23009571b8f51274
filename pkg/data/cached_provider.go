package data

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aavc-team/aavc-backtest/pkg/types"
)

// CachedProvider wraps another provider with an in-memory cache keyed by
// symbol and date range. Failed fetches are not cached.
type CachedProvider struct {
	underlying PriceProvider
	mu         sync.RWMutex
	cache      map[string]*types.PriceSeries
}

// NewCachedProvider wraps the given provider.
func NewCachedProvider(underlying PriceProvider) *CachedProvider {
	return &CachedProvider{
		underlying: underlying,
		cache:      make(map[string]*types.PriceSeries),
	}
}

// GetName implements PriceProvider.
func (p *CachedProvider) GetName() string {
	return p.underlying.GetName() + "-cached"
}

// FetchDaily implements PriceProvider.
func (p *CachedProvider) FetchDaily(ctx context.Context, symbol string, start, end time.Time) (*types.PriceSeries, error) {
	key := cacheKey(symbol, start, end)

	p.mu.RLock()
	series, ok := p.cache[key]
	p.mu.RUnlock()
	if ok {
		return series, nil
	}

	series, err := p.underlying.FetchDaily(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[key] = series
	p.mu.Unlock()
	return series, nil
}

func cacheKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s|%d|%d", symbol, start.Unix(), end.Unix())
}
