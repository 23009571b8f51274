package data

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aavc-team/aavc-backtest/pkg/types"
)

// countingProvider records how many times it was asked for data.
type countingProvider struct {
	calls int
	err   error
}

func (p *countingProvider) GetName() string { return "counting" }

func (p *countingProvider) FetchDaily(_ context.Context, symbol string, _, _ time.Time) (*types.PriceSeries, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return types.NewPriceSeries(symbol,
		[]time.Time{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		[]float64{100})
}

func TestCachedProvider_SecondFetchHitsCache(t *testing.T) {
	upstream := &countingProvider{}
	p := NewCachedProvider(upstream)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	first, err := p.FetchDaily(context.Background(), "AAPL", start, end)
	require.NoError(t, err)
	second, err := p.FetchDaily(context.Background(), "AAPL", start, end)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, upstream.calls)
}

func TestCachedProvider_DistinctRangesAreDistinctEntries(t *testing.T) {
	upstream := &countingProvider{}
	p := NewCachedProvider(upstream)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := p.FetchDaily(context.Background(), "AAPL", start, start.AddDate(0, 1, 0))
	require.NoError(t, err)
	_, err = p.FetchDaily(context.Background(), "AAPL", start, start.AddDate(0, 2, 0))
	require.NoError(t, err)

	assert.Equal(t, 2, upstream.calls)
}

func TestCachedProvider_FailuresAreNotCached(t *testing.T) {
	upstream := &countingProvider{err: errors.New("transient outage")}
	p := NewCachedProvider(upstream)

	_, err := p.FetchDaily(context.Background(), "AAPL", time.Time{}, time.Time{})
	require.Error(t, err)

	upstream.err = nil
	series, err := p.FetchDaily(context.Background(), "AAPL", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())
	assert.Equal(t, 2, upstream.calls)
}

func TestCachedProvider_Name(t *testing.T) {
	p := NewCachedProvider(&countingProvider{})
	assert.Equal(t, "counting-cached", p.GetName())
}
