package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestNewPriceSeries_Valid(t *testing.T) {
	s, err := NewPriceSeries("AAPL",
		[]time.Time{day(0), day(1), day(2)},
		[]float64{100, 90, 80})
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 100.0, s.First())
	assert.Equal(t, 80.0, s.Last())
}

func TestNewPriceSeries_Empty(t *testing.T) {
	_, err := NewPriceSeries("AAPL", nil, nil)
	assert.Error(t, err)
}

func TestNewPriceSeries_LengthMismatch(t *testing.T) {
	_, err := NewPriceSeries("AAPL", []time.Time{day(0)}, []float64{100, 90})
	assert.Error(t, err)
}

func TestNewPriceSeries_NonPositiveClose(t *testing.T) {
	_, err := NewPriceSeries("AAPL",
		[]time.Time{day(0), day(1)},
		[]float64{100, 0})
	assert.Error(t, err)
}

func TestNewPriceSeries_DatesMustIncrease(t *testing.T) {
	_, err := NewPriceSeries("AAPL",
		[]time.Time{day(1), day(1)},
		[]float64{100, 90})
	assert.Error(t, err)

	_, err = NewPriceSeries("AAPL",
		[]time.Time{day(2), day(1)},
		[]float64{100, 90})
	assert.Error(t, err)
}

func TestPriceSeries_NilLenIsZero(t *testing.T) {
	var s *PriceSeries
	assert.Equal(t, 0, s.Len())
}
