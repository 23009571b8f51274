package types

import (
	"fmt"
	"time"
)

// PriceSeries is an ordered daily closing-price series for one symbol,
// oldest first. It is shared read-only across every strategy of a
// comparison run; nothing in this module mutates it after construction.
type PriceSeries struct {
	Symbol string
	Dates  []time.Time
	Closes []float64
}

// NewPriceSeries builds a series and checks its invariants.
func NewPriceSeries(symbol string, dates []time.Time, closes []float64) (*PriceSeries, error) {
	s := &PriceSeries{Symbol: symbol, Dates: dates, Closes: closes}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Len returns the number of trading days in the series.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Closes)
}

// Validate checks the series invariants: non-empty, dates strictly
// increasing, one date per close, all closes positive.
func (s *PriceSeries) Validate() error {
	if s.Len() == 0 {
		return fmt.Errorf("price series %q is empty", s.Symbol)
	}
	if len(s.Dates) != len(s.Closes) {
		return fmt.Errorf("price series %q has %d dates for %d closes", s.Symbol, len(s.Dates), len(s.Closes))
	}
	for i, close := range s.Closes {
		if close <= 0 {
			return fmt.Errorf("price series %q has non-positive close %.4f at %s", s.Symbol, close, s.Dates[i].Format("2006-01-02"))
		}
		if i > 0 && !s.Dates[i].After(s.Dates[i-1]) {
			return fmt.Errorf("price series %q dates not strictly increasing at index %d", s.Symbol, i)
		}
	}
	return nil
}

// First returns the oldest close in the series.
func (s *PriceSeries) First() float64 {
	return s.Closes[0]
}

// Last returns the most recent close in the series.
func (s *PriceSeries) Last() float64 {
	return s.Closes[len(s.Closes)-1]
}
