package data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/aavc-team/aavc-backtest/pkg/types"
)

// csvRow is one line of a price file: a trading date and its close.
type csvRow struct {
	Date  string  `csv:"date"`
	Close float64 `csv:"close"`
}

// CSVProvider reads daily closes from <root>/<SYMBOL>.csv files with a
// `date,close` header, dates formatted 2006-01-02.
type CSVProvider struct {
	root string
}

// NewCSVProvider creates a provider rooted at the given directory.
func NewCSVProvider(root string) *CSVProvider {
	return &CSVProvider{root: root}
}

// GetName implements PriceProvider.
func (p *CSVProvider) GetName() string {
	return "csv"
}

// FetchDaily implements PriceProvider. A missing file maps to
// ErrSymbolNotFound; malformed content is a generic fetch failure.
func (p *CSVProvider) FetchDaily(_ context.Context, symbol string, start, end time.Time) (*types.PriceSeries, error) {
	path := filepath.Join(p.root, symbol+".csv")
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no price file for %q at %s: %w", symbol, path, ErrSymbolNotFound)
		}
		return nil, fmt.Errorf("opening price file for %q: %w", symbol, err)
	}
	defer file.Close()

	var rows []*csvRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("parsing price file %s: %w", path, err)
	}

	type point struct {
		date  time.Time
		close float64
	}
	points := make([]point, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, fmt.Errorf("parsing date %q in %s: %w", row.Date, path, err)
		}
		if !start.IsZero() && date.Before(start) {
			continue
		}
		if !end.IsZero() && date.After(end) {
			continue
		}
		points = append(points, point{date: date, close: row.Close})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no data for %q between %s and %s: %w",
			symbol, start.Format("2006-01-02"), end.Format("2006-01-02"), ErrSymbolNotFound)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].date.Before(points[j].date) })

	dates := make([]time.Time, len(points))
	closes := make([]float64, len(points))
	for i, pt := range points {
		dates[i] = pt.date
		closes[i] = pt.close
	}
	return types.NewPriceSeries(symbol, dates, closes)
}
