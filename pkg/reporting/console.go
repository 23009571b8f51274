package reporting

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/aavc-team/aavc-backtest/internal/backtest"
)

// ConsoleReporter renders a ComparisonResult as console tables. It is
// read-only over the result.
type ConsoleReporter struct {
	highlight bool
}

// NewConsoleReporter creates a reporter that highlights the best value
// per metric.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{highlight: true}
}

// PrintComparison writes the full comparison report: metric table,
// summary, rankings and the correlation matrix.
func (r *ConsoleReporter) PrintComparison(cr *backtest.ComparisonResult) {
	fmt.Printf("\n📊 Backtest comparison: %s\n\n", cr.Symbol)
	r.printMetricsTable(cr)
	r.printSummary(cr)
	r.printRankings(cr)
	r.printCorrelations(cr)
}

type metricRow struct {
	label  string
	value  func(*backtest.Result) float64
	format func(float64) string
	// bestIsMax selects which direction counts as best for highlighting.
	bestIsMax bool
}

func comparisonRows() []metricRow {
	money := func(v float64) string { return fmt.Sprintf("$%.2f", v) }
	percent := func(v float64) string { return fmt.Sprintf("%+.2f%%", v) }
	plain := func(v float64) string { return fmt.Sprintf("%.2f", v) }
	return []metricRow{
		{"Final Value", func(r *backtest.Result) float64 { return r.FinalValue }, money, true},
		{"Total Invested", func(r *backtest.Result) float64 { return r.TotalInvested }, money, true},
		{"Total Return", func(r *backtest.Result) float64 { return r.TotalReturn }, percent, true},
		{"Annual Return", func(r *backtest.Result) float64 { return r.AnnualReturn }, percent, true},
		{"Max Drawdown", func(r *backtest.Result) float64 { return r.MaxDrawdown }, percent, false},
		{"Volatility", func(r *backtest.Result) float64 { return r.Volatility }, percent, false},
		{"Sharpe Ratio", func(r *backtest.Result) float64 { return r.SharpeRatio }, plain, true},
	}
}

func (r *ConsoleReporter) printMetricsTable(cr *backtest.ComparisonResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)

	header := table.Row{"Metric"}
	for _, name := range cr.StrategyOrder {
		header = append(header, name)
	}
	t.AppendHeader(header)

	for _, row := range comparisonRows() {
		bestIdx := 0
		for i, name := range cr.StrategyOrder {
			v := row.value(cr.Results[name])
			best := row.value(cr.Results[cr.StrategyOrder[bestIdx]])
			if (row.bestIsMax && v > best) || (!row.bestIsMax && v < best) {
				bestIdx = i
			}
		}

		cells := table.Row{row.label}
		for i, name := range cr.StrategyOrder {
			cell := row.format(row.value(cr.Results[name]))
			if r.highlight && i == bestIdx {
				cell = text.Colors{text.FgGreen, text.Bold}.Sprint(cell)
			}
			cells = append(cells, cell)
		}
		t.AppendRow(cells)
	}
	t.Render()
}

func (r *ConsoleReporter) printSummary(cr *backtest.ComparisonResult) {
	fmt.Printf("\n🏆 Best performer:  %s\n", cr.Summary.BestPerformer)
	fmt.Printf("📉 Worst performer: %s\n", cr.Summary.WorstPerformer)
	fmt.Printf("📊 Best Sharpe:     %s\n", cr.Summary.BestSharpe)
	fmt.Printf("🛡️  Lowest drawdown: %s\n", cr.Summary.LowestDrawdown)
}

func (r *ConsoleReporter) printRankings(cr *backtest.ComparisonResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Metric", "Ranking (best first)"})

	for _, metric := range []string{
		backtest.MetricTotalReturn,
		backtest.MetricSharpeRatio,
		backtest.MetricMaxDrawdown,
		backtest.MetricVolatility,
	} {
		ranking := cr.Rankings[metric]
		line := ""
		for i, name := range ranking {
			if i > 0 {
				line += " > "
			}
			line += name
		}
		t.AppendRow(table.Row{metric, line})
	}

	fmt.Println()
	t.Render()
}

func (r *ConsoleReporter) printCorrelations(cr *backtest.ComparisonResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)

	header := table.Row{""}
	for _, name := range cr.StrategyOrder {
		header = append(header, name)
	}
	t.AppendHeader(header)

	for _, rowName := range cr.StrategyOrder {
		cells := table.Row{rowName}
		for _, colName := range cr.StrategyOrder {
			cells = append(cells, fmt.Sprintf("%.3f", cr.Correlations[rowName][colName]))
		}
		t.AppendRow(cells)
	}

	fmt.Println("\nPortfolio-value correlations:")
	t.Render()
}
