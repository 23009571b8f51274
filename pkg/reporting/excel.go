package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/aavc-team/aavc-backtest/internal/backtest"
)

const (
	summarySheet   = "Summary"
	portfolioSheet = "Portfolio History"
)

// WriteComparisonReport writes the comparison to an Excel workbook: a
// summary sheet with per-strategy metrics, rankings and the correlation
// matrix, and a sheet with the day-indexed portfolio-value histories.
func WriteComparisonReport(cr *backtest.ComparisonResult, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, cr); err != nil {
		return fmt.Errorf("writing summary sheet: %w", err)
	}
	if err := writePortfolioSheet(f, cr); err != nil {
		return fmt.Errorf("writing portfolio sheet: %w", err)
	}

	// Drop the default sheet so the workbook opens on the summary.
	_ = f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report %s: %w", path, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, cr *backtest.ComparisonResult) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	headers := []interface{}{"Strategy", "Final Value", "Total Invested", "Total Return %",
		"Annual Return %", "Max Drawdown %", "Volatility %", "Sharpe Ratio"}
	if err := f.SetSheetRow(summarySheet, "A1", &headers); err != nil {
		return err
	}

	row := 2
	for _, name := range cr.StrategyOrder {
		r := cr.Results[name]
		values := []interface{}{name, r.FinalValue, r.TotalInvested, r.TotalReturn,
			r.AnnualReturn, r.MaxDrawdown, r.Volatility, r.SharpeRatio}
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		row++
	}

	row++
	summary := [][]interface{}{
		{"Best performer", cr.Summary.BestPerformer},
		{"Worst performer", cr.Summary.WorstPerformer},
		{"Best Sharpe", cr.Summary.BestSharpe},
		{"Lowest drawdown", cr.Summary.LowestDrawdown},
	}
	for _, line := range summary {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &line); err != nil {
			return err
		}
		row++
	}

	row++
	for _, metric := range []string{
		backtest.MetricTotalReturn,
		backtest.MetricSharpeRatio,
		backtest.MetricMaxDrawdown,
		backtest.MetricVolatility,
	} {
		line := []interface{}{"rank: " + metric}
		for _, name := range cr.Rankings[metric] {
			line = append(line, name)
		}
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &line); err != nil {
			return err
		}
		row++
	}

	row++
	corrHeader := []interface{}{"Correlation"}
	for _, name := range cr.StrategyOrder {
		corrHeader = append(corrHeader, name)
	}
	if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &corrHeader); err != nil {
		return err
	}
	row++
	for _, rowName := range cr.StrategyOrder {
		line := []interface{}{rowName}
		for _, colName := range cr.StrategyOrder {
			line = append(line, cr.Correlations[rowName][colName])
		}
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &line); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writePortfolioSheet(f *excelize.File, cr *backtest.ComparisonResult) error {
	if _, err := f.NewSheet(portfolioSheet); err != nil {
		return err
	}

	header := []interface{}{"Date"}
	for _, name := range cr.StrategyOrder {
		header = append(header, name+" value", name+" invested")
	}
	if err := f.SetSheetRow(portfolioSheet, "A1", &header); err != nil {
		return err
	}

	if len(cr.StrategyOrder) == 0 {
		return nil
	}
	dates := cr.Results[cr.StrategyOrder[0]].Dates
	for i, date := range dates {
		line := []interface{}{date.Format("2006-01-02")}
		for _, name := range cr.StrategyOrder {
			r := cr.Results[name]
			line = append(line, r.PortfolioHistory[i], r.InvestmentHistory[i])
		}
		if err := f.SetSheetRow(portfolioSheet, fmt.Sprintf("A%d", i+2), &line); err != nil {
			return err
		}
	}
	return nil
}
