package main

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/aavc-team/aavc-backtest/internal/backtest"
	"github.com/aavc-team/aavc-backtest/internal/config"
	"github.com/aavc-team/aavc-backtest/internal/logger"
	"github.com/aavc-team/aavc-backtest/internal/monitoring"
	"github.com/aavc-team/aavc-backtest/internal/strategy"
	"github.com/aavc-team/aavc-backtest/pkg/data"
	"github.com/aavc-team/aavc-backtest/pkg/reporting"
)

const (
	appName    = "aavc"
	appVersion = "1.0.0"

	defaultStrategy   = "aavc_static"
	defaultStrategies = "aavc_static,dca,buy_and_hold"
	defaultDataRoot   = "data"
	defaultLogFile    = "investment_log.csv"
	defaultPeriodDays = 365
)

func main() {
	// Optional .env for Alpaca credentials; absence is fine.
	_ = godotenv.Load()

	app := &cli.App{
		Name:    appName,
		Version: appVersion,
		Usage:   "Calculate AAVC investment amounts and run strategy comparison backtests",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "logrus level (debug, info, warn, error)"},
			&cli.StringFlag{Name: "source", Value: "csv", Usage: "price data source: csv or alpaca"},
			&cli.StringFlag{Name: "data-dir", Value: defaultDataRoot, Usage: "root directory for csv price files"},
		},
		Before: func(c *cli.Context) error {
			return logger.Setup(c.String("log-level"), "")
		},
		Commands: []*cli.Command{
			calcCommand(),
			backtestCommand(),
			strategiesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Error(err)
		os.Exit(1)
	}
}

// newProvider builds the price-data collaborator selected by --source.
func newProvider(c *cli.Context) (data.PriceProvider, error) {
	switch c.String("source") {
	case "csv":
		return data.NewCachedProvider(data.NewCSVProvider(c.String("data-dir"))), nil
	case "alpaca":
		apiKey := config.GetEnv("ALPACA_API_KEY", "")
		apiSecret := config.GetEnv("ALPACA_API_SECRET", "")
		if apiKey == "" || apiSecret == "" {
			return nil, fmt.Errorf("alpaca source needs ALPACA_API_KEY and ALPACA_API_SECRET")
		}
		return data.NewCachedProvider(data.NewAlpacaProvider(apiKey, apiSecret)), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", c.String("source"))
	}
}

func calcCommand() *cli.Command {
	return &cli.Command{
		Name:  "calc",
		Usage: "Calculate today's investment amount for a ticker or from a config file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ticker", Aliases: []string{"t"}, Usage: "ticker symbol (e.g. SPY, AAPL)"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a YAML configuration file"},
			&cli.Float64Flag{Name: "amount", Aliases: []string{"a"}, Usage: "base investment amount (required with --ticker)"},
			&cli.Float64Flag{Name: "ref-price", Aliases: []string{"r"}, Usage: "reference price (default: oldest price in history)"},
			&cli.StringFlag{Name: "strategy", Value: defaultStrategy, Usage: "strategy used for the calculation"},
			&cli.IntFlag{Name: "period", Value: defaultPeriodDays, Usage: "history period in calendar days"},
			&cli.StringFlag{Name: "log-file", Value: defaultLogFile, Usage: "investment log CSV path"},
		},
		Action: runCalc,
	}
}

func runCalc(c *cli.Context) error {
	ticker := c.String("ticker")
	configPath := c.String("config")
	if (ticker == "") == (configPath == "") {
		return fmt.Errorf("exactly one of --ticker or --config is required")
	}

	provider, err := newProvider(c)
	if err != nil {
		return err
	}
	registry := strategy.DefaultRegistry()

	if ticker != "" {
		if !c.IsSet("amount") {
			return fmt.Errorf("--amount is required with --ticker")
		}
		job := config.CalcJob{
			Ticker:         ticker,
			BaseAmount:     c.Float64("amount"),
			ReferencePrice: c.Float64("ref-price"),
			Strategy:       c.String("strategy"),
		}
		return calcOne(c, provider, registry, job)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	for _, job := range cfg.CalculationJobs() {
		if job.Strategy == "" {
			job.Strategy = defaultStrategy
		}
		if err := calcOne(c, provider, registry, job); err != nil {
			logger.Log.Errorf("skipping %s: %v", job.Ticker, err)
		}
	}
	return nil
}

func calcOne(c *cli.Context, provider data.PriceProvider, registry *strategy.Registry, job config.CalcJob) error {
	strat, ok := registry.Get(job.Strategy)
	if !ok {
		return fmt.Errorf("strategy %q is not registered", job.Strategy)
	}

	end := time.Now()
	start := end.AddDate(0, 0, -c.Int("period"))
	series, err := provider.FetchDaily(c.Context, job.Ticker, start, end)
	if err != nil {
		if data.IsNotFound(err) {
			return fmt.Errorf("no historical data for %s: %w", job.Ticker, err)
		}
		return fmt.Errorf("fetching data for %s: %w", job.Ticker, err)
	}

	overrides := map[string]interface{}{
		"base_amount":          job.BaseAmount,
		"investment_frequency": strategy.FrequencyDaily,
	}
	if job.ReferencePrice > 0 {
		overrides["ref_price"] = job.ReferencePrice
	}
	if job.AsymmetricCoefficient > 0 {
		overrides["asymmetric_coefficient"] = job.AsymmetricCoefficient
	}

	params := strategy.ResolveParameters(strat.Metadata(), overrides)
	if !strat.Validate(params) {
		return fmt.Errorf("invalid parameters for strategy %q", job.Strategy)
	}

	amount, err := strat.ComputeInvestment(series.Last(), series.Closes, series.Dates, params)
	if err != nil {
		return err
	}

	referencePrice := job.ReferencePrice
	if referencePrice <= 0 {
		referencePrice = series.First()
	}
	entry := reporting.LogEntry{
		Date:                 time.Now().Format("2006-01-02"),
		Ticker:               job.Ticker,
		BaseAmount:           job.BaseAmount,
		ReferencePrice:       referencePrice,
		CalculatedInvestment: amount,
	}
	if err := reporting.RecordInvestment(entry, c.String("log-file")); err != nil {
		logger.Log.Warnf("could not write investment log: %v", err)
	}

	fmt.Printf("💰 %s: invest $%.2f today (%s)\n", job.Ticker, amount, job.Strategy)
	return nil
}

func backtestCommand() *cli.Command {
	return &cli.Command{
		Name:  "backtest",
		Usage: "Run a backtest comparison across strategies",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ticker", Aliases: []string{"t"}, Required: true, Usage: "ticker symbol"},
			&cli.StringFlag{Name: "start-date", Required: true, Usage: "start date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "end-date", Required: true, Usage: "end date (YYYY-MM-DD)"},
			&cli.Float64Flag{Name: "amount", Aliases: []string{"a"}, Value: 5000, Usage: "base investment amount"},
			&cli.Float64Flag{Name: "ref-price", Usage: "reference price for the AAVC strategies"},
			&cli.Float64Flag{Name: "asymmetric-coefficient", Value: 2.0, Usage: "asymmetric coefficient for the AAVC strategies"},
			&cli.StringFlag{Name: "strategies", Value: defaultStrategies, Usage: "comma-separated strategy names"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config with a backtest.strategies section"},
			&cli.StringFlag{Name: "excel", Usage: "write an Excel report to this path"},
			&cli.IntFlag{Name: "workers", Usage: "simulation workers (default: one per CPU)"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "serve Prometheus metrics on this address (e.g. :8080)"},
		},
		Action: runBacktest,
	}
}

func runBacktest(c *cli.Context) error {
	start, err := time.Parse("2006-01-02", c.String("start-date"))
	if err != nil {
		return fmt.Errorf("invalid --start-date: %w", err)
	}
	end, err := time.Parse("2006-01-02", c.String("end-date"))
	if err != nil {
		return fmt.Errorf("invalid --end-date: %w", err)
	}

	if addr := c.String("metrics-addr"); addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", monitoring.Handler())
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Log.Warnf("metrics server stopped: %v", err)
			}
		}()
	}

	provider, err := newProvider(c)
	if err != nil {
		return err
	}

	ticker := c.String("ticker")
	series, err := provider.FetchDaily(c.Context, ticker, start, end)
	if err != nil {
		return err
	}

	requests, err := buildRequests(c)
	if err != nil {
		return err
	}

	logger.Log.Infof("running %d strategies over %d trading days of %s",
		len(requests), series.Len(), ticker)

	comparison := backtest.NewComparisonWithWorkers(strategy.DefaultRegistry(), c.Int("workers"))
	result, err := comparison.Run(c.Context, series, requests)
	if err != nil {
		return err
	}

	reporting.NewConsoleReporter().PrintComparison(result)

	if path := c.String("excel"); path != "" {
		if err := reporting.WriteComparisonReport(result, path); err != nil {
			return err
		}
		logger.Log.Infof("excel report written to %s", path)
	}
	return nil
}

// buildRequests maps CLI flags (or the config file's backtest section)
// to strategy requests.
func buildRequests(c *cli.Context) ([]backtest.StrategyRequest, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		if len(cfg.Backtest.Strategies) == 0 {
			return nil, fmt.Errorf("config %s has no backtest.strategies section", path)
		}
		requests := make([]backtest.StrategyRequest, 0, len(cfg.Backtest.Strategies))
		for _, s := range cfg.Backtest.Strategies {
			requests = append(requests, backtest.StrategyRequest{Name: s.Name, Overrides: s.Parameters})
		}
		return requests, nil
	}

	names := strings.Split(c.String("strategies"), ",")
	requests := make([]backtest.StrategyRequest, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		overrides := map[string]interface{}{}
		if strings.HasPrefix(name, "aavc") || name == "dca" {
			overrides["base_amount"] = c.Float64("amount")
		}
		if strings.HasPrefix(name, "aavc") {
			overrides["asymmetric_coefficient"] = c.Float64("asymmetric-coefficient")
			if c.IsSet("ref-price") {
				overrides["ref_price"] = c.Float64("ref-price")
			}
		}
		requests = append(requests, backtest.StrategyRequest{Name: name, Overrides: overrides})
	}
	return requests, nil
}

func strategiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "strategies",
		Usage: "List registered strategies and their parameters",
		Action: func(c *cli.Context) error {
			registry := strategy.DefaultRegistry()

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"Name", "Category", "Version", "Description", "Parameters"})

			for _, name := range registry.List() {
				meta, _ := registry.MetadataOf(name)
				params := make([]string, 0, len(meta.Parameters))
				for p := range meta.Parameters {
					params = append(params, p)
				}
				sort.Strings(params)
				t.AppendRow(table.Row{meta.Name, meta.Category, meta.Version, meta.Description, strings.Join(params, ", ")})
			}
			t.Render()
			return nil
		},
	}
}
