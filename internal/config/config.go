package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultSettings are fallbacks merged under every stock entry.
type DefaultSettings struct {
	BaseAmount            float64 `yaml:"base_amount"`
	AsymmetricCoefficient float64 `yaml:"asymmetric_coefficient"`
	Strategy              string  `yaml:"strategy"`
}

// StockConfig configures one ticker for the calc command.
type StockConfig struct {
	Ticker                string  `yaml:"ticker"`
	ReferencePrice        float64 `yaml:"reference_price"`
	BaseAmount            float64 `yaml:"base_amount"`
	AsymmetricCoefficient float64 `yaml:"asymmetric_coefficient"`
	Strategy              string  `yaml:"strategy"`
}

// StrategyConfig names one strategy for the backtest command together
// with its flat parameter override map.
type StrategyConfig struct {
	Name       string                 `yaml:"name"`
	Parameters map[string]interface{} `yaml:"parameters"`
}

// BacktestSettings configures a comparison run.
type BacktestSettings struct {
	Strategies []StrategyConfig `yaml:"strategies"`
}

// Config is the YAML configuration file shape.
type Config struct {
	DefaultSettings DefaultSettings  `yaml:"default_settings"`
	Stocks          []StockConfig    `yaml:"stocks"`
	Backtest        BacktestSettings `yaml:"backtest"`
}

// Load reads and parses the YAML configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found at %q", path)
		}
		return nil, fmt.Errorf("reading configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration file %q: %w", path, err)
	}
	return &cfg, nil
}

// CalcJob is one resolved calculation request: a stock entry with the
// default settings merged in.
type CalcJob struct {
	Ticker                string
	BaseAmount            float64
	ReferencePrice        float64 // 0 means "use oldest price in history"
	AsymmetricCoefficient float64
	Strategy              string
}

// CalculationJobs merges default_settings under each stock entry.
func (c *Config) CalculationJobs() []CalcJob {
	jobs := make([]CalcJob, 0, len(c.Stocks))
	for _, stock := range c.Stocks {
		job := CalcJob{
			Ticker:                stock.Ticker,
			BaseAmount:            stock.BaseAmount,
			ReferencePrice:        stock.ReferencePrice,
			AsymmetricCoefficient: stock.AsymmetricCoefficient,
			Strategy:              stock.Strategy,
		}
		if job.BaseAmount == 0 {
			job.BaseAmount = c.DefaultSettings.BaseAmount
		}
		if job.AsymmetricCoefficient == 0 {
			job.AsymmetricCoefficient = c.DefaultSettings.AsymmetricCoefficient
		}
		if job.Strategy == "" {
			job.Strategy = c.DefaultSettings.Strategy
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// GetEnv returns the environment variable or a default.
func GetEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// GetEnvFloat returns the environment variable parsed as a float64.
func GetEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
