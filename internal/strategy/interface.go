package strategy

import (
	"time"
)

// ParamSpec declares one strategy parameter: its type ("float", "int" or
// "string"), default value and human-readable description.
type ParamSpec struct {
	Type        string
	Default     interface{}
	Description string
}

// Metadata is the declarative description a strategy publishes about
// itself. Immutable once constructed; owned by its strategy.
type Metadata struct {
	Name        string
	Description string
	Version     string
	Author      string
	Category    string
	Parameters  map[string]ParamSpec
}

// Strategy is the contract every investment algorithm satisfies.
//
// ComputeInvestment must be deterministic and pure with respect to its
// inputs: it may inspect any prefix of history up to and including the
// current day, never future data. Path-dependent reference-price
// policies recompute their state from the prefix on every call instead
// of caching it between days.
type Strategy interface {
	// Metadata returns the declarative schema (name, defaults, category).
	Metadata() Metadata

	// Validate reports whether the resolved parameter set is usable.
	// Unexpected extra keys are ignored, never a failure.
	Validate(params Parameters) bool

	// ComputeInvestment returns the amount to invest on the current day.
	// priceHistory and dateHistory are the series prefix ending at the
	// current day; both are read-only. An empty priceHistory or a
	// negative must-be-positive parameter is an error, not a silent zero.
	ComputeInvestment(currentPrice float64, priceHistory []float64, dateHistory []time.Time, params Parameters) (float64, error)
}

// Investment frequencies understood by the periodic strategies.
const (
	FrequencyDaily   = "daily"
	FrequencyMonthly = "monthly"
)

// investsToday applies the investment-frequency gate: daily always
// invests, monthly only on the first trading day of each month.
func investsToday(dateHistory []time.Time, frequency string) bool {
	if len(dateHistory) == 0 {
		return false
	}
	if frequency != FrequencyMonthly {
		return true
	}
	if len(dateHistory) == 1 {
		return true
	}
	current := dateHistory[len(dateHistory)-1]
	previous := dateHistory[len(dateHistory)-2]
	return current.Month() != previous.Month() || current.Year() != previous.Year()
}

func validFrequency(frequency string) bool {
	return frequency == FrequencyDaily || frequency == FrequencyMonthly
}
