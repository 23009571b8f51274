package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory classifies failures surfaced by a comparison run.
type ErrorCategory string

const (
	// ErrorCategoryUnknownStrategy means a requested name is not in the registry.
	ErrorCategoryUnknownStrategy ErrorCategory = "UNKNOWN_STRATEGY"
	// ErrorCategoryInvalidParameters means schema validation rejected a parameter set.
	ErrorCategoryInvalidParameters ErrorCategory = "INVALID_PARAMETERS"
	// ErrorCategoryEmptySeries means a zero-length price history was supplied.
	ErrorCategoryEmptySeries ErrorCategory = "EMPTY_SERIES"
	// ErrorCategoryDataUnavailable wraps errors from the price-data collaborator verbatim.
	ErrorCategoryDataUnavailable ErrorCategory = "DATA_UNAVAILABLE"
)

// BacktestError is a categorized error with the strategy it concerns.
// The comparison call is fail-fast: one BacktestError aborts the whole
// run, so callers never see partial comparison objects.
type BacktestError struct {
	Category   ErrorCategory
	Strategy   string
	Message    string
	Underlying error
}

func (e *BacktestError) Error() string {
	prefix := string(e.Category)
	if e.Strategy != "" {
		prefix = fmt.Sprintf("%s:%s", e.Category, e.Strategy)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("[%s] %s: %v", prefix, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s] %s", prefix, e.Message)
}

func (e *BacktestError) Unwrap() error {
	return e.Underlying
}

// NewUnknownStrategy reports a request naming a strategy absent from the registry.
func NewUnknownStrategy(name string) *BacktestError {
	return &BacktestError{
		Category: ErrorCategoryUnknownStrategy,
		Strategy: name,
		Message:  "strategy is not registered",
	}
}

// NewInvalidParameters reports a parameter set rejected before the run started.
func NewInvalidParameters(strategy, message string) *BacktestError {
	return &BacktestError{
		Category: ErrorCategoryInvalidParameters,
		Strategy: strategy,
		Message:  message,
	}
}

// NewEmptySeries reports a zero-length price history.
func NewEmptySeries(symbol string) *BacktestError {
	return &BacktestError{
		Category: ErrorCategoryEmptySeries,
		Message:  fmt.Sprintf("price series %q has no data points", symbol),
	}
}

// NewDataUnavailable wraps a price-data collaborator failure without reinterpreting it.
func NewDataUnavailable(symbol string, underlying error) *BacktestError {
	return &BacktestError{
		Category:   ErrorCategoryDataUnavailable,
		Message:    fmt.Sprintf("price data for %q unavailable", symbol),
		Underlying: underlying,
	}
}

// IsCategory reports whether err (or anything it wraps) is a BacktestError
// of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var be *BacktestError
	if stderrors.As(err, &be) {
		return be.Category == category
	}
	return false
}
