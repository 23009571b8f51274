package reporting

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// LogEntry is one row of the investment log. The column set and order
// are a fixed contract other tooling depends on; do not reorder.
type LogEntry struct {
	Date                 string  `csv:"date"`
	Ticker               string  `csv:"ticker"`
	BaseAmount           float64 `csv:"base_amount"`
	ReferencePrice       float64 `csv:"reference_price"`
	CalculatedInvestment float64 `csv:"calculated_investment"`
}

// RecordInvestment appends one computed investment decision to the log
// file, writing the header only when the file is first created.
func RecordInvestment(entry LogEntry, path string) error {
	_, statErr := os.Stat(path)
	exists := statErr == nil

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening investment log %s: %w", path, err)
	}
	defer file.Close()

	rows := []*LogEntry{&entry}
	if exists {
		err = gocsv.MarshalWithoutHeaders(&rows, file)
	} else {
		err = gocsv.MarshalFile(&rows, file)
	}
	if err != nil {
		return fmt.Errorf("writing investment log %s: %w", path, err)
	}
	return nil
}
