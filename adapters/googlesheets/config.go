package googlesheets

import (
	"time"

	rowtrack "github.com/tablekit/go-rowtrack"
)

// Config represents configuration specific to Google Sheets adapter
type Config struct {
	SpreadsheetID string
	SheetName     string
}

// DefaultClientConfig returns the recommended default configuration for
// committing to Google Sheets
func DefaultClientConfig() *rowtrack.Config {
	return &rowtrack.Config{
		MaxRetries:    3,
		RetryInterval: 20 * time.Second,
	}
}
