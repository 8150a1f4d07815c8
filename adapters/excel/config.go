package excel

import (
	"time"

	rowtrack "github.com/tablekit/go-rowtrack"
)

// Config holds configuration for Excel adapter
type Config struct {
	FilePath  string // Path to the Excel file
	SheetName string // Name of the sheet to use
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return ErrMissingFilePath
	}
	if c.SheetName == "" {
		return ErrMissingSheetName
	}
	return nil
}

// DefaultClientConfig returns the recommended default configuration for
// committing to Excel files
func DefaultClientConfig() *rowtrack.Config {
	return &rowtrack.Config{
		MaxRetries:    3,
		RetryInterval: 1 * time.Second,
	}
}
