package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	rowtrack "github.com/tablekit/go-rowtrack"
)

// idColumn is the header of the column holding row identities. It is
// always written as the first column of the sheet.
const idColumn = "_id"

// Adapter implements the rowtrack.Adapter interface for Excel files
type Adapter struct {
	config *Config
	mu     sync.RWMutex
}

// New creates a new Excel adapter with the given configuration
func New(config *Config) (*Adapter, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create a copy of config to avoid external modifications
	configCopy := *config

	return &Adapter{
		config: &configCopy,
	}, nil
}

// Load retrieves all rows and the column schema from the Excel file.
// Sheets written by other tools may lack the identity column; such rows
// get a freshly generated identity on load.
func (a *Adapter) Load(ctx context.Context) ([]*rowtrack.Row, []string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	default:
	}

	f, err := excelize.OpenFile(a.config.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return empty data
			return []*rowtrack.Row{}, []string{}, nil
		}
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetIndex, err := f.GetSheetIndex(a.config.SheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sheet index: %w", err)
	}
	if sheetIndex == -1 {
		// Sheet doesn't exist, return empty data
		return []*rowtrack.Row{}, []string{}, nil
	}

	cells, err := f.GetRows(a.config.SheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get rows: %w", err)
	}

	if len(cells) == 0 {
		return []*rowtrack.Row{}, []string{}, nil
	}

	header := cells[0]
	hasID := len(header) > 0 && header[0] == idColumn

	schema := make([]string, 0, len(header))
	start := 0
	if hasID {
		start = 1
	}
	for _, col := range header[start:] {
		if col != "" {
			schema = append(schema, col)
		}
	}

	rows := make([]*rowtrack.Row, 0, len(cells)-1)
	for i := 1; i < len(cells); i++ {
		line := cells[i]
		if len(line) == 0 {
			continue // Skip empty rows
		}

		row := &rowtrack.Row{
			Values: make(map[string]interface{}),
		}

		if hasID && len(line) > 0 {
			row.ID = line[0]
		}
		if row.ID == "" {
			row.ID = uuid.NewString()
		}

		for j, value := range line[start:] {
			if j < len(schema) && schema[j] != "" && value != "" {
				row.Values[schema[j]] = parseCellValue(value)
			}
		}

		rows = append(rows, row)
	}

	return rows, schema, nil
}

// parseCellValue converts a cell string to the narrowest Go type
func parseCellValue(value string) interface{} {
	if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
		if intVal := int64(floatVal); float64(intVal) == floatVal {
			return intVal
		}
		return floatVal
	}
	if value == "true" || value == "TRUE" {
		return true
	}
	if value == "false" || value == "FALSE" {
		return false
	}
	return value
}

// Save replaces all data in the Excel file with the provided rows
func (a *Adapter) Save(ctx context.Context, rows []*rowtrack.Row, schema []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(a.config.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(a.config.SheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if defaultSheet := f.GetSheetName(0); defaultSheet != a.config.SheetName {
		_ = f.DeleteSheet(defaultSheet) // Ignore error - not critical
	}

	// Header row: identity column first, then the schema
	header := make([]interface{}, 0, len(schema)+1)
	header = append(header, idColumn)
	for _, col := range schema {
		header = append(header, col)
	}
	if err := f.SetSheetRow(a.config.SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		line := make([]interface{}, 0, len(schema)+1)
		line = append(line, row.ID)
		for _, col := range schema {
			if val, ok := row.Values[col]; ok {
				line = append(line, val)
			} else {
				line = append(line, "")
			}
		}

		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(a.config.SheetName, cell, &line); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(a.config.FilePath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

// Apply performs the changes described by a ChangeSet. Excel has no
// partial update API, so the file is loaded, patched in memory and
// written back whole.
func (a *Adapter) Apply(ctx context.Context, changes rowtrack.ChangeSet) error {
	rows, schema, err := a.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load data for apply: %w", err)
	}

	index := make(map[string]int, len(rows))
	for i, r := range rows {
		index[r.ID] = i
	}

	for _, r := range changes.Created {
		if _, exists := index[r.ID]; exists {
			return fmt.Errorf("cannot create row with duplicate id %s", r.ID)
		}
		rows = append(rows, r)
		index[r.ID] = len(rows) - 1
		schema = mergeColumns(schema, r)
	}

	for _, r := range changes.Updated {
		i, exists := index[r.ID]
		if !exists {
			return fmt.Errorf("cannot update row %s: %w", r.ID, rowtrack.ErrRowNotFound)
		}
		rows[i] = r
		schema = mergeColumns(schema, r)
	}

	if len(changes.Deleted) > 0 {
		doomed := make(map[string]bool, len(changes.Deleted))
		for _, r := range changes.Deleted {
			doomed[r.ID] = true
		}

		kept := make([]*rowtrack.Row, 0, len(rows))
		for _, r := range rows {
			if !doomed[r.ID] {
				kept = append(kept, r)
			}
		}
		rows = kept
	}

	return a.Save(ctx, rows, schema)
}

// mergeColumns appends columns of the row that the schema does not have
// yet, preserving the existing order
func mergeColumns(schema []string, row *rowtrack.Row) []string {
	existing := make(map[string]bool, len(schema))
	for _, col := range schema {
		existing[col] = true
	}

	for col := range row.Values {
		if !existing[col] {
			schema = append(schema, col)
		}
	}
	return schema
}
