package googlesheets

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	rowtrack "github.com/tablekit/go-rowtrack"
)

// idColumn is the header of the column holding row identities, always
// column A of the sheet.
const idColumn = "_id"

// SheetsAdapter implements the rowtrack.Adapter interface for Google
// Sheets
type SheetsAdapter struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsAdapter creates a new Google Sheets adapter with provided
// options
func NewSheetsAdapter(ctx context.Context, config Config, opts ...option.ClientOption) (*SheetsAdapter, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsAdapter{
		service:       service,
		spreadsheetID: config.SpreadsheetID,
		sheetName:     config.SheetName,
	}, nil
}

// Load retrieves all rows and the column schema from the spreadsheet
func (a *SheetsAdapter) Load(ctx context.Context) ([]*rowtrack.Row, []string, error) {
	readRange := fmt.Sprintf("%s!A:ZZ", a.sheetName)
	resp, err := a.service.Spreadsheets.Values.Get(a.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sheet data: %w", err)
	}

	if len(resp.Values) == 0 {
		return []*rowtrack.Row{}, []string{}, nil
	}

	header := resp.Values[0]
	hasID := len(header) > 0 && header[0] == idColumn

	start := 0
	if hasID {
		start = 1
	}

	schema := make([]string, 0, len(header))
	for i := start; i < len(header); i++ {
		if col, ok := header[i].(string); ok && col != "" {
			schema = append(schema, col)
		}
	}

	rows := make([]*rowtrack.Row, 0, len(resp.Values)-1)
	for i := 1; i < len(resp.Values); i++ {
		line := resp.Values[i]
		if len(line) == 0 {
			continue
		}

		row := &rowtrack.Row{
			Values: make(map[string]interface{}),
		}

		if hasID && len(line) > 0 {
			if id, ok := line[0].(string); ok {
				row.ID = id
			}
		}
		if row.ID == "" {
			row.ID = uuid.NewString()
		}

		for j := start; j < len(line) && j-start < len(schema); j++ {
			colName := schema[j-start]
			if colName != "" && line[j] != nil && line[j] != "" {
				row.Values[colName] = convertCellValue(line[j])
			}
		}

		rows = append(rows, row)
	}

	return rows, schema, nil
}

// Save replaces all data in the spreadsheet with the provided rows
func (a *SheetsAdapter) Save(ctx context.Context, rows []*rowtrack.Row, schema []string) error {
	values := make([][]interface{}, 0, len(rows)+1)

	// Header row: identity column first, then the schema
	header := make([]interface{}, 0, len(schema)+1)
	header = append(header, idColumn)
	for _, col := range schema {
		header = append(header, col)
	}
	values = append(values, header)

	for _, row := range rows {
		line := make([]interface{}, 0, len(schema)+1)
		line = append(line, row.ID)
		for _, col := range schema {
			if val, ok := row.Values[col]; ok {
				line = append(line, convertToSheetValue(val))
			} else {
				line = append(line, "")
			}
		}
		values = append(values, line)
	}

	// Clear the entire sheet first
	clearRange := fmt.Sprintf("%s!A:ZZ", a.sheetName)
	_, err := a.service.Spreadsheets.Values.Clear(a.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	// Write all data
	writeRange := fmt.Sprintf("%s!A1", a.sheetName)
	vr := &sheets.ValueRange{
		Values: values,
	}
	_, err = a.service.Spreadsheets.Values.Update(a.spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update sheet: %w", err)
	}

	return nil
}

// Apply performs the changes described by a ChangeSet. The values API
// has no keyed update, so the sheet is loaded, patched in memory and
// rewritten in one clear+update round trip.
func (a *SheetsAdapter) Apply(ctx context.Context, changes rowtrack.ChangeSet) error {
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

// convertCellValue converts a Google Sheets cell value to Go type
func convertCellValue(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		// Try to parse as number
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
		// Try to parse as bool
		if val == "true" || val == "TRUE" {
			return true
		}
		if val == "false" || val == "FALSE" {
			return false
		}
		return val
	case float64:
		// Check if it's actually an integer
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	case bool:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// convertToSheetValue converts a Go value to Google Sheets cell value
func convertToSheetValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return fmt.Sprintf("%g", val)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", val)
	}
}
