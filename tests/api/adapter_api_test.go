package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	rowtrack "github.com/tablekit/go-rowtrack"
	"github.com/tablekit/go-rowtrack/adapters/excel"
	"github.com/tablekit/go-rowtrack/adapters/googlesheets"
	"github.com/tablekit/go-rowtrack/adapters/memory"
	"github.com/tablekit/go-rowtrack/tests/common"
)

// getTestAdapters returns one test case per configured backend. Memory
// and Excel are always available; Google Sheets only when credentials
// are provided via environment.
func getTestAdapters(t *testing.T) []common.AdapterTestCase {
	t.Helper()

	adapters := []common.AdapterTestCase{
		{
			Name:        "Memory",
			Adapter:     memory.New(),
			Description: "in-memory adapter",
		},
	}

	tempDir := t.TempDir()
	excelFile := filepath.Join(tempDir, "api_test.xlsx")
	excelAdapter, err := excel.New(&excel.Config{
		FilePath:  excelFile,
		SheetName: "rows",
	})
	if err != nil {
		t.Fatalf("Failed to create Excel adapter: %v", err)
	}
	adapters = append(adapters, common.AdapterTestCase{
		Name:        "Excel",
		Adapter:     excelAdapter,
		Description: fmt.Sprintf("Excel file: %s", excelFile),
	})

	spreadsheetID := os.Getenv("TEST_GOOGLE_SHEET_ID")
	if spreadsheetID != "" {
		ctx := context.Background()
		sheetsAdapter, err := googlesheets.NewWithJSONKeyFile(ctx, googlesheets.Config{
			SpreadsheetID: spreadsheetID,
			SheetName:     "api_test",
		}, os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		if err != nil {
			t.Logf("Skipping Google Sheets: %v", err)
		} else {
			adapters = append(adapters, common.AdapterTestCase{
				Name:        "GoogleSheets",
				Adapter:     sheetsAdapter,
				Description: fmt.Sprintf("spreadsheet: %s", spreadsheetID),
			})
		}
	}

	return adapters
}

func seedRows() []*rowtrack.Row {
	alice := rowtrack.NewRow(map[string]interface{}{"name": "Alice", "age": int64(30)})
	bob := rowtrack.NewRow(map[string]interface{}{"name": "Bob", "age": int64(25)})
	return []*rowtrack.Row{alice, bob}
}

func TestEditingSession_CommitRoundTrip(t *testing.T) {
	for _, tc := range getTestAdapters(t) {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := context.Background()

			seed := seedRows()
			common.SeedAdapter(t, tc.Adapter, seed, []string{"name", "age"})

			client := common.CreateTestClient(t, tc.Adapter)
			defer common.CleanupClient(t, client)

			rows, err := client.Rows()
			if err != nil {
				t.Fatalf("Rows() error = %v", err)
			}
			if len(rows) != 2 {
				t.Fatalf("loaded %d rows, want 2", len(rows))
			}

			// One edit gesture: create a row at the end, delete the
			// first existing row.
			created := rowtrack.NewRow(map[string]interface{}{"name": "Carol", "age": int64(40)})
			next := []*rowtrack.Row{rows[0], rows[1], created}
			adjusted, err := client.Notify(rows, next, []rowtrack.Operation{
				{Kind: rowtrack.OpCreate, From: 2, To: 3},
			})
			if err != nil {
				t.Fatalf("Notify() error = %v", err)
			}

			previous := adjusted
			next = []*rowtrack.Row{adjusted[1], adjusted[2]}
			adjusted, err = client.Notify(previous, next, []rowtrack.Operation{
				{Kind: rowtrack.OpDelete, From: 0, To: 1},
			})
			if err != nil {
				t.Fatalf("Notify() error = %v", err)
			}

			// Deleted row is still displayed until commit.
			if len(adjusted) != 3 {
				t.Fatalf("adjusted collection has %d rows, want 3", len(adjusted))
			}
			if kind := client.Classify(rows[0].ID); kind != rowtrack.ChangeDeleted {
				t.Errorf("Classify(deleted) = %v, want %v", kind, rowtrack.ChangeDeleted)
			}

			if err := client.Commit(ctx); err != nil {
				t.Fatalf("Commit() error = %v", err)
			}

			// The backend reflects the committed change set.
			stored, _, err := tc.Adapter.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(stored) != 2 {
				t.Fatalf("backend has %d rows after commit, want 2", len(stored))
			}

			byID := make(map[string]*rowtrack.Row)
			for _, r := range stored {
				byID[r.ID] = r
			}
			if byID[rows[0].ID] != nil {
				t.Error("deleted row still in backend")
			}
			if byID[created.ID] == nil {
				t.Error("created row missing from backend")
			}
		})
	}
}

func TestEditingSession_CancelRoundTrip(t *testing.T) {
	for _, tc := range getTestAdapters(t) {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := context.Background()

			seed := seedRows()
			common.SeedAdapter(t, tc.Adapter, seed, []string{"name", "age"})

			client := common.CreateTestClient(t, tc.Adapter)
			defer common.CleanupClient(t, client)

			rows, err := client.Rows()
			if err != nil {
				t.Fatalf("Rows() error = %v", err)
			}

			next := []*rowtrack.Row{rows[0]}
			if _, err := client.Notify(rows, next, []rowtrack.Operation{
				{Kind: rowtrack.OpDelete, From: 1, To: 2},
			}); err != nil {
				t.Fatalf("Notify() error = %v", err)
			}

			restored, err := client.Cancel()
			if err != nil {
				t.Fatalf("Cancel() error = %v", err)
			}
			if len(restored) != 2 {
				t.Fatalf("restored %d rows, want 2", len(restored))
			}
			if client.Dirty() {
				t.Error("Dirty() = true after cancel")
			}

			// The backend never saw the discarded edit.
			stored, _, err := tc.Adapter.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(stored) != 2 {
				t.Errorf("backend has %d rows after cancel, want 2", len(stored))
			}
		})
	}
}

func TestEditingSession_UpdateCommit(t *testing.T) {
	for _, tc := range getTestAdapters(t) {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := context.Background()

			seed := seedRows()
			common.SeedAdapter(t, tc.Adapter, seed, []string{"name", "age"})

			client := common.CreateTestClient(t, tc.Adapter)
			defer common.CleanupClient(t, client)

			rows, err := client.Rows()
			if err != nil {
				t.Fatalf("Rows() error = %v", err)
			}

			edited := rows[0].Clone()
			edited.SetInt64("age", 31)
			next := []*rowtrack.Row{edited, rows[1]}
			if _, err := client.Notify(rows, next, []rowtrack.Operation{
				{Kind: rowtrack.OpUpdate, From: 0, To: 1},
			}); err != nil {
				t.Fatalf("Notify() error = %v", err)
			}

			if err := client.Commit(ctx); err != nil {
				t.Fatalf("Commit() error = %v", err)
			}

			stored, _, err := tc.Adapter.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			var found *rowtrack.Row
			for _, r := range stored {
				if r.ID == edited.ID {
					found = r
				}
			}
			if found == nil {
				t.Fatal("updated row missing from backend")
			}
			if got := found.GetAsInt64("age", 0); got != 31 {
				t.Errorf("age = %d after commit, want 31", got)
			}
		})
	}
}
