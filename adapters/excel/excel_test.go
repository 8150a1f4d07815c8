package excel_test

import (
	"context"
	"path/filepath"
	"testing"

	rowtrack "github.com/tablekit/go-rowtrack"
	"github.com/tablekit/go-rowtrack/adapters/excel"
)

func newTestAdapter(t *testing.T) *excel.Adapter {
	t.Helper()

	config := &excel.Config{
		FilePath:  filepath.Join(t.TempDir(), "test.xlsx"),
		SheetName: "rows",
	}
	adapter, err := excel.New(config)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return adapter
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config *excel.Config
	}{
		{"nil config", nil},
		{"missing file path", &excel.Config{SheetName: "rows"}},
		{"missing sheet name", &excel.Config{FilePath: "test.xlsx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := excel.New(tt.config); err == nil {
				t.Error("New() succeeded with invalid config")
			}
		})
	}
}

func TestAdapter_LoadMissingFile(t *testing.T) {
	adapter := newTestAdapter(t)

	rows, schema, err := adapter.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(rows) != 0 || len(schema) != 0 {
		t.Errorf("Load() on missing file = %d rows, %d columns, want empty", len(rows), len(schema))
	}
}

func TestAdapter_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	saved := []*rowtrack.Row{
		{ID: "a", Values: map[string]interface{}{"name": "John", "age": int64(30), "active": true}},
		{ID: "b", Values: map[string]interface{}{"name": "Jane", "age": int64(25), "active": false}},
	}
	if err := adapter.Save(ctx, saved, []string{"name", "age", "active"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rows, schema, err := adapter.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(schema) != 3 {
		t.Fatalf("Load() schema = %v, want 3 columns", schema)
	}
	if len(rows) != 2 {
		t.Fatalf("Load() = %d rows, want 2", len(rows))
	}

	if rows[0].ID != "a" || rows[1].ID != "b" {
		t.Errorf("identities = %s, %s, want a, b", rows[0].ID, rows[1].ID)
	}
	if rows[0].GetAsString("name", "") != "John" {
		t.Errorf("name = %v, want John", rows[0].Values["name"])
	}
	if rows[0].GetAsInt64("age", 0) != 30 {
		t.Errorf("age = %v, want 30", rows[0].Values["age"])
	}
	if !rows[0].GetAsBool("active", false) {
		t.Errorf("active = %v, want true", rows[0].Values["active"])
	}
}

func TestAdapter_Apply(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	if err := adapter.Save(ctx, []*rowtrack.Row{
		{ID: "a", Values: map[string]interface{}{"name": "John"}},
		{ID: "b", Values: map[string]interface{}{"name": "Jane"}},
	}, []string{"name"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	changes := rowtrack.ChangeSet{
		Created: []*rowtrack.Row{{ID: "c", Values: map[string]interface{}{"name": "Bob"}}},
		Updated: []*rowtrack.Row{{ID: "a", Values: map[string]interface{}{"name": "Johnny"}}},
		Deleted: []*rowtrack.Row{{ID: "b", Values: map[string]interface{}{}}},
	}
	if err := adapter.Apply(ctx, changes); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	rows, _, err := adapter.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	byID := make(map[string]*rowtrack.Row)
	for _, r := range rows {
		byID[r.ID] = r
	}

	if len(rows) != 2 {
		t.Fatalf("Load() = %d rows, want 2", len(rows))
	}
	if byID["b"] != nil {
		t.Error("deleted row b still present")
	}
	if byID["a"] == nil || byID["a"].GetAsString("name", "") != "Johnny" {
		t.Error("updated row a missing or wrong")
	}
	if byID["c"] == nil || byID["c"].GetAsString("name", "") != "Bob" {
		t.Error("created row c missing or wrong")
	}
}

func TestAdapter_ContextCancelled(t *testing.T) {
	adapter := newTestAdapter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := adapter.Load(ctx); err == nil {
		t.Error("Load() with cancelled context succeeded")
	}
	if err := adapter.Save(ctx, nil, nil); err == nil {
		t.Error("Save() with cancelled context succeeded")
	}
}
