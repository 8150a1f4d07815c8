package main

import (
	"context"
	"fmt"
	"log"

	rowtrack "github.com/tablekit/go-rowtrack"
	"github.com/tablekit/go-rowtrack/adapters/excel"
)

func main() {
	// Excel adapter configuration
	adapterConfig := &excel.Config{
		FilePath:  "./example_data.xlsx",
		SheetName: "users",
	}

	// Create Excel adapter (no authentication required)
	adapter, err := excel.New(adapterConfig)
	if err != nil {
		log.Fatalf("Failed to create Excel adapter: %v", err)
	}

	// Seed the workbook with an initial collection.
	ctx := context.Background()
	seed := []*rowtrack.Row{
		rowtrack.NewRow(map[string]interface{}{
			"name":       "Alice Johnson",
			"email":      "alice@example.com",
			"age":        int64(30),
			"department": "Engineering",
		}),
		rowtrack.NewRow(map[string]interface{}{
			"name":       "Bob Smith",
			"email":      "bob@example.com",
			"age":        int64(25),
			"department": "Marketing",
		}),
	}
	schema := []string{"name", "email", "age", "department"}
	if err := adapter.Save(ctx, seed, schema); err != nil {
		log.Fatalf("Failed to seed workbook: %v", err)
	}

	// Create tracking client using recommended defaults for Excel
	client := rowtrack.New(adapter, excel.DefaultClientConfig())
	if err := client.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize client: %v", err)
	}
	defer client.Close()

	rows, err := client.Rows()
	if err != nil {
		log.Fatalf("Failed to get rows: %v", err)
	}

	// The user edits Bob's row and duplicates Alice's. Duplicating
	// always assigns a fresh identity.
	editedBob := rows[1].Clone()
	editedBob.SetString("department", "Engineering")
	aliceCopy := rows[0].Duplicate()
	aliceCopy.SetString("name", "Alice Johnson (copy)")

	next := []*rowtrack.Row{rows[0], editedBob, aliceCopy}
	displayed, err := client.Notify(rows, next, []rowtrack.Operation{
		{Kind: rowtrack.OpUpdate, From: 1, To: 2},
		{Kind: rowtrack.OpCreate, From: 2, To: 3},
	})
	if err != nil {
		log.Fatalf("Failed to track edit: %v", err)
	}

	fmt.Println("Pending changes:")
	for _, row := range displayed {
		if kind := client.Classify(row.ID); kind != rowtrack.ChangeNone {
			fmt.Printf("  %-8s %s\n", kind, row.GetAsString("name", "(unnamed)"))
		}
	}

	// Filter the working collection for styling or summaries.
	engineers, err := client.Query(rowtrack.Query{
		Conditions: []rowtrack.Condition{
			{Column: "department", Operator: "==", Value: "Engineering"},
		},
	})
	if err != nil {
		log.Fatalf("Failed to query: %v", err)
	}
	fmt.Printf("%d engineering rows in the working collection\n", len(engineers))

	// "Save" button: write the change set back to the workbook.
	if err := client.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}
	fmt.Println("Committed to", adapterConfig.FilePath)
}
