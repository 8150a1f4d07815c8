package main

import (
	"context"
	"fmt"
	"log"

	rowtrack "github.com/tablekit/go-rowtrack"
	"github.com/tablekit/go-rowtrack/adapters/googlesheets"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	// Create adapter configuration
	adapterConfig := googlesheets.Config{
		SpreadsheetID: "your-spreadsheet-id",
		SheetName:     "members",
	}

	// Initialize Google Sheets adapter with JSON key file
	adapter, err := googlesheets.NewWithJSONKeyFile(ctx, adapterConfig, "./service-account.json")
	if err != nil {
		return fmt.Errorf("failed to create adapter: %w", err)
	}

	// Create tracking client using recommended defaults for Google Sheets
	client := rowtrack.New(adapter, googlesheets.DefaultClientConfig())
	if err = client.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize client: %w", err)
	}
	defer client.Close()

	rows, err := client.Rows()
	if err != nil {
		return fmt.Errorf("failed to get rows: %w", err)
	}
	fmt.Printf("loaded %d rows\n", len(rows))

	// The grid widget reports one edit gesture: the user added a row
	// at the end and deleted the first one.
	created := rowtrack.NewRow(map[string]interface{}{
		"name":  "John Doe",
		"email": "john@example.com",
		"age":   int64(30),
	})

	next := append(append([]*rowtrack.Row{}, rows...), created)
	displayed, err := client.Notify(rows, next, []rowtrack.Operation{
		{Kind: rowtrack.OpCreate, From: len(rows), To: len(rows) + 1},
	})
	if err != nil {
		return fmt.Errorf("failed to track create: %w", err)
	}

	if len(displayed) > 1 {
		previous := displayed
		next = displayed[1:]
		displayed, err = client.Notify(previous, next, []rowtrack.Operation{
			{Kind: rowtrack.OpDelete, From: 0, To: 1},
		})
		if err != nil {
			return fmt.Errorf("failed to track delete: %w", err)
		}
	}

	// The presentation layer styles each row by its classification.
	for _, row := range displayed {
		fmt.Printf("%-40s %-8s %s\n",
			row.ID, client.Classify(row.ID), row.GetAsString("name", "(unnamed)"))
	}

	// Bound to the "Save" button: push the pending change set to the
	// spreadsheet and start a clean session.
	if err := client.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	fmt.Println("committed")

	return nil
}
