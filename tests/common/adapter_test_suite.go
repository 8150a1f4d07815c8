package common

import (
	"context"
	"testing"

	rowtrack "github.com/tablekit/go-rowtrack"
)

// AdapterTestCase represents a test case for an adapter
type AdapterTestCase struct {
	Name        string
	Adapter     rowtrack.Adapter
	Description string
}

// CreateTestClient creates an initialized tracking client for the given
// adapter
func CreateTestClient(t *testing.T, adapter rowtrack.Adapter) *rowtrack.Client {
	t.Helper()

	client := rowtrack.New(adapter, &rowtrack.Config{
		MaxRetries: 3,
	})

	if err := client.Initialize(context.Background()); err != nil {
		t.Fatalf("Failed to initialize client: %v", err)
	}

	return client
}

// CleanupClient properly closes the client
func CleanupClient(t *testing.T, client *rowtrack.Client) {
	t.Helper()

	if err := client.Close(); err != nil {
		t.Errorf("Failed to close client: %v", err)
	}
}

// SeedAdapter writes an initial collection into the adapter
func SeedAdapter(t *testing.T, adapter rowtrack.Adapter, rows []*rowtrack.Row, schema []string) {
	t.Helper()

	if err := adapter.Save(context.Background(), rows, schema); err != nil {
		t.Fatalf("Failed to seed adapter: %v", err)
	}
}
