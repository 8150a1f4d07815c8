package rowtrack

import "context"

// Adapter interface defines methods for persisting row collections to
// different spreadsheet backends
type Adapter interface {
	// Load retrieves all rows and the column schema from the backend
	Load(ctx context.Context) ([]*Row, []string, error)

	// Save replaces all data in the backend with the provided rows
	Save(ctx context.Context, rows []*Row, schema []string) error

	// Apply performs the changes described by a ChangeSet in a single
	// request: inserts for Created, rewrites for Updated, removals for
	// Deleted
	Apply(ctx context.Context, changes ChangeSet) error
}
