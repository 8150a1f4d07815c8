package memory

import (
	"context"
	"fmt"
	"sync"

	rowtrack "github.com/tablekit/go-rowtrack"
)

// Adapter implements the rowtrack.Adapter interface on an in-memory
// row slice. It is intended for tests and examples, and as a reference
// for the Apply contract real backends implement.
type Adapter struct {
	mu     sync.Mutex
	rows   []*rowtrack.Row
	schema []string
}

// New creates an empty in-memory adapter
func New() *Adapter {
	return &Adapter{}
}

// Seed replaces the stored rows and schema, bypassing the Adapter
// interface. Useful to arrange test fixtures.
func (a *Adapter) Seed(rows []*rowtrack.Row, schema []string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rows = cloneRows(rows)
	a.schema = append([]string(nil), schema...)
}

// Load retrieves all rows and the column schema
func (a *Adapter) Load(ctx context.Context) ([]*rowtrack.Row, []string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	default:
	}

	return cloneRows(a.rows), append([]string(nil), a.schema...), nil
}

// Save replaces all stored data with the provided rows
func (a *Adapter) Save(ctx context.Context, rows []*rowtrack.Row, schema []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	a.rows = cloneRows(rows)
	a.schema = append([]string(nil), schema...)
	return nil
}

// Apply performs the changes described by a ChangeSet: appends for
// Created, in-place rewrites for Updated, removals for Deleted
func (a *Adapter) Apply(ctx context.Context, changes rowtrack.ChangeSet) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	index := make(map[string]int, len(a.rows))
	for i, r := range a.rows {
		index[r.ID] = i
	}

	for _, r := range changes.Created {
		if _, exists := index[r.ID]; exists {
			return fmt.Errorf("cannot create row with duplicate id %s", r.ID)
		}
		a.rows = append(a.rows, r.Clone())
		index[r.ID] = len(a.rows) - 1
	}

	for _, r := range changes.Updated {
		i, exists := index[r.ID]
		if !exists {
			return fmt.Errorf("cannot update row %s: %w", r.ID, rowtrack.ErrRowNotFound)
		}
		a.rows[i] = r.Clone()
	}

	if len(changes.Deleted) > 0 {
		doomed := make(map[string]bool, len(changes.Deleted))
		for _, r := range changes.Deleted {
			doomed[r.ID] = true
		}

		kept := a.rows[:0]
		for _, r := range a.rows {
			if !doomed[r.ID] {
				kept = append(kept, r)
			}
		}
		a.rows = kept
	}

	return nil
}

func cloneRows(rows []*rowtrack.Row) []*rowtrack.Row {
	out := make([]*rowtrack.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
