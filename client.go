package rowtrack

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Client wires a tracking session to a durability backend. It owns the
// serialization the tracker itself does not provide: widget
// notifications, commit and cancel all go through one mutex, so two
// near-simultaneous edit events can never interleave inside a batch.
type Client struct {
	config  Config
	session *Session
	adapter Adapter
	schema  []string
	mu      sync.Mutex
	closed  bool
}

// New creates a new tracking client with the given adapter and
// configuration
func New(adapter Adapter, config *Config) *Client {
	// Use default config if not provided
	if config == nil {
		config = &Config{
			MaxRetries:    3,
			RetryInterval: 1 * time.Second,
		}
	}

	// Set defaults for zero values
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = 1 * time.Second
	}

	return &Client{
		config:  *config,
		session: NewSession(nil),
		adapter: adapter,
	}
}

// Initialize loads the initial row collection from the adapter and
// starts a clean session over it
func (c *Client) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("client is closed")
	}

	var rows []*Row
	var schema []string
	var err error

	for i := 0; i <= c.config.MaxRetries; i++ {
		rows, schema, err = c.adapter.Load(ctx)
		if err == nil {
			break
		}

		if i < c.config.MaxRetries {
			time.Sleep(c.backoff(i))
		}
	}

	if err != nil {
		return fmt.Errorf("failed after %d retries: %w", c.config.MaxRetries, err)
	}

	c.schema = schema
	c.session.Load(rows)
	return nil
}

// backoff returns a capped exponential backoff for the i-th retry
func (c *Client) backoff(i int) time.Duration {
	d := time.Duration(1<<uint(i)) * 100 * time.Millisecond
	if d > 2*time.Second {
		d = 2 * time.Second
	}
	return d
}

// Notify feeds one widget change notification into the session and
// returns the adjusted collection the widget should display. Callers
// deliver one edit gesture per call; the client serializes them.
func (c *Client) Notify(previous, next []*Row, ops []Operation) ([]*Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("client is closed")
	}

	return c.session.ApplyOperations(previous, next, ops)
}

// Classify reports the pending change kind for a row identity
func (c *Client) Classify(id string) ChangeKind {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.Classify(id)
}

// Rows returns the current working collection
func (c *Client) Rows() ([]*Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("client is closed")
	}

	return c.session.Rows(), nil
}

// Dirty reports whether there are uncommitted changes
func (c *Client) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.Dirty()
}

// Changes returns the pending change set without committing it
func (c *Client) Changes() (ChangeSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ChangeSet{}, fmt.Errorf("client is closed")
	}

	return c.session.ChangeSet(), nil
}

// Query searches the working collection for rows matching the given
// conditions
func (c *Client) Query(query Query) ([]*Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("client is closed")
	}

	if err := ValidateQuery(query); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	return ApplyQuery(c.session.Rows(), query), nil
}

// Commit pushes the pending change set to the adapter and, only when
// the backend accepted it, finalizes the session commit. On failure the
// session stays dirty, so the user can retry or cancel. Committing a
// clean client is a no-op.
func (c *Client) Commit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("client is closed")
	}

	changes := c.session.ChangeSet()
	if changes.IsEmpty() {
		return nil
	}

	var err error
	for i := 0; i <= c.config.MaxRetries; i++ {
		err = c.adapter.Apply(ctx, changes)
		if err == nil {
			c.session.Commit()
			return nil
		}

		if i < c.config.MaxRetries {
			time.Sleep(c.backoff(i))
		}
	}

	return fmt.Errorf("%w after %d retries: %v", ErrApplyFailed, c.config.MaxRetries, err)
}

// Cancel discards all pending changes and returns the restored
// collection
func (c *Client) Cancel() ([]*Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("client is closed")
	}

	return c.session.Cancel(), nil
}

// Schema returns the column names loaded from the backend
func (c *Client) Schema() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	schema := make([]string, len(c.schema))
	copy(schema, c.schema)
	return schema
}

// Close marks the client closed. Pending changes are not committed;
// commit is an explicit user action.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	return nil
}
