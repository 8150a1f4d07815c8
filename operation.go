package rowtrack

import "fmt"

// OpKind represents the kind of change an operation describes
type OpKind int

const (
	OpCreate OpKind = iota
	OpUpdate
	OpDelete
)

// String returns the kind name for error messages
func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("opkind(%d)", int(k))
	}
}

// Operation describes one contiguous change reported by the grid widget.
// For OpCreate and OpUpdate the [From, To) range addresses the new
// collection; for OpDelete it addresses the previous collection, since
// the deleted rows are absent from the new one.
type Operation struct {
	Kind OpKind
	From int
	To   int
}

// validate checks the range against the length of the collection the
// operation addresses. Ranges come from a trusted widget, so a failure
// here is a programmer error and the batch is rejected as a whole.
func (op Operation) validate(limit int) error {
	if op.From < 0 || op.To < op.From {
		return fmt.Errorf("%w: %s [%d,%d)", ErrInvalidRange, op.Kind, op.From, op.To)
	}
	if op.To > limit {
		return fmt.Errorf("%w: %s [%d,%d) exceeds %d rows", ErrInvalidRange, op.Kind, op.From, op.To, limit)
	}
	return nil
}
