package rowtrack

import (
	"fmt"
	"sync"
)

// ChangeKind classifies a row's pending change within an editing session
type ChangeKind int

const (
	ChangeNone ChangeKind = iota
	ChangeCreated
	ChangeUpdated
	ChangeDeleted
)

// String returns the style-class name used by grid presentation layers
func (k ChangeKind) String() string {
	switch k {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "none"
	}
}

// Session tracks row changes for a single editing session. It owns the
// working collection, a pristine snapshot taken at session start (or at
// the last commit) and a classification per row identity. A single map
// keyed by row ID holds the classification, so a row can never be in
// two categories at once.
//
// A session must not be shared across concurrent editing sessions; the
// mutex only guards against accidental overlapping calls, it does not
// make interleaved batches meaningful.
type Session struct {
	mu       sync.Mutex
	pristine []*Row
	working  []*Row
	marks    map[string]ChangeKind // 変更追跡
}

// NewSession creates a session over an initial row collection, which
// becomes both the working collection and the pristine snapshot.
func NewSession(initial []*Row) *Session {
	return &Session{
		pristine: cloneRows(initial),
		working:  cloneRows(initial),
		marks:    make(map[string]ChangeKind),
	}
}

// Load replaces the session contents with freshly loaded rows. All
// pending marks are discarded and the rows become the new pristine
// snapshot.
func (s *Session) Load(rows []*Row) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pristine = cloneRows(rows)
	s.working = cloneRows(rows)
	s.marks = make(map[string]ChangeKind)
}

// ApplyOperations consumes one change notification from the grid
// widget: the collection before the edit, the collection after it, and
// the ordered operation batch describing the difference. It updates the
// per-row classification and returns the adjusted collection, in which
// rows marked for deletion are spliced back in at their original
// relative position so the widget can keep showing them.
//
// Operations are applied strictly in the order received. The returned
// collection is what the widget should display from now on.
func (s *Session) ApplyOperations(previous, next []*Row, ops []Operation) ([]*Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := make([]*Row, len(next))
	copy(working, next)

	for i, op := range ops {
		var err error
		switch op.Kind {
		case OpCreate:
			err = s.markCreated(working, op)
		case OpUpdate:
			err = s.markUpdated(working, op)
		case OpDelete:
			working, err = s.spliceDeleted(working, previous, op)
		default:
			err = fmt.Errorf("unknown operation kind %d", int(op.Kind))
		}
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
	}

	s.working = cloneRows(working)
	return working, nil
}

// markCreated marks every row in next[From:To) as created. A freshly
// created row cannot already carry another mark.
func (s *Session) markCreated(working []*Row, op Operation) error {
	if err := op.validate(len(working)); err != nil {
		return err
	}
	for _, r := range working[op.From:op.To] {
		if r.ID == "" {
			return ErrMissingRowID
		}
		s.marks[r.ID] = ChangeCreated
	}
	return nil
}

// markUpdated marks every row in next[From:To) as updated, unless the
// row was created in this session (the update is absorbed into the
// created mark) or is already marked deleted (guarded, should not
// happen with a consistent widget).
func (s *Session) markUpdated(working []*Row, op Operation) error {
	if err := op.validate(len(working)); err != nil {
		return err
	}
	for _, r := range working[op.From:op.To] {
		if r.ID == "" {
			return ErrMissingRowID
		}
		switch s.marks[r.ID] {
		case ChangeCreated, ChangeDeleted:
			// keep the existing mark
		default:
			s.marks[r.ID] = ChangeUpdated
		}
	}
	return nil
}

// spliceDeleted processes a delete range. Delete indices address the
// previous collection, since the rows are already gone from next. Rows
// that were created in this session vanish without a trace; every other
// row is marked deleted and spliced back into the working collection at
// its original relative offset, so it stays visible until commit.
func (s *Session) spliceDeleted(working, previous []*Row, op Operation) ([]*Row, error) {
	if err := op.validate(len(previous)); err != nil {
		return nil, err
	}

	kept := 0
	for _, r := range previous[op.From:op.To] {
		if r.ID == "" {
			return nil, ErrMissingRowID
		}

		if s.marks[r.ID] == ChangeCreated {
			// created then deleted before commit: net no-op
			delete(s.marks, r.ID)
			continue
		}

		// A pending update on a deleted row is moot.
		s.marks[r.ID] = ChangeDeleted

		pos := op.From + kept
		if pos > len(working) {
			pos = len(working)
		}
		working = append(working, nil)
		copy(working[pos+1:], working[pos:])
		working[pos] = r
		kept++
	}

	return working, nil
}

// Classify reports the pending change for a row identity. Deleted takes
// precedence over created, created over updated; with a single
// classification map the categories cannot overlap, so this is a plain
// lookup.
func (s *Session) Classify(id string) ChangeKind {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.marks[id]
}

// Dirty reports whether the session has uncommitted changes
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.marks) > 0
}

// Rows returns a copy of the current working collection, including rows
// pending deletion
func (s *Session) Rows() []*Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneRows(s.working)
}

// Pristine returns a copy of the pristine snapshot
func (s *Session) Pristine() []*Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneRows(s.pristine)
}

// ChangeSet returns the pending changes as a backend instruction set.
// Row content is copied, so the result stays valid after further edits.
func (s *Session) ChangeSet() ChangeSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.changeSet()
}

func (s *Session) changeSet() ChangeSet {
	var cs ChangeSet
	for _, r := range s.working {
		switch s.marks[r.ID] {
		case ChangeCreated:
			cs.Created = append(cs.Created, r.Clone())
		case ChangeUpdated:
			cs.Updated = append(cs.Updated, r.Clone())
		case ChangeDeleted:
			cs.Deleted = append(cs.Deleted, r.Clone())
		}
	}
	return cs
}

// Commit drops every row marked deleted from the working collection,
// installs the result as the new pristine snapshot and clears all
// marks. It returns the change set that was in force at that moment,
// which is the instruction set for the caller's durability step.
// Committing a clean session returns an empty change set and changes
// nothing.
func (s *Session) Commit() ChangeSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.changeSet()

	kept := make([]*Row, 0, len(s.working))
	for _, r := range s.working {
		if s.marks[r.ID] != ChangeDeleted {
			kept = append(kept, r)
		}
	}

	s.working = kept
	s.pristine = cloneRows(kept)
	s.marks = make(map[string]ChangeKind)

	return cs
}

// Cancel discards the working collection, restores the pristine
// snapshot and clears all marks. It returns the restored collection.
// There is no partial cancel.
func (s *Session) Cancel() []*Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.working = cloneRows(s.pristine)
	s.marks = make(map[string]ChangeKind)

	return cloneRows(s.pristine)
}
