package rowtrack

// ChangeSet is the instruction set a commit hands to the durability
// backend: every row in Created is inserted, every row in Updated is
// rewritten, every row in Deleted is removed. The three slices never
// share an identity.
type ChangeSet struct {
	Created []*Row
	Updated []*Row
	Deleted []*Row
}

// IsEmpty reports whether there are no recorded changes.
func (cs ChangeSet) IsEmpty() bool {
	return len(cs.Created) == 0 && len(cs.Updated) == 0 && len(cs.Deleted) == 0
}

// Size returns the total number of pending row changes.
func (cs ChangeSet) Size() int {
	return len(cs.Created) + len(cs.Updated) + len(cs.Deleted)
}
