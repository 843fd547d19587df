package core

import (
	"github.com/comalice/spaceteam/internal/primitives"
)

// Table is the Active Request Table: one slot per possible owner.
type Table struct {
	slots [primitives.MaxPlayers]primitives.Request
}

// Insert places r in the first empty slot and returns its index.
func (t *Table) Insert(r primitives.Request) (int, error) {
	for i := range t.slots {
		if !t.slots[i].Active {
			r.Active = true
			t.slots[i] = r
			return i, nil
		}
	}
	return -1, ErrTableFull
}

// Remove frees the first slot holding (kind, owner, value).
func (t *Table) Remove(kind primitives.RequestKind, owner primitives.BoardID, value uint16) bool {
	for i := range t.slots {
		if t.slots[i].Matches(kind, owner, value) {
			t.slots[i] = primitives.Request{}
			return true
		}
	}
	return false
}

func (t *Table) Free(i int) {
	t.slots[i] = primitives.Request{}
}

func (t *Table) Reset() {
	t.slots = [primitives.MaxPlayers]primitives.Request{}
}

func (t *Table) Len() int {
	n := 0
	for i := range t.slots {
		if t.slots[i].Active {
			n++
		}
	}
	return n
}

// Slot returns a pointer into the table for in-place updates.
func (t *Table) Slot(i int) *primitives.Request { return &t.slots[i] }

// Active returns a copy of the occupied slots in slot order.
func (t *Table) Active() []primitives.Request {
	var out []primitives.Request
	for _, r := range t.slots {
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}

// Owned returns the index of the first slot owned by b, or -1.
func (t *Table) Owned(b primitives.BoardID) int {
	for i := range t.slots {
		if t.slots[i].Active && t.slots[i].Owner == b {
			return i
		}
	}
	return -1
}

func (t *Table) hasFamily(f primitives.Family) bool {
	for i := range t.slots {
		if t.slots[i].Active && t.slots[i].Kind.Family() == f {
			return true
		}
	}
	return false
}
