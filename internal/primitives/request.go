package primitives

import "fmt"

// Request is one row of the Active Request Table.
// The zero value with Active == false is an empty slot.
type Request struct {
	Active   bool        `json:"active" yaml:"active"`
	Kind     RequestKind `json:"kind" yaml:"kind"`
	Owner    BoardID     `json:"owner" yaml:"owner"`
	Value    uint16      `json:"value" yaml:"value"`
	Debounce uint8       `json:"debounce" yaml:"debounce"`
	Deadline uint8       `json:"deadline" yaml:"deadline"`
}

// Matches reports whether the slot holds exactly the (kind, owner, value) triple.
func (r Request) Matches(kind RequestKind, owner BoardID, value uint16) bool {
	return r.Active && r.Kind == kind && r.Owner == owner && r.Value == value
}

func (r Request) String() string {
	if !r.Active {
		return "<empty>"
	}
	return fmt.Sprintf("%s owner=%d value=%d debounce=%d deadline=%d",
		r.Kind, r.Owner, r.Value, r.Debounce, r.Deadline)
}
