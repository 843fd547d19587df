package core

import (
	"fmt"

	"github.com/comalice/spaceteam/internal/primitives"
)

// Roster is the set of boards known present. It only grows.
type Roster struct {
	members [primitives.MaxPlayers]primitives.BoardID
	n       int
}

// Add records b and reports whether it was new.
func (r *Roster) Add(b primitives.BoardID) (bool, error) {
	if !b.Valid() {
		return false, fmt.Errorf("roster add %d: %w", uint8(b), primitives.ErrInvalidBoard)
	}
	if r.Has(b) {
		return false, nil
	}
	if r.n == len(r.members) {
		return false, ErrRosterFull
	}
	r.members[r.n] = b
	r.n++
	return true, nil
}

func (r *Roster) Has(b primitives.BoardID) bool {
	for _, m := range r.members[:r.n] {
		if m == b {
			return true
		}
	}
	return false
}

func (r *Roster) Len() int { return r.n }

// Members returns the roster in join order.
func (r *Roster) Members() []primitives.BoardID {
	return append([]primitives.BoardID(nil), r.members[:r.n]...)
}

// cursor walks the board id space for discovery and polling.
type cursor struct {
	next  primitives.BoardID
	ticks uint16
}

func (c *cursor) reset() { *c = cursor{} }

// due counts one poll tick and reports whether period has elapsed.
func (c *cursor) due(period uint16) bool {
	c.ticks++
	if c.ticks < period {
		return false
	}
	c.ticks = 0
	return true
}

// pick returns the next id from next onwards (wrapping) that accept
// admits, and advances past it.
func (c *cursor) pick(accept func(primitives.BoardID) bool) (primitives.BoardID, bool) {
	for i := 0; i < primitives.MaxPlayers; i++ {
		b := (c.next + primitives.BoardID(i)) % primitives.MaxPlayers
		if accept(b) {
			c.next = (b + 1) % primitives.MaxPlayers
			return b, true
		}
	}
	return 0, false
}
