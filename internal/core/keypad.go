package core

import (
	"github.com/comalice/spaceteam/internal/hal"
	"github.com/comalice/spaceteam/internal/primitives"
)

// keypadBuffer accumulates digits in a ring of MaxKeypresses entries.
type keypadBuffer struct {
	digits [primitives.MaxKeypresses]uint8
	next   int // ring write index
	count  int // digits held, at most MaxKeypresses
}

func (k *keypadBuffer) reset() {
	*k = keypadBuffer{}
}

// press feeds one key. On Run it returns the entered value and empties the
// buffer; ok is false for digits, Clear, unknown keys and a Run with no digits.
func (k *keypadBuffer) press(key hal.Key) (value uint16, ok bool) {
	if d, isDigit := key.Digit(); isDigit {
		k.digits[k.next] = d
		k.next = (k.next + 1) % len(k.digits)
		if k.count < len(k.digits) {
			k.count++
		}
		return 0, false
	}

	switch key {
	case hal.KeyClear:
		k.reset()
	case hal.KeyRun:
		value, ok = k.value()
		k.reset()
	}
	return value, ok
}

// value reads the held digits oldest first.
func (k *keypadBuffer) value() (uint16, bool) {
	if k.count == 0 {
		return 0, false
	}
	start := (k.next - k.count + len(k.digits)) % len(k.digits)
	var v uint16
	for i := 0; i < k.count; i++ {
		v = v*10 + uint16(k.digits[(start+i)%len(k.digits)])
	}
	return v, true
}
