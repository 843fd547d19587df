// Package hal defines the peripheral contracts the engine talks to and the
// host-side simulated peripherals that satisfy them.
package hal

import (
	"context"
	"errors"

	"github.com/comalice/spaceteam/internal/primitives"
)

var (
	ErrNoToken  = errors.New("no token in field")
	ErrBadFrame = errors.New("malformed bus frame")
	ErrChecksum = errors.New("token checksum mismatch")
	ErrNotReady = errors.New("peripheral not initialized")
)

// Display lines.
const (
	Line1 = 1
	Line2 = 2

	DisplayWidth = 16
)

// Key is a keypad code: 0..9 are digits.
type Key uint8

const (
	KeyRun   Key = 10
	KeyClear Key = 11
)

// Digit returns the decimal value of a digit key.
func (k Key) Digit() (uint8, bool) {
	if k <= 9 {
		return uint8(k), true
	}
	return 0, false
}

// Display renders two text lines, DisplayWidth characters visible each.
// Longer text is cut or, on a Scroller, shifted into view.
type Display interface {
	WriteLine(line int, text string)
	ClearLine(line int)
}

// Scroller is implemented by displays that shift long text on the scroll tick.
type Scroller interface {
	Scroll()
}

// Sensors samples the local inputs. Switch levels are 0 or 1.
type Sensors interface {
	ReadSwitch(channel int) uint8
	ReadKnob() uint16
	ReadKeypad() (Key, bool)
}

// TokenReader polls the RFID field. ReadToken returns ErrNoToken when no
// badge is present; any other error means the reader needs Init again.
type TokenReader interface {
	Init(ctx context.Context) error
	ReadToken(ctx context.Context) (primitives.Token, error)
}

// LEDs drives the indicator array, addressed 0..15.
type LEDs interface {
	Set(index int, on bool)
}

const NumLEDs = 16
