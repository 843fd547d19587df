package hal

import (
	"sync"

	"github.com/comalice/spaceteam/internal/primitives"
)

// Panel is a simulated front panel: switch lines, the knob ADC and a keypad
// queue. Setters are called by players; readers by the engine.
type Panel struct {
	mu       sync.Mutex
	switches [primitives.MaxChannel + 1]uint8
	knob     uint16
	keys     []Key
	counter  uint16
}

func NewPanel() *Panel { return &Panel{} }

func (p *Panel) ReadSwitch(channel int) uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if channel < 0 || channel >= len(p.switches) {
		return 0
	}
	return p.switches[channel]
}

func (p *Panel) ReadKnob() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.knob
}

// ReadKeypad pops the oldest pending key press.
func (p *Panel) ReadKeypad() (Key, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.keys) == 0 {
		return 0, false
	}
	k := p.keys[0]
	p.keys = p.keys[1:]
	return k, true
}

func (p *Panel) SetSwitch(channel int, level uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if channel >= 0 && channel < len(p.switches) {
		p.switches[channel] = level & 1
	}
}

// Flip toggles a switch line.
func (p *Panel) Flip(channel int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if channel >= 0 && channel < len(p.switches) {
		p.switches[channel] ^= 1
	}
}

// SetKnob sets the raw ADC sample, clamped to the converter range.
func (p *Panel) SetKnob(raw uint16) {
	if raw >= primitives.MaxADC {
		raw = primitives.MaxADC - 1
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.knob = raw
}

func (p *Panel) Press(keys ...Key) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, keys...)
}

// Counter is the free-running timer sampled for the generator seed.
func (p *Panel) Counter() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counter += 0x9E37
	return p.counter
}

// LEDBank is a simulated indicator array.
type LEDBank struct {
	mu  sync.Mutex
	lit [NumLEDs]bool
}

func (b *LEDBank) Set(index int, on bool) {
	if index < 0 || index >= NumLEDs {
		return
	}
	b.mu.Lock()
	b.lit[index] = on
	b.mu.Unlock()
}

// Snapshot returns the current levels.
func (b *LEDBank) Snapshot() [NumLEDs]bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lit
}
