package core

// DefaultSeed replaces a zero seed; a zero register never leaves zero.
const DefaultSeed uint16 = 0xACE1

// LFSR is a 16-bit Fibonacci shift register with taps 0, 2, 3 and 5.
type LFSR struct {
	reg uint16
}

func NewLFSR(seed uint16) *LFSR {
	l := &LFSR{}
	l.Seed(seed)
	return l
}

func (l *LFSR) Seed(seed uint16) {
	if seed == 0 {
		seed = DefaultSeed
	}
	l.reg = seed
}

// Next shifts once and returns the new register.
func (l *LFSR) Next() uint16 {
	bit := (l.reg ^ l.reg>>2 ^ l.reg>>3 ^ l.reg>>5) & 1
	l.reg = l.reg>>1 | bit<<15
	return l.reg
}

func (l *LFSR) State() uint16 { return l.reg }
