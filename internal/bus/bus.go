// Package bus owns the shared serial bus. The display, the RFID reader and
// the radio sit on the same wires; each transaction holds the bus exclusively
// from first byte to last and always gives it back.
package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrReleased    = errors.New("bus transaction already released")
	ErrNoDevice    = errors.New("no device on bus for peripheral")
	ErrTransaction = errors.New("bus transaction panicked")
)

// Peripheral selects the chip-select line of one device.
type Peripheral uint8

const (
	Display Peripheral = iota
	RFID
	Radio
)

func (p Peripheral) String() string {
	switch p {
	case Display:
		return "display"
	case RFID:
		return "rfid"
	case Radio:
		return "radio"
	}
	return fmt.Sprintf("peripheral(%d)", uint8(p))
}

// Transferer moves bytes to and from the selected peripheral.
type Transferer interface {
	Transfer(p Peripheral, out []byte) ([]byte, error)
}

// Bus serialises transactions. The zero value is not usable; call New.
type Bus struct {
	xfer Transferer
	sem  chan struct{}

	mu           sync.Mutex
	owner        Peripheral
	held         bool
	transactions uint64
}

func New(x Transferer) *Bus {
	return &Bus{xfer: x, sem: make(chan struct{}, 1)}
}

// Tx is a live transaction handle, valid only inside the Do callback.
type Tx struct {
	bus      *Bus
	p        Peripheral
	released bool
}

// Transfer exchanges one frame with the transaction's peripheral.
func (tx *Tx) Transfer(out []byte) ([]byte, error) {
	tx.bus.mu.Lock()
	released := tx.released
	tx.bus.mu.Unlock()
	if released {
		return nil, ErrReleased
	}
	return tx.bus.xfer.Transfer(tx.p, out)
}

// Peripheral returns the selected device.
func (tx *Tx) Peripheral() Peripheral { return tx.p }

// Do runs fn while holding the bus for p. Acquisition waits for any other
// transaction and honours ctx. The bus is released when fn returns or panics;
// a panic is returned as an error wrapping ErrTransaction.
func (b *Bus) Do(ctx context.Context, p Peripheral, fn func(tx *Tx) error) (err error) {
	select {
	case b.sem <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("acquire bus for %s: %w", p, ctx.Err())
	}

	tx := &Tx{bus: b, p: p}
	b.mu.Lock()
	b.owner, b.held = p, true
	b.transactions++
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		tx.released = true
		b.held = false
		b.mu.Unlock()
		<-b.sem

		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v: %w", p, r, ErrTransaction)
		}
	}()

	return fn(tx)
}

// Owner reports which peripheral currently holds the bus.
func (b *Bus) Owner() (Peripheral, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.owner, b.held
}

// Transactions counts completed and in-flight acquisitions.
func (b *Bus) Transactions() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transactions
}

// Device is the far side of a chip-select line.
type Device interface {
	Exchange(out []byte) ([]byte, error)
}

// Devices wires peripherals to simulated devices.
type Devices map[Peripheral]Device

func (d Devices) Transfer(p Peripheral, out []byte) ([]byte, error) {
	dev, ok := d[p]
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, ErrNoDevice)
	}
	return dev.Exchange(out)
}
