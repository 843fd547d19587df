package hal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/comalice/spaceteam/internal/bus"
	"github.com/comalice/spaceteam/internal/primitives"
)

// Reader commands, after the MFRC522 card protocol.
const (
	rfidSoftReset = 0x0F
	rfidRequestA  = 0x26
	rfidAnticoll  = 0x93
)

// RFIDReader polls badges over the shared bus.
type RFIDReader struct {
	bus   *bus.Bus
	mu    sync.Mutex
	ready bool
}

func NewRFIDReader(b *bus.Bus) *RFIDReader {
	return &RFIDReader{bus: b}
}

// Init soft-resets the reader.
func (r *RFIDReader) Init(ctx context.Context) error {
	err := r.bus.Do(ctx, bus.RFID, func(tx *bus.Tx) error {
		_, err := tx.Transfer([]byte{rfidSoftReset})
		return err
	})
	r.mu.Lock()
	r.ready = err == nil
	r.mu.Unlock()
	if err != nil {
		return fmt.Errorf("rfid init: %w", err)
	}
	return nil
}

// ReadToken requests a card and runs anticollision to fetch its 4-byte id.
func (r *RFIDReader) ReadToken(ctx context.Context) (primitives.Token, error) {
	r.mu.Lock()
	ready := r.ready
	r.mu.Unlock()
	if !ready {
		return primitives.Token{}, ErrNotReady
	}

	var tok primitives.Token
	err := r.bus.Do(ctx, bus.RFID, func(tx *bus.Tx) error {
		atqa, err := tx.Transfer([]byte{rfidRequestA})
		if err != nil {
			return err
		}
		if len(atqa) == 0 {
			return ErrNoToken
		}
		uid, err := tx.Transfer([]byte{rfidAnticoll})
		if err != nil {
			return err
		}
		if len(uid) != primitives.TokenSize+1 {
			return fmt.Errorf("anticollision reply of %d bytes: %w", len(uid), ErrBadFrame)
		}
		var bcc byte
		for i := 0; i < primitives.TokenSize; i++ {
			bcc ^= uid[i]
		}
		if bcc != uid[primitives.TokenSize] {
			return ErrChecksum
		}
		copy(tok[:], uid[:primitives.TokenSize])
		return nil
	})
	return tok, err
}

// RFIDField is the device side: at most one badge held against the antenna.
type RFIDField struct {
	mu      sync.Mutex
	present bool
	token   primitives.Token
	until   time.Time
}

func NewRFIDField() *RFIDField { return &RFIDField{} }

// Present holds tok in the field for d (zero means until Remove).
func (f *RFIDField) Present(tok primitives.Token, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.present, f.token = true, tok
	f.until = time.Time{}
	if d > 0 {
		f.until = time.Now().Add(d)
	}
}

func (f *RFIDField) Remove() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.present = false
}

func (f *RFIDField) Exchange(out []byte) ([]byte, error) {
	if len(out) == 0 {
		return nil, ErrBadFrame
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.present && !f.until.IsZero() && time.Now().After(f.until) {
		f.present = false
	}

	switch out[0] {
	case rfidSoftReset:
		return nil, nil
	case rfidRequestA:
		if !f.present {
			return nil, nil
		}
		return []byte{0x04, 0x00}, nil
	case rfidAnticoll:
		if !f.present {
			return nil, nil
		}
		reply := make([]byte, 0, primitives.TokenSize+1)
		var bcc byte
		for _, b := range f.token {
			reply = append(reply, b)
			bcc ^= b
		}
		return append(reply, bcc), nil
	}
	return nil, fmt.Errorf("rfid command %#x: %w", out[0], ErrBadFrame)
}
