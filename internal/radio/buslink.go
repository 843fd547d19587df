package radio

import (
	"context"

	"github.com/comalice/spaceteam/internal/bus"
	"github.com/comalice/spaceteam/internal/primitives"
)

// BusLink holds the shared bus for the radio around every register access
// of the wrapped link, so radio traffic never interleaves with the display
// or the RFID reader.
type BusLink struct {
	Link
	bus *bus.Bus
}

var _ Link = (*BusLink)(nil)

func OnBus(l Link, b *bus.Bus) *BusLink {
	return &BusLink{Link: l, bus: b}
}

func (l *BusLink) do(fn func() error) error {
	return l.bus.Do(context.Background(), bus.Radio, func(*bus.Tx) error { return fn() })
}

func (l *BusLink) Init(local primitives.Address) error {
	return l.do(func() error { return l.Link.Init(local) })
}

func (l *BusLink) SetAddress(peer primitives.Address) error {
	return l.do(func() error { return l.Link.SetAddress(peer) })
}

func (l *BusLink) Send(payload []byte) error {
	return l.do(func() error { return l.Link.Send(payload) })
}

func (l *BusLink) Retransmit() error {
	return l.do(l.Link.Retransmit)
}

func (l *BusLink) QueueAck(payload []byte) error {
	return l.do(func() error { return l.Link.QueueAck(payload) })
}
