// Package radio is the packet-radio contract the router talks to, plus the
// host-side simulated air that links several boards in one process.
package radio

import (
	"errors"
	"strconv"

	"github.com/comalice/spaceteam/internal/primitives"
)

var (
	ErrAckFull        = errors.New("ack payload fifo full")
	ErrNotInitialized = errors.New("radio not initialized")
	ErrNoPeer         = errors.New("no peer address set")
	ErrNothingPending = errors.New("no packet pending retransmit")
	ErrAddressInUse   = errors.New("address already on air")
)

// AckDepth is the transceiver's TX FIFO depth available to ack payloads.
const AckDepth = 3

type EventType uint8

const (
	Sent EventType = iota
	RetriesExhausted
	Received
)

func (t EventType) String() string {
	switch t {
	case Sent:
		return "sent"
	case RetriesExhausted:
		return "retries-exhausted"
	case Received:
		return "received"
	}
	return "event(" + strconv.Itoa(int(t)) + ")"
}

// Event is an asynchronous radio interrupt. Received carries the payload.
type Event struct {
	Type    EventType
	Payload []byte
}

// Link is one transceiver. Send is asynchronous: its outcome arrives on
// Events as Sent or RetriesExhausted. Every payload is primitives.PacketSize.
type Link interface {
	Init(local primitives.Address) error
	SetAddress(peer primitives.Address) error
	Send(payload []byte) error
	Retransmit() error
	QueueAck(payload []byte) error
	Events() <-chan Event
}

func checkPayload(payload []byte) error {
	if len(payload) != primitives.PacketSize {
		return primitives.ErrPayloadSize
	}
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
