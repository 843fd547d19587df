package radio

import (
	"sync"

	"github.com/comalice/spaceteam/internal/primitives"
)

// Stub is a Link for host-side tests. It records every transmission in a
// bounded ring and completes sends according to Outcome. Tests inject
// inbound packets with InjectRx.
type Stub struct {
	mu      sync.Mutex
	local   primitives.Address
	peer    primitives.Address
	txLog   ringBuffer
	acks    [][]byte
	retx    int
	inits   int
	outcome EventType
	events  chan Event
}

type Transmission struct {
	Peer    primitives.Address
	Payload []byte
}

// NewStub returns a stub whose sends complete with Sent.
func NewStub() *Stub {
	return &Stub{outcome: Sent, events: make(chan Event, 64)}
}

var _ Link = (*Stub)(nil)

// SetOutcome picks the event each Send or Retransmit produces: Sent,
// RetriesExhausted, or Received to produce nothing (a send still in flight).
func (s *Stub) SetOutcome(t EventType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcome = t
}

func (s *Stub) Init(local primitives.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local = local
	s.inits++
	return nil
}

func (s *Stub) SetAddress(peer primitives.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peer = peer
	return nil
}

func (s *Stub) Send(payload []byte) error {
	if err := checkPayload(payload); err != nil {
		return err
	}
	s.mu.Lock()
	s.txLog.push(Transmission{Peer: s.peer, Payload: clone(payload)})
	outcome := s.outcome
	s.mu.Unlock()
	s.complete(outcome)
	return nil
}

func (s *Stub) Retransmit() error {
	s.mu.Lock()
	s.retx++
	outcome := s.outcome
	s.mu.Unlock()
	s.complete(outcome)
	return nil
}

func (s *Stub) complete(outcome EventType) {
	if outcome == Received {
		return
	}
	s.events <- Event{Type: outcome}
}

func (s *Stub) QueueAck(payload []byte) error {
	if err := checkPayload(payload); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.acks) >= AckDepth {
		return ErrAckFull
	}
	s.acks = append(s.acks, clone(payload))
	return nil
}

func (s *Stub) Events() <-chan Event { return s.events }

// InjectRx queues an inbound packet as a Received event.
func (s *Stub) InjectRx(payload []byte) {
	s.events <- Event{Type: Received, Payload: clone(payload)}
}

// TxLog returns the recorded transmissions, oldest first.
func (s *Stub) TxLog() []Transmission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txLog.snapshot()
}

// Acks returns the queued ack payloads.
func (s *Stub) Acks() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.acks))
	for i, a := range s.acks {
		out[i] = clone(a)
	}
	return out
}

// DrainAcks empties the ack FIFO, as an acknowledged Master packet would.
func (s *Stub) DrainAcks() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.acks
	s.acks = nil
	return out
}

func (s *Stub) Retransmits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retx
}

const ringCapacity = 64

type ringBuffer struct {
	data       [ringCapacity]Transmission
	head, tail int // head = next pop, tail = next push
	count      int
}

func (rb *ringBuffer) push(tx Transmission) {
	if rb.count == ringCapacity {
		// Overwrite the oldest when buffer is full to keep memory bounded
		rb.head = (rb.head + 1) % ringCapacity
		rb.count--
	}
	rb.data[rb.tail] = tx
	rb.tail = (rb.tail + 1) % ringCapacity
	rb.count++
}

func (rb *ringBuffer) snapshot() []Transmission {
	out := make([]Transmission, 0, rb.count)
	for c, i := 0, rb.head; c < rb.count; c, i = c+1, (i+1)%ringCapacity {
		out = append(out, rb.data[i])
	}
	return out
}
