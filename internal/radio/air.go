package radio

import (
	"context"
	"fmt"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/comalice/spaceteam/internal/primitives"
)

const tracerName = "github.com/comalice/spaceteam/internal/radio"

// LossFunc decides whether one attempt from src to dst is lost.
type LossFunc func(src, dst primitives.Address, attempt int) bool

// Air is an in-process radio medium. Delivery happens inside Send: the
// receiver's Received event and the sender's Sent (plus any ack payload)
// are queued before Send returns.
type Air struct {
	mu      sync.Mutex
	links   map[primitives.Address]*SimLink
	retries int
	loss    LossFunc
	tracer  trace.Tracer
	logger  *log.Logger
	depth   int
}

type AirOption func(*Air)

// WithRetries sets the auto-retransmit count (default 15).
func WithRetries(n int) AirOption {
	return func(a *Air) { a.retries = n }
}

func WithLoss(f LossFunc) AirOption {
	return func(a *Air) { a.loss = f }
}

func WithTracerProvider(tp trace.TracerProvider) AirOption {
	return func(a *Air) { a.tracer = tp.Tracer(tracerName) }
}

func WithLogger(l *log.Logger) AirOption {
	return func(a *Air) { a.logger = l }
}

// WithEventDepth sets each link's event channel capacity (default 64).
func WithEventDepth(n int) AirOption {
	return func(a *Air) { a.depth = n }
}

func NewAir(opts ...AirOption) *Air {
	a := &Air{
		links:   map[primitives.Address]*SimLink{},
		retries: 15,
		depth:   64,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.tracer == nil {
		a.tracer = otel.Tracer(tracerName)
	}
	if a.logger == nil {
		a.logger = log.Default()
	}
	return a
}

// NewLink returns a transceiver on this air. It is silent until Init.
func (a *Air) NewLink() *SimLink {
	return &SimLink{air: a, events: make(chan Event, a.depth)}
}

func (a *Air) attach(l *SimLink, addr primitives.Address) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if other, ok := a.links[addr]; ok && other != l {
		return fmt.Errorf("%x: %w", addr, ErrAddressInUse)
	}
	if l.attached {
		delete(a.links, l.local)
	}
	a.links[addr] = l
	return nil
}

func (a *Air) detach(l *SimLink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.links[l.local] == l {
		delete(a.links, l.local)
	}
}

func (a *Air) lookup(addr primitives.Address) (*SimLink, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.links[addr]
	return l, ok
}

// transmit runs one auto-retransmit cycle and reports delivery.
func (a *Air) transmit(src *SimLink, dst primitives.Address, payload []byte) bool {
	srcBoard, _ := primitives.BoardAt(src.local)
	dstBoard, _ := primitives.BoardAt(dst)
	_, span := a.tracer.Start(context.Background(), "radio.transmit",
		trace.WithAttributes(
			attribute.Int("radio.src", int(srcBoard)),
			attribute.Int("radio.dst", int(dstBoard)),
			attribute.Int("radio.msg_kind", int(payload[0])),
		))
	defer span.End()

	for attempt := 0; attempt <= a.retries; attempt++ {
		peer, ok := a.lookup(dst)
		if !ok || (a.loss != nil && a.loss(src.local, dst, attempt)) {
			continue
		}

		ack := peer.receive(payload)
		src.emit(Event{Type: Sent})
		if ack != nil {
			src.emit(Event{Type: Received, Payload: ack})
		}
		span.SetAttributes(
			attribute.Int("radio.attempts", attempt+1),
			attribute.Bool("radio.ack_payload", ack != nil),
		)
		return true
	}

	span.SetAttributes(attribute.Int("radio.attempts", a.retries+1))
	span.SetStatus(codes.Error, "retries exhausted")
	src.emit(Event{Type: RetriesExhausted})
	return false
}

// SimLink is one board's transceiver on an Air.
type SimLink struct {
	air    *Air
	events chan Event

	mu       sync.Mutex
	local    primitives.Address
	attached bool
	peer     primitives.Address
	hasPeer  bool
	pending  []byte
	acks     [][]byte
}

var _ Link = (*SimLink)(nil)

func (l *SimLink) Init(local primitives.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.air.attach(l, local); err != nil {
		return err
	}
	l.local, l.attached = local, true
	l.pending, l.acks = nil, nil
	return nil
}

func (l *SimLink) SetAddress(peer primitives.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.attached {
		return ErrNotInitialized
	}
	l.peer, l.hasPeer = peer, true
	return nil
}

// Send replaces any pending packet and transmits to the current peer.
func (l *SimLink) Send(payload []byte) error {
	if err := checkPayload(payload); err != nil {
		return err
	}
	l.mu.Lock()
	if !l.attached {
		l.mu.Unlock()
		return ErrNotInitialized
	}
	if !l.hasPeer {
		l.mu.Unlock()
		return ErrNoPeer
	}
	l.pending = clone(payload)
	peer, data := l.peer, l.pending
	l.mu.Unlock()

	l.transmit(peer, data)
	return nil
}

// Retransmit re-runs the retry cycle for a packet whose retries ran out.
func (l *SimLink) Retransmit() error {
	l.mu.Lock()
	if l.pending == nil {
		l.mu.Unlock()
		return ErrNothingPending
	}
	peer, data := l.peer, l.pending
	l.mu.Unlock()

	l.transmit(peer, data)
	return nil
}

func (l *SimLink) transmit(peer primitives.Address, data []byte) {
	if l.air.transmit(l, peer, data) {
		l.mu.Lock()
		l.pending = nil
		l.mu.Unlock()
	}
}

// QueueAck stores a payload to ride on the next acknowledgement.
func (l *SimLink) QueueAck(payload []byte) error {
	if err := checkPayload(payload); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.attached {
		return ErrNotInitialized
	}
	if len(l.acks) >= AckDepth {
		return ErrAckFull
	}
	l.acks = append(l.acks, clone(payload))
	return nil
}

func (l *SimLink) Events() <-chan Event { return l.events }

// Close takes the link off the air; further transmissions to it are lost.
func (l *SimLink) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.attached {
		l.air.detach(l)
		l.attached = false
	}
}

// PendingAcks reports how many ack payloads wait in the FIFO.
func (l *SimLink) PendingAcks() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.acks)
}

// receive delivers payload and pops the next ack payload, if any.
func (l *SimLink) receive(payload []byte) []byte {
	l.emit(Event{Type: Received, Payload: clone(payload)})

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.acks) == 0 {
		return nil
	}
	ack := l.acks[0]
	l.acks = l.acks[1:]
	return ack
}

func (l *SimLink) emit(ev Event) {
	select {
	case l.events <- ev:
	default:
		l.air.logger.Printf("[Air] %x: event queue full, dropped %s", l.local, ev.Type)
	}
}
