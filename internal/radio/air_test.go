package radio

import (
	"errors"
	"io"
	"log"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/comalice/spaceteam/internal/bus"
	"github.com/comalice/spaceteam/internal/primitives"
)

func addr(t *testing.T, b primitives.BoardID) primitives.Address {
	t.Helper()
	a, err := primitives.AddressOf(b)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func payload(kind primitives.MsgKind) []byte {
	p := primitives.Packet{Kind: kind, Sender: 0, Recipient: 1}.Encode()
	return p[:]
}

func drain(l Link) []Event {
	var out []Event
	for {
		select {
		case ev := <-l.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func newTestAir(opts ...AirOption) *Air {
	return NewAir(append([]AirOption{WithLogger(log.New(io.Discard, "", 0))}, opts...)...)
}

func TestAirDelivers(t *testing.T) {
	air := newTestAir()
	master, peer := air.NewLink(), air.NewLink()
	if err := master.Init(addr(t, 0)); err != nil {
		t.Fatal(err)
	}
	if err := peer.Init(addr(t, 1)); err != nil {
		t.Fatal(err)
	}

	if err := master.SetAddress(addr(t, 1)); err != nil {
		t.Fatal(err)
	}
	if err := master.Send(payload(primitives.MsgPoll)); err != nil {
		t.Fatalf("Send: %v", err)
	}

	got := drain(peer)
	if len(got) != 1 || got[0].Type != Received || got[0].Payload[0] != byte(primitives.MsgPoll) {
		t.Fatalf("peer events = %+v", got)
	}
	if ev := drain(master); len(ev) != 1 || ev[0].Type != Sent {
		t.Fatalf("master events = %+v", ev)
	}
}

func TestAirAckPayload(t *testing.T) {
	air := newTestAir()
	master, peer := air.NewLink(), air.NewLink()
	_ = master.Init(addr(t, 0))
	_ = peer.Init(addr(t, 1))
	_ = master.SetAddress(addr(t, 1))

	for i := 0; i < AckDepth; i++ {
		if err := peer.QueueAck(payload(primitives.MsgHealth)); err != nil {
			t.Fatalf("QueueAck %d: %v", i, err)
		}
	}
	if err := peer.QueueAck(payload(primitives.MsgHealth)); !errors.Is(err, ErrAckFull) {
		t.Fatalf("fourth QueueAck error = %v, want ErrAckFull", err)
	}

	_ = master.Send(payload(primitives.MsgPoll))
	got := drain(master)
	if len(got) != 2 || got[0].Type != Sent || got[1].Type != Received {
		t.Fatalf("master events = %+v", got)
	}
	if got[1].Payload[0] != byte(primitives.MsgHealth) {
		t.Errorf("ack payload kind = %d", got[1].Payload[0])
	}
	if peer.PendingAcks() != AckDepth-1 {
		t.Errorf("PendingAcks() = %d", peer.PendingAcks())
	}
}

func TestAirRetriesExhausted(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	air := newTestAir(WithRetries(3), WithTracerProvider(tp))

	master := air.NewLink()
	_ = master.Init(addr(t, 0))
	_ = master.SetAddress(addr(t, 4)) // nobody home

	_ = master.Send(payload(primitives.MsgNetworking))
	if ev := drain(master); len(ev) != 1 || ev[0].Type != RetriesExhausted {
		t.Fatalf("events = %+v", ev)
	}

	// The board comes up; a retransmit now lands.
	late := air.NewLink()
	_ = late.Init(addr(t, 4))
	if err := master.Retransmit(); err != nil {
		t.Fatalf("Retransmit: %v", err)
	}
	if ev := drain(master); len(ev) != 1 || ev[0].Type != Sent {
		t.Fatalf("events after retransmit = %+v", ev)
	}
	if err := master.Retransmit(); !errors.Is(err, ErrNothingPending) {
		t.Errorf("second Retransmit error = %v", err)
	}

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	if spans[0].Name() != "radio.transmit" {
		t.Errorf("span name = %q", spans[0].Name())
	}
}

func TestAirLoss(t *testing.T) {
	var attempts int
	air := newTestAir(WithRetries(15), WithLoss(func(src, dst primitives.Address, attempt int) bool {
		attempts = attempt + 1
		return attempt < 5
	}))
	master, peer := air.NewLink(), air.NewLink()
	_ = master.Init(addr(t, 0))
	_ = peer.Init(addr(t, 1))
	_ = master.SetAddress(addr(t, 1))

	_ = master.Send(payload(primitives.MsgPoll))
	if ev := drain(master); len(ev) != 1 || ev[0].Type != Sent {
		t.Fatalf("events = %+v", ev)
	}
	if attempts != 6 {
		t.Errorf("attempts = %d, want 6", attempts)
	}
}

func TestSimLinkErrors(t *testing.T) {
	air := newTestAir()
	l := air.NewLink()
	if err := l.Send(payload(primitives.MsgPoll)); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Send before Init error = %v", err)
	}
	_ = l.Init(addr(t, 2))
	if err := l.Send(payload(primitives.MsgPoll)); !errors.Is(err, ErrNoPeer) {
		t.Errorf("Send without peer error = %v", err)
	}
	if err := l.Send([]byte{1, 2}); !errors.Is(err, primitives.ErrPayloadSize) {
		t.Errorf("short payload error = %v", err)
	}

	dup := air.NewLink()
	if err := dup.Init(addr(t, 2)); !errors.Is(err, ErrAddressInUse) {
		t.Errorf("duplicate Init error = %v", err)
	}

	l.Close()
	if err := dup.Init(addr(t, 2)); err != nil {
		t.Errorf("Init after Close: %v", err)
	}
}

func TestStubRecords(t *testing.T) {
	s := NewStub()
	_ = s.SetAddress(addr(t, 3))
	_ = s.Send(payload(primitives.MsgPoll))
	s.SetOutcome(RetriesExhausted)
	_ = s.Send(payload(primitives.MsgHealth))
	_ = s.Retransmit()

	txs := s.TxLog()
	if len(txs) != 2 || txs[0].Peer != addr(t, 3) {
		t.Fatalf("TxLog = %+v", txs)
	}
	ev := drain(s)
	want := []EventType{Sent, RetriesExhausted, RetriesExhausted}
	if len(ev) != len(want) {
		t.Fatalf("events = %+v", ev)
	}
	for i := range want {
		if ev[i].Type != want[i] {
			t.Errorf("event %d = %s, want %s", i, ev[i].Type, want[i])
		}
	}
	if s.Retransmits() != 1 {
		t.Errorf("Retransmits() = %d", s.Retransmits())
	}
}

type recordingTransferer struct{}

func (recordingTransferer) Transfer(bus.Peripheral, []byte) ([]byte, error) { return nil, nil }

func TestBusLinkHoldsBus(t *testing.T) {
	b := bus.New(recordingTransferer{})
	inner := NewStub()
	var owners []bus.Peripheral
	probe := &probeLink{Link: inner, onCall: func() {
		p, held := b.Owner()
		if !held {
			t.Error("radio call made without the bus")
		}
		owners = append(owners, p)
	}}
	l := OnBus(probe, b)

	if err := l.Init(addr(t, 0)); err != nil {
		t.Fatal(err)
	}
	_ = l.SetAddress(addr(t, 1))
	_ = l.Send(payload(primitives.MsgPoll))
	_ = l.QueueAck(payload(primitives.MsgHealth))
	_ = l.Retransmit()

	if len(owners) != 5 {
		t.Fatalf("calls = %d", len(owners))
	}
	for i, p := range owners {
		if p != bus.Radio {
			t.Errorf("call %d held by %s", i, p)
		}
	}
	if _, held := b.Owner(); held {
		t.Error("bus not released")
	}
	if b.Transactions() != 5 {
		t.Errorf("transactions = %d", b.Transactions())
	}
	if len(inner.TxLog()) != 1 || len(inner.Acks()) != 1 {
		t.Error("calls did not reach the wrapped link")
	}
}

type probeLink struct {
	Link
	onCall func()
}

func (p *probeLink) Init(a primitives.Address) error       { p.onCall(); return p.Link.Init(a) }
func (p *probeLink) SetAddress(a primitives.Address) error { p.onCall(); return p.Link.SetAddress(a) }
func (p *probeLink) Send(b []byte) error                   { p.onCall(); return p.Link.Send(b) }
func (p *probeLink) Retransmit() error                     { p.onCall(); return p.Link.Retransmit() }
func (p *probeLink) QueueAck(b []byte) error               { p.onCall(); return p.Link.QueueAck(b) }
