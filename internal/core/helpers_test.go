package core

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/comalice/spaceteam/internal/hal"
	"github.com/comalice/spaceteam/internal/primitives"
	"github.com/comalice/spaceteam/internal/radio"
	"github.com/comalice/spaceteam/realtime"
)

type fixedSeeder uint16

func (s fixedSeeder) Counter() uint16 { return uint16(s) }

type lines struct {
	text [3]string
}

func (l *lines) WriteLine(n int, s string) { l.text[n] = s }
func (l *lines) ClearLine(n int)           { l.text[n] = "" }

type rig struct {
	e       *Engine
	stub    *radio.Stub
	panel   *hal.Panel
	display *lines
	leds    *hal.LEDBank
}

func newRig(t *testing.T, id primitives.BoardID, seed uint16, tune ...func(*primitives.BoardConfig)) *rig {
	t.Helper()
	cfg := primitives.DefaultBoardConfig(id)
	for _, f := range tune {
		f(&cfg)
	}
	r := &rig{stub: radio.NewStub(), panel: hal.NewPanel(), display: &lines{}, leds: &hal.LEDBank{}}
	e, err := NewEngine(cfg,
		WithLogger(log.New(io.Discard, "", 0)),
		WithRadio(r.stub),
		WithDisplay(r.display),
		WithSensors(r.panel),
		WithLEDs(r.leds),
		WithSeeder(fixedSeeder(seed)),
	)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.e = e
	return r
}

// begin starts the game locally, as a Begin message would.
func (r *rig) begin() {
	r.e.Send(context.Background(), primitives.MsgBegin, 0, r.e.self, r.e.self, 0)
}

func (r *rig) dispatch(kind realtime.EventKind, payload any) {
	r.e.HandleEvent(context.Background(), realtime.Event{Kind: kind, Payload: payload})
}

func (r *rig) poll(n int) {
	for i := 0; i < n; i++ {
		r.dispatch(realtime.KindPoll, nil)
	}
}

func (r *rig) deadline(n int) {
	for i := 0; i < n; i++ {
		r.dispatch(realtime.KindDeadline, nil)
	}
}

// pump feeds every queued stub event back into the engine.
func (r *rig) pump() {
	for {
		select {
		case ev := <-r.stub.Events():
			r.dispatch(realtime.KindRadio, ev)
		default:
			return
		}
	}
}

func (r *rig) sent() []primitives.Packet {
	var out []primitives.Packet
	for _, tx := range r.stub.TxLog() {
		p, err := primitives.DecodePacket(tx.Payload)
		if err != nil {
			panic(err)
		}
		out = append(out, p)
	}
	return out
}

func (r *rig) own() (primitives.Request, bool) {
	for _, req := range r.e.table.Active() {
		if req.Owner == r.e.self {
			return req, true
		}
	}
	return primitives.Request{}, false
}

func encode(p primitives.Packet) []byte {
	b := p.Encode()
	return b[:]
}
