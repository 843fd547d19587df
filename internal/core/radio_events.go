package core

import (
	"context"

	spaceteam "github.com/comalice/spaceteam"
	"github.com/comalice/spaceteam/internal/primitives"
	"github.com/comalice/spaceteam/internal/radio"
)

// handleRadio is the transceiver interrupt.
func (e *Engine) handleRadio(ctx context.Context, ev radio.Event) {
	switch ev.Type {
	case radio.Sent:
		if !e.router.busy {
			return
		}
		p := e.router.inflight
		e.router.busy = false
		if p.Kind == primitives.MsgNetworking {
			e.markPresent(ctx, p.Recipient)
		}
		e.drainQueue()

	case radio.RetriesExhausted:
		if !e.router.busy {
			return
		}
		if e.lifecycle.Current() == spaceteam.StateStarted {
			err := e.link.Retransmit()
			if err == nil {
				e.stats.Retransmits++
				return
			}
			e.logger.Printf("[Router] retransmit %s: %v", e.router.inflight, err)
		}
		e.stats.RadioDrops++
		e.router.busy = false
		e.drainQueue()

	case radio.Received:
		e.stats.Received++
		p, err := primitives.DecodePacket(ev.Payload)
		if err != nil {
			e.stats.BadPackets++
			e.logger.Printf("[Router] bad packet: %v", err)
			return
		}
		e.receive(ctx, p)
	}
}

// receive dispatches a decoded packet: ours is handled, anything else is
// forwarded by the Master and dropped by a Peer.
func (e *Engine) receive(ctx context.Context, p primitives.Packet) {
	if p.Recipient == e.self {
		e.Handle(ctx, p.Kind, p.ReqKind, p.Sender, p.Recipient, p.Value)
		return
	}
	if e.role == primitives.RoleMaster {
		e.forward(p)
		return
	}
	e.logger.Printf("[Router] peer dropped %s not addressed to it", p)
}
