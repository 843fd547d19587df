package core

import (
	"context"

	spaceteam "github.com/comalice/spaceteam"
	"github.com/comalice/spaceteam/internal/hal"
	"github.com/comalice/spaceteam/internal/primitives"
)

// OutboundDepth bounds the Master's store-and-forward queue.
const OutboundDepth = 16

type routerState struct {
	busy     bool
	inflight primitives.Packet
	queue    packetQueue
}

type packetQueue struct {
	buf  [OutboundDepth]primitives.Packet
	head int
	n    int
}

func (q *packetQueue) push(p primitives.Packet) bool {
	if q.n == len(q.buf) {
		return false
	}
	q.buf[(q.head+q.n)%len(q.buf)] = p
	q.n++
	return true
}

func (q *packetQueue) pop() (primitives.Packet, bool) {
	if q.n == 0 {
		return primitives.Packet{}, false
	}
	p := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	return p, true
}

func (q *packetQueue) len() int { return q.n }

// Send delivers a message. Messages to this board are handled in place and
// never reach the radio. A Master transmits (or queues while the radio is
// busy); a Peer queues the packet as an ack payload for the Master to collect.
func (e *Engine) Send(ctx context.Context, kind primitives.MsgKind, req primitives.RequestKind, sender, recipient primitives.BoardID, value uint16) {
	if recipient == e.self {
		e.Handle(ctx, kind, req, sender, recipient, value)
		return
	}
	e.route(primitives.Packet{Kind: kind, Sender: sender, Recipient: recipient, ReqKind: req, Value: value})
}

func (e *Engine) route(p primitives.Packet) {
	if e.role == primitives.RoleMaster {
		e.transmit(p)
		return
	}
	data := p.Encode()
	if err := e.link.QueueAck(data[:]); err != nil {
		e.stats.AckDrops++
		e.logger.Printf("[Router] drop %s: %v", p, err)
	}
}

// transmit sends now or queues behind the packet in flight.
func (e *Engine) transmit(p primitives.Packet) {
	if e.router.busy {
		if !e.router.queue.push(p) {
			e.stats.QueueDrops++
			e.logger.Printf("[Router] drop %s: %v", p, ErrQueueFull)
		}
		return
	}
	e.startTx(p)
}

func (e *Engine) startTx(p primitives.Packet) bool {
	addr, err := primitives.AddressOf(p.Recipient)
	if err != nil {
		e.logger.Printf("[Router] drop %s: %v", p, err)
		return false
	}
	if err := e.link.SetAddress(addr); err != nil {
		e.logger.Printf("[Router] set address for %s: %v", p, err)
		return false
	}
	data := p.Encode()
	if err := e.link.Send(data[:]); err != nil {
		e.stats.RadioDrops++
		e.logger.Printf("[Router] send %s: %v", p, err)
		return false
	}
	e.router.busy = true
	e.router.inflight = p
	e.stats.Transmitted++
	return true
}

// drainQueue starts the next queued packet once the radio is free.
func (e *Engine) drainQueue() {
	for !e.router.busy {
		p, ok := e.router.queue.pop()
		if !ok {
			return
		}
		e.startTx(p)
	}
}

// Handle applies a message addressed to this board. On the Master,
// propagating kinds are then re-sent to the rest of the roster.
func (e *Engine) Handle(ctx context.Context, kind primitives.MsgKind, req primitives.RequestKind, sender, recipient primitives.BoardID, value uint16) {
	switch kind {
	case primitives.MsgNewRequest:
		if err := e.Register(req, sender, value); err != nil {
			e.logger.Printf("[Router] register %s from %d: %v", req, sender, err)
			break
		}
		e.showRequest(req, value)

	case primitives.MsgRequestCompleted:
		if recipient == e.self {
			e.display.WriteLine(hal.Line2, textCompleted)
		}

	case primitives.MsgRequestFailed:
		e.Deregister(req, sender, value)

	case primitives.MsgPoll:

	case primitives.MsgHealth:
		if e.lifecycle.Current() == spaceteam.StateStarted && e.damage(ctx) {
			e.fire(ctx, spaceteam.TriggerHealthDepleted)
		}

	case primitives.MsgNetworking:
		e.markPresent(ctx, sender)
		if e.role == primitives.RolePeer && sender == e.master {
			e.Send(ctx, primitives.MsgNetworking, 0, e.self, e.master, 0)
		}

	case primitives.MsgBegin:
		e.fire(ctx, spaceteam.TriggerBegin)
	}

	if e.role == primitives.RoleMaster && kind.Propagates() {
		e.relay(kind, req, sender, value)
	}
}

func (e *Engine) showRequest(kind primitives.RequestKind, value uint16) {
	line1, line2 := primitives.Describe(kind, value)
	e.display.WriteLine(hal.Line1, line1)
	if line2 == "" {
		e.display.ClearLine(hal.Line2)
		return
	}
	e.display.WriteLine(hal.Line2, line2)
}
