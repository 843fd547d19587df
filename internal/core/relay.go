package core

import (
	"context"

	spaceteam "github.com/comalice/spaceteam"
	"github.com/comalice/spaceteam/internal/primitives"
)

// relay re-sends a propagating message to every roster member except the
// original sender and this board, keeping the original sender.
func (e *Engine) relay(kind primitives.MsgKind, req primitives.RequestKind, sender primitives.BoardID, value uint16) {
	for _, b := range e.roster.Members() {
		if b == sender || b == e.self {
			continue
		}
		e.stats.Relayed++
		e.transmit(primitives.Packet{Kind: kind, Sender: sender, Recipient: b, ReqKind: req, Value: value})
	}
}

// markPresent adds b to the roster. A Master introduces a newcomer to the
// boards it already knows.
func (e *Engine) markPresent(ctx context.Context, b primitives.BoardID) {
	added, err := e.roster.Add(b)
	if err != nil {
		e.logger.Printf("[Router] roster: %v", err)
		return
	}
	if !added {
		return
	}
	e.logger.Printf("[Router] board %d joined", b)
	e.publish(ctx, Notice{Kind: NoticeJoined, Peer: b})

	if e.role != primitives.RoleMaster {
		return
	}
	for _, m := range e.roster.Members() {
		if m == b || m == e.self {
			continue
		}
		e.transmit(primitives.Packet{Kind: primitives.MsgNetworking, Sender: m, Recipient: b})
	}
}

// masterCadence runs discovery while waiting and polling while playing.
func (e *Engine) masterCadence(ctx context.Context) {
	switch e.lifecycle.Current() {
	case spaceteam.StateWaiting:
		if !e.discover.due(e.cfg.DiscoverEvery) {
			return
		}
		b, ok := e.discover.pick(func(b primitives.BoardID) bool {
			return b != e.self && !e.roster.Has(b)
		})
		if ok {
			e.Send(ctx, primitives.MsgNetworking, 0, e.self, b, 0)
		}

	case spaceteam.StateStarted:
		if !e.poller.due(e.cfg.PollEvery) {
			return
		}
		b, ok := e.poller.pick(func(b primitives.BoardID) bool {
			return b != e.self && e.roster.Has(b)
		})
		if ok {
			e.Send(ctx, primitives.MsgPoll, 0, e.self, b, 0)
		}
	}
}

// forward passes a packet for another board through unchanged.
func (e *Engine) forward(p primitives.Packet) {
	e.stats.Relayed++
	e.transmit(p)
}
