package core

import (
	"context"
	"fmt"

	spaceteam "github.com/comalice/spaceteam"
	"github.com/comalice/spaceteam/internal/hal"
	"github.com/comalice/spaceteam/internal/primitives"
)

// Status lines.
const (
	textGameOver  = "GAME OVER!"
	textWaiting   = "Waiting..."
	textFailed    = "Req Failed!"
	textCompleted = "Req Completed!"
)

func (e *Engine) enterWaiting(ctx context.Context, evt *spaceteam.Event, from, to spaceteam.GameState) error {
	e.display.WriteLine(hal.Line1, textWaiting)
	e.display.WriteLine(hal.Line2, fmt.Sprintf("Board %d", e.self))
	return nil
}

func (e *Engine) enterStarted(ctx context.Context, evt *spaceteam.Event, from, to spaceteam.GameState) error {
	e.health = e.cfg.HealthMax
	e.lfsr.Seed(e.seeder.Counter() ^ e.sensors.ReadKnob())
	e.table.Reset()
	e.keypad.reset()
	e.hasToken = false
	e.poller.reset()
	e.GenerateNext(ctx)
	return nil
}

func (e *Engine) enterOver(ctx context.Context, evt *spaceteam.Event, from, to spaceteam.GameState) error {
	e.table.Reset()
	e.keypad.reset()
	e.hasToken = false
	e.armed = false
	e.discover.reset()
	e.poller.reset()
	e.ledIndex = 0
	for i := 0; i < hal.NumLEDs; i++ {
		e.leds.Set(i, false)
	}
	e.display.WriteLine(hal.Line1, textGameOver)
	e.display.ClearLine(hal.Line2)
	return nil
}

// deadlineTick counts down this board's own requests; an expired request fails.
func (e *Engine) deadlineTick(ctx context.Context) {
	if e.lifecycle.Current() != spaceteam.StateStarted || !e.armed {
		return
	}

	var expired []primitives.Request
	for i := 0; i < primitives.MaxPlayers; i++ {
		slot := e.table.Slot(i)
		if !slot.Active || slot.Owner != e.self {
			continue
		}
		if slot.Deadline > 0 {
			slot.Deadline--
		}
		if slot.Deadline == 0 {
			expired = append(expired, *slot)
		}
	}

	for _, req := range expired {
		e.fail(ctx, req)
		if e.lifecycle.Current() != spaceteam.StateStarted {
			return
		}
	}
}

// fail handles one expired request: notify, lose health, tell the others.
func (e *Engine) fail(ctx context.Context, req primitives.Request) {
	e.armed = false
	e.stats.Failed++
	e.logger.Printf("[Engine] failed %s", req)
	e.publish(ctx, Notice{Kind: NoticeFailed, Request: req})

	e.Send(ctx, primitives.MsgRequestFailed, req.Kind, e.self, req.Owner, req.Value)
	e.damage(ctx)
	e.propagateHealth(ctx)
	e.display.WriteLine(hal.Line2, textFailed)

	if e.health == 0 {
		e.fire(ctx, spaceteam.TriggerHealthDepleted)
		return
	}
	e.GenerateNext(ctx)
}

// damage takes one point of health; it reports whether the game just ended.
func (e *Engine) damage(ctx context.Context) bool {
	if e.health > 0 {
		e.health--
	}
	e.publish(ctx, Notice{Kind: NoticeHealth})
	return e.health == 0
}

// propagateHealth tells every other board about our loss. A Peer can only
// talk to the Master, which relays it onwards.
func (e *Engine) propagateHealth(ctx context.Context) {
	if e.role != primitives.RoleMaster {
		e.Send(ctx, primitives.MsgHealth, 0, e.self, e.master, 0)
		return
	}
	for _, b := range e.roster.Members() {
		if b != e.self {
			e.Send(ctx, primitives.MsgHealth, 0, e.self, b, 0)
		}
	}
}
