package core

import (
	"context"

	"github.com/comalice/spaceteam/internal/primitives"
)

// checkRequests runs the completion check over every occupied slot.
func (e *Engine) checkRequests(ctx context.Context) {
	var runValue uint16
	var run bool
	if e.table.hasFamily(primitives.FamilyKeypad) {
		if key, ok := e.sensors.ReadKeypad(); ok {
			runValue, run = e.keypad.press(key)
		}
	}

	for i := 0; i < primitives.MaxPlayers; i++ {
		slot := e.table.Slot(i)
		if !slot.Active {
			continue
		}
		if e.check(slot, run, runValue) {
			e.complete(ctx, i)
		}
	}
}

// check reports whether the slot's request is satisfied this tick.
func (e *Engine) check(slot *primitives.Request, run bool, runValue uint16) bool {
	switch slot.Kind.Family() {
	case primitives.FamilyKeypad:
		return run && runValue == slot.Value

	case primitives.FamilyKnob:
		return e.knobPosition() == slot.Value

	case primitives.FamilyRFID:
		want, ok := e.catalog.Token(slot.Value)
		if ok && e.hasToken && e.token == want {
			e.hasToken = false
			return true
		}
		return false

	default:
		level := e.sensors.ReadSwitch(e.catalog.Channel(slot.Kind))
		if uint16(level) != slot.Value {
			slot.Debounce = e.cfg.DebounceTicks
			return false
		}
		slot.Debounce--
		return slot.Debounce == 0
	}
}

// knobPosition maps the ADC sample onto [0, KnobRange).
func (e *Engine) knobPosition() uint16 {
	divisor := uint16(primitives.MaxADC) / e.cfg.KnobRange
	pos := e.sensors.ReadKnob() / divisor
	if pos >= e.cfg.KnobRange {
		pos = e.cfg.KnobRange - 1
	}
	return pos
}

// complete reports success to the owner, frees the slot and, for our own
// request, issues the next one.
func (e *Engine) complete(ctx context.Context, i int) {
	req := *e.table.Slot(i)
	e.table.Free(i)
	e.stats.Completed++
	e.logger.Printf("[Engine] completed %s", req)
	e.publish(ctx, Notice{Kind: NoticeCompleted, Request: req})

	e.Send(ctx, primitives.MsgRequestCompleted, req.Kind, e.self, req.Owner, req.Value)
	if req.Owner == e.self {
		e.GenerateNext(ctx)
	}
}
