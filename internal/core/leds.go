package core

import (
	spaceteam "github.com/comalice/spaceteam"
	"github.com/comalice/spaceteam/internal/hal"
	"github.com/comalice/spaceteam/internal/primitives"
)

// LED bands while a game runs.
const (
	timeBandStart   = 0
	healthBandStart = 8
	bandWidth       = 8
)

// stepLEDs multiplexes the array: one indicator per tick, previous one off.
func (e *Engine) stepLEDs() {
	idx := e.ledIndex
	prev := (idx + hal.NumLEDs - 1) % hal.NumLEDs
	e.leds.Set(prev, false)
	e.leds.Set(idx, e.ledLit(idx))
	e.ledIndex = (idx + 1) % hal.NumLEDs
}

func (e *Engine) ledLit(idx int) bool {
	switch e.lifecycle.Current() {
	case spaceteam.StateStarted:
		if idx < healthBandStart {
			return idx-timeBandStart < int(e.remainingTime())
		}
		lit := int(e.health) * bandWidth / int(e.cfg.HealthMax)
		return idx-healthBandStart < lit
	case spaceteam.StateWaiting:
		return idx < primitives.MaxPlayers && e.roster.Has(primitives.BoardID(idx))
	}
	return false
}

// remainingTime is the deadline of our own armed request, capped to the band.
func (e *Engine) remainingTime() uint8 {
	if !e.armed {
		return 0
	}
	i := e.table.Owned(e.self)
	if i < 0 {
		return 0
	}
	d := e.table.Slot(i).Deadline
	if d > bandWidth {
		d = bandWidth
	}
	return d
}
