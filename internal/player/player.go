// Package player drives a simulated panel to satisfy requests, the way a
// person at the console would.
package player

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/comalice/spaceteam/internal/hal"
	"github.com/comalice/spaceteam/internal/primitives"
)

var ErrNoTokenSink = errors.New("no token sink for rfid request")

// TokenSink presents a badge to the board's reader.
type TokenSink func(primitives.Token)

// Player acts on one board's controls.
type Player struct {
	panel     *hal.Panel
	catalog   *primitives.Catalog
	knobRange uint16
	tokens    TokenSink
}

func New(panel *hal.Panel, catalog *primitives.Catalog, knobRange uint16, tokens TokenSink) *Player {
	return &Player{panel: panel, catalog: catalog, knobRange: knobRange, tokens: tokens}
}

// Solve sets the controls so req is satisfied on the next checks. Switch
// requests need the level held for the debounce window afterwards.
func (p *Player) Solve(req primitives.Request) error {
	switch req.Kind.Family() {
	case primitives.FamilyKeypad:
		keys := make([]hal.Key, 0, primitives.MaxKeypresses+1)
		for _, c := range strconv.Itoa(int(req.Value)) {
			keys = append(keys, hal.Key(c-'0'))
		}
		p.panel.Press(append(keys, hal.KeyRun)...)

	case primitives.FamilyKnob:
		step := uint16(primitives.MaxADC) / p.knobRange
		p.panel.SetKnob(req.Value*step + step/2)

	case primitives.FamilyRFID:
		if p.tokens == nil {
			return ErrNoTokenSink
		}
		tok, ok := p.catalog.Token(req.Value)
		if !ok {
			return fmt.Errorf("solve %s: no token %d", req.Kind, req.Value)
		}
		p.tokens(tok)

	default:
		ch := p.catalog.Channel(req.Kind)
		if ch < 0 {
			return fmt.Errorf("solve %s: unwired", req.Kind)
		}
		p.panel.SetSwitch(ch, uint8(req.Value))
	}
	return nil
}
