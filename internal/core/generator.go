package core

import (
	"context"

	"github.com/comalice/spaceteam/internal/primitives"
)

// drawRequest consumes three LFSR draws: kind, value, and one discarded
// draw that keeps the sequence aligned with the hardware cadence.
// Disabled kinds advance to the next enabled kind in catalog order.
// Switch kinds yield value 0; registration derives it from the live level.
func drawRequest(l *LFSR, cat *primitives.Catalog) (primitives.RequestKind, uint16) {
	kindDraw := l.Next()
	valueDraw := l.Next()
	l.Next()

	kind := primitives.RequestKind(kindDraw % uint16(primitives.NumKinds))
	for i := 0; i < int(primitives.NumKinds) && !cat.Enabled(kind); i++ {
		kind = (kind + 1) % primitives.NumKinds
	}

	var value uint16
	if kind.Family() != primitives.FamilySwitch {
		value = valueDraw % cat.Range(kind)
	}
	return kind, value
}

// GenerateNext issues this board's next request to itself and re-arms the deadline.
func (e *Engine) GenerateNext(ctx context.Context) {
	kind, value := drawRequest(&e.lfsr, e.catalog)
	e.stats.Generated++
	e.armed = true
	if e.deadlines != nil {
		e.deadlines.RearmDeadline()
	}
	e.Send(ctx, primitives.MsgNewRequest, kind, e.self, e.self, value)

	if i := e.table.Owned(e.self); i >= 0 {
		e.publish(ctx, Notice{Kind: NoticeGenerated, Request: *e.table.Slot(i)})
	}
}

// Register adds a request to the table. Switch kinds take the complement of
// the live line level as their target.
func (e *Engine) Register(kind primitives.RequestKind, owner primitives.BoardID, value uint16) error {
	if kind.Family() == primitives.FamilySwitch {
		value = uint16(1 - e.sensors.ReadSwitch(e.catalog.Channel(kind))&1)
	}
	_, err := e.table.Insert(primitives.Request{
		Kind:     kind,
		Owner:    owner,
		Value:    value,
		Debounce: e.cfg.DebounceTicks,
		Deadline: e.cfg.RequestDeadline,
	})
	if err != nil {
		e.stats.TableDrops++
		return err
	}
	return nil
}

// Deregister frees the first slot matching (kind, owner, value); otherwise no-op.
func (e *Engine) Deregister(kind primitives.RequestKind, owner primitives.BoardID, value uint16) {
	e.table.Remove(kind, owner, value)
}
