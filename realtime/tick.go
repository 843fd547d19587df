package realtime

import "context"

// processTick processes one complete tick
func (s *Scheduler) processTick(ctx context.Context) {
	tick := s.advance()

	// Phase 1: Timer sources fire into the batch
	s.fireTimers(tick)

	// Phase 2: Collect events atomically
	events := s.collectEvents()

	// Phase 3: Sort for deterministic order
	sortEvents(events)

	// Phase 4: Dispatch to the single owner
	for _, meta := range events {
		meta.Event.Tick = tick
		s.handler.HandleEvent(ctx, meta.Event)
	}
}

func (s *Scheduler) advance() uint64 {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	s.tickNum++
	return s.tickNum
}

// fireTimers appends the periodic events due on this tick. Timer events
// bypass the batch capacity: the poll tick is never dropped.
func (s *Scheduler) fireTimers(tick uint64) {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()

	if (tick-s.deadlineBase)%s.cfg.DeadlineTicks == 0 {
		s.appendLocked(Event{Kind: KindDeadline})
	}
	s.appendLocked(Event{Kind: KindPoll})
	if tick%s.cfg.ScrollTicks == 0 {
		s.appendLocked(Event{Kind: KindScroll})
	}
}

// collectEvents atomically retrieves and clears the event batch
func (s *Scheduler) collectEvents() []EventWithMeta {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()

	events := s.eventBatch
	s.eventBatch = make([]EventWithMeta, 0, cap(events))
	return events
}
