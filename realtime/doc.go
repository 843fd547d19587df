// Package realtime provides the tick-based deterministic scheduler that drives a board.
//
// Every hardware interrupt source becomes an Event posted
// into a single batch. Once per tick (1 kHz by default) the scheduler:
//   - Collects the batch atomically
//   - Appends its own timer events (poll every tick, deadline and scroll on their periods)
//   - Sorts by priority, then sequence number
//   - Dispatches each event to one Handler, in order, on one goroutine
//
// The Handler therefore owns all board state without locks. Producers (radio
// links, the RFID scan loop) only call Post.
//
// # Example Usage
//
//	sched := realtime.NewScheduler(engine, realtime.Config{
//		TickRate:      time.Millisecond,
//		DeadlineTicks: 2000,
//	})
//	engine.UseDeadlineTimer(sched)
//	go realtime.Pump(ctx, sched, realtime.KindRadio, link.Events())
//	sched.Start(ctx)
//	defer sched.Stop()
//
// Tests drive the scheduler with Step, one tick at a time, and never start the ticker.
//
// # Event Ordering Guarantees
//
// Events are ordered deterministically using:
//  1. Priority (radio > deadline > poll > scroll > main loop)
//  2. Sequence number (FIFO for same priority)
//  3. Stable sorting (preserves relative order)
//
// Given the same sequence of Post calls between ticks, the handler observes
// the same sequence of events regardless of goroutine scheduling.
package realtime
