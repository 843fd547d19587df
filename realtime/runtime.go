package realtime

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

var (
	ErrQueueFull      = errors.New("event queue full")
	ErrAlreadyStarted = errors.New("scheduler already started")
)

// Handler consumes dispatched events. It is only ever called from one goroutine.
type Handler interface {
	HandleEvent(ctx context.Context, ev Event)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ev Event)

func (f HandlerFunc) HandleEvent(ctx context.Context, ev Event) { f(ctx, ev) }

// Config configures the scheduler
type Config struct {
	TickRate         time.Duration // Poll period (default 1ms)
	DeadlineTicks    uint64        // Ticks between deadline events (default 2000)
	ScrollTicks      uint64        // Ticks between scroll events (default 250)
	MaxEventsPerTick int           // Posted-event capacity per tick (default 256)
	Logger           *log.Logger
}

// Scheduler batches posted events and dispatches them once per tick.
type Scheduler struct {
	handler Handler
	cfg     Config
	logger  *log.Logger

	tickNum      uint64
	deadlineBase uint64
	eventBatch   []EventWithMeta
	batchMu      sync.Mutex
	sequenceNum  uint64

	runMu   sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewScheduler creates a scheduler dispatching to h.
func NewScheduler(h Handler, cfg Config) *Scheduler {
	if cfg.TickRate == 0 {
		cfg.TickRate = time.Millisecond
	}
	if cfg.DeadlineTicks == 0 {
		cfg.DeadlineTicks = 2000
	}
	if cfg.ScrollTicks == 0 {
		cfg.ScrollTicks = 250
	}
	if cfg.MaxEventsPerTick == 0 {
		cfg.MaxEventsPerTick = 256
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Scheduler{
		handler:    h,
		cfg:        cfg,
		logger:     cfg.Logger,
		eventBatch: make([]EventWithMeta, 0, cfg.MaxEventsPerTick),
	}
}

// Post queues an event for the next tick. Safe for concurrent use.
func (s *Scheduler) Post(kind EventKind, payload any) error {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()

	if len(s.eventBatch) >= s.cfg.MaxEventsPerTick {
		return ErrQueueFull
	}
	s.appendLocked(Event{Kind: kind, Payload: payload})
	return nil
}

func (s *Scheduler) appendLocked(ev Event) {
	s.eventBatch = append(s.eventBatch, EventWithMeta{
		Event:       ev,
		SequenceNum: s.sequenceNum,
		Priority:    ev.Kind.Priority(),
	})
	s.sequenceNum++
}

// RearmDeadline restarts the deadline period from the current tick: the
// next deadline event fires DeadlineTicks ticks later. Safe to call from
// the handler during a tick.
func (s *Scheduler) RearmDeadline() {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	s.deadlineBase = s.tickNum
}

// Step runs exactly one tick on the calling goroutine.
func (s *Scheduler) Step(ctx context.Context) {
	s.processTick(ctx)
}

// Start begins ticking in a background goroutine.
func (s *Scheduler) Start(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel != nil {
		return ErrAlreadyStarted
	}

	tickCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopped = make(chan struct{})

	go s.tickLoop(tickCtx, s.stopped)
	return nil
}

// Stop halts the tick loop and waits for it to exit. Stop without Start is a no-op.
func (s *Scheduler) Stop() error {
	s.runMu.Lock()
	cancel, stopped := s.cancel, s.stopped
	s.cancel = nil
	s.runMu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-stopped
	return nil
}

// tickLoop is the main tick execution loop
func (s *Scheduler) tickLoop(ctx context.Context, stopped chan struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(s.cfg.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.safeTick(ctx)
		}
	}
}

// safeTick runs one tick, logging a handler panic instead of crashing the loop.
func (s *Scheduler) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("[Scheduler] tick %d panic: %v", s.TickNumber(), r)
		}
	}()
	s.processTick(ctx)
}

// TickNumber returns the number of ticks processed so far.
func (s *Scheduler) TickNumber() uint64 {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return s.tickNum
}

// Pending returns the number of posted events waiting for the next tick.
func (s *Scheduler) Pending() int {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return len(s.eventBatch)
}
