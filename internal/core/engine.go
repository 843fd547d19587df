package core

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	spaceteam "github.com/comalice/spaceteam"
	"github.com/comalice/spaceteam/internal/hal"
	"github.com/comalice/spaceteam/internal/primitives"
	"github.com/comalice/spaceteam/internal/radio"
	"github.com/comalice/spaceteam/realtime"
)

// Seeder is the free-running hardware counter sampled at game start.
type Seeder interface {
	Counter() uint16
}

// DeadlineTimer restarts the deadline period. realtime.Scheduler implements it.
type DeadlineTimer interface {
	RearmDeadline()
}

type clockSeeder struct{}

func (clockSeeder) Counter() uint16 { return uint16(time.Now().UnixNano() >> 10) }

// Engine is the single owner of one board's game state.
// HandleEvent and the accessors are safe for concurrent use; the
// scheduler is expected to be the only caller of HandleEvent.
// Send, Handle, Register, Deregister and GenerateNext run inside a tick and
// take no lock: call them only from the goroutine that owns the engine.
type Engine struct {
	mu sync.Mutex

	cfg     primitives.BoardConfig
	self    primitives.BoardID
	master  primitives.BoardID
	role    primitives.Role
	catalog *primitives.Catalog
	logger  *log.Logger

	link      radio.Link
	display   hal.Display
	sensors   hal.Sensors
	leds      hal.LEDs
	seeder    Seeder
	publisher Publisher
	deadlines DeadlineTimer

	lifecycle *spaceteam.Machine
	lfsr      LFSR
	table     Table
	keypad    keypadBuffer
	token     primitives.Token
	hasToken  bool
	health    uint8
	armed     bool
	ledIndex  int
	beginHeld uint8

	roster   Roster
	discover cursor
	poller   cursor
	router   routerState

	stats Stats
}

// NewEngine validates cfg and wires the collaborators. Sensors default to an
// idle panel; display and LEDs default to no-ops.
func NewEngine(cfg primitives.BoardConfig, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("board config: %w", err)
	}
	catalog, err := primitives.NewCatalog(&cfg)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:     cfg,
		self:    cfg.BoardID,
		master:  cfg.MasterID,
		role:    cfg.EffectiveRole(),
		catalog: catalog,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.link == nil {
		return nil, ErrNoRadio
	}
	if e.display == nil {
		e.display = nopDisplay{}
	}
	if e.sensors == nil {
		e.sensors = hal.NewPanel()
	}
	if e.leds == nil {
		e.leds = nopLEDs{}
	}
	if e.seeder == nil {
		e.seeder = clockSeeder{}
	}

	e.lifecycle, err = spaceteam.NewLifecycle(spaceteam.LifecycleActions{
		Waiting: e.enterWaiting,
		Started: e.enterStarted,
		Over:    e.enterOver,
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Start brings up the radio on this board's address and enters Waiting.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	addr, err := primitives.AddressOf(e.self)
	if err != nil {
		return err
	}
	if err := e.link.Init(addr); err != nil {
		return fmt.Errorf("radio init: %w", err)
	}
	if _, err := e.roster.Add(e.self); err != nil {
		return err
	}
	e.logger.Printf("[Engine] board %d up as %s", e.self, e.role)
	return e.lifecycle.Start(ctx)
}

// HandleEvent dispatches one scheduler event.
func (e *Engine) HandleEvent(ctx context.Context, ev realtime.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch ev.Kind {
	case realtime.KindRadio:
		rev, ok := ev.Payload.(radio.Event)
		if !ok {
			e.logger.Printf("[Engine] radio event with payload %T", ev.Payload)
			return
		}
		e.handleRadio(ctx, rev)
	case realtime.KindDeadline:
		e.deadlineTick(ctx)
	case realtime.KindPoll:
		e.pollTick(ctx)
	case realtime.KindScroll:
		if s, ok := e.display.(hal.Scroller); ok {
			s.Scroll()
		}
	case realtime.KindMainLoop:
		switch p := ev.Payload.(type) {
		case primitives.Token:
			e.token, e.hasToken = p, true
		default:
			e.logger.Printf("[Engine] main-loop payload %T ignored", ev.Payload)
		}
	}
}

// pollTick is the 1 kHz interrupt: LEDs, request checks, Master cadence.
func (e *Engine) pollTick(ctx context.Context) {
	e.stepLEDs()

	if e.lifecycle.Current() == spaceteam.StateStarted {
		e.checkRequests(ctx)
	}

	if e.role == primitives.RoleMaster {
		e.pollBeginButton(ctx)
		e.masterCadence(ctx)
	}
}

// pollBeginButton fires Begin once per debounced press.
func (e *Engine) pollBeginButton(ctx context.Context) {
	if e.sensors.ReadSwitch(e.cfg.BeginChannel) == 0 {
		e.beginHeld = 0
		return
	}
	if e.beginHeld >= e.cfg.DebounceTicks {
		return
	}
	e.beginHeld++
	if e.beginHeld == e.cfg.DebounceTicks && e.lifecycle.Current() != spaceteam.StateStarted {
		e.logger.Printf("[Engine] begin pressed in %s", e.lifecycle.Current())
		e.Send(ctx, primitives.MsgBegin, 0, e.self, e.self, 0)
	}
}

func (e *Engine) fire(ctx context.Context, trig spaceteam.Trigger) {
	from := e.lifecycle.Current()
	taken, err := e.lifecycle.Fire(ctx, trig)
	if err != nil {
		e.logger.Printf("[Engine] %s in %s: %v", trig, from, err)
	}
	if taken {
		e.logger.Printf("[Engine] %s -> %s", from, e.lifecycle.Current())
		e.publish(ctx, Notice{Kind: NoticeState})
	}
}

// UseDeadlineTimer attaches the timer behind KindDeadline events. Each issued
// request re-arms it, so a request gets the full RequestDeadline periods.
// Call it before the scheduler starts.
func (e *Engine) UseDeadlineTimer(t DeadlineTimer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deadlines = t
}

// State returns the current game state.
func (e *Engine) State() spaceteam.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lifecycle.Current()
}

func (e *Engine) Health() uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.health
}

func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Requests returns the occupied table slots.
func (e *Engine) Requests() []primitives.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.Active()
}

func (e *Engine) Roster() []primitives.BoardID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.roster.Members()
}

func (e *Engine) Catalog() *primitives.Catalog { return e.catalog }

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Board:    e.self,
		Role:     e.role,
		State:    e.lifecycle.Current().String(),
		Health:   e.health,
		Armed:    e.armed,
		Roster:   e.roster.Members(),
		Requests: e.table.Active(),
		Busy:     e.router.busy,
		Queued:   e.router.queue.len(),
		LFSR:     e.lfsr.State(),
		Stats:    e.stats,
	}
}

type nopDisplay struct{}

func (nopDisplay) WriteLine(int, string) {}
func (nopDisplay) ClearLine(int)         {}

type nopLEDs struct{}

func (nopLEDs) Set(int, bool) {}
