package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	spaceteam "github.com/comalice/spaceteam"
	"github.com/comalice/spaceteam/internal/core"
	"github.com/comalice/spaceteam/internal/hal"
	"github.com/comalice/spaceteam/internal/primitives"
	"github.com/comalice/spaceteam/internal/radio"
	"github.com/comalice/spaceteam/realtime"
)

// Board is one engine with simulated peripherals and its scheduler.
type Board struct {
	Engine  *core.Engine
	Sched   *realtime.Scheduler
	Panel   *hal.Panel
	Display *RecordingDisplay
	LEDs    *hal.LEDBank
	Link    radio.Link
	Config  primitives.BoardConfig
}

// NewBoard builds and starts a board. The knob rests at 0 so the game
// seed is exactly seed.
func NewBoard(cfg primitives.BoardConfig, link radio.Link, seed uint16, sched realtime.Config) (*Board, error) {
	b := &Board{
		Panel:   hal.NewPanel(),
		Display: &RecordingDisplay{},
		LEDs:    &hal.LEDBank{},
		Link:    link,
		Config:  cfg,
	}
	eng, err := core.NewEngine(cfg,
		core.WithLogger(Quiet()),
		core.WithRadio(link),
		core.WithDisplay(b.Display),
		core.WithSensors(b.Panel),
		core.WithLEDs(b.LEDs),
		core.WithSeeder(FixedSeeder(seed)),
	)
	if err != nil {
		return nil, err
	}
	if err := eng.Start(context.Background()); err != nil {
		return nil, err
	}
	if sched.Logger == nil {
		sched.Logger = Quiet()
	}
	b.Engine = eng
	b.Sched = realtime.NewScheduler(eng, sched)
	eng.UseDeadlineTimer(b.Sched)
	return b, nil
}

// collectRadio moves pending link events into the scheduler without blocking.
func (b *Board) collectRadio() {
	for {
		select {
		case ev := <-b.Link.Events():
			if err := b.Sched.Post(realtime.KindRadio, ev); err != nil {
				return
			}
		default:
			return
		}
	}
}

// Step runs one tick after collecting radio events.
func (b *Board) Step(ctx context.Context) {
	b.collectRadio()
	b.Sched.Step(ctx)
}

// BoardAdapter drives boards either tick by tick or in real time, so the
// same scenario can run both ways.
type BoardAdapter interface {
	Start(ctx context.Context) error
	Stop() error
	Advance(ticks int)
	Boards() []*Board
}

// StepAdapter advances every board in lockstep on the caller's goroutine.
type StepAdapter struct {
	boards []*Board
}

func NewStepAdapter(boards ...*Board) *StepAdapter {
	return &StepAdapter{boards: boards}
}

func (a *StepAdapter) Start(ctx context.Context) error { return nil }
func (a *StepAdapter) Stop() error                     { return nil }
func (a *StepAdapter) Boards() []*Board                { return a.boards }

func (a *StepAdapter) Advance(ticks int) {
	ctx := context.Background()
	for i := 0; i < ticks; i++ {
		for _, b := range a.boards {
			b.Step(ctx)
		}
	}
}

// TickerAdapter runs each board's scheduler on its own ticker with a radio pump.
type TickerAdapter struct {
	boards   []*Board
	tickRate time.Duration
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewTickerAdapter(tickRate time.Duration, boards ...*Board) *TickerAdapter {
	return &TickerAdapter{boards: boards, tickRate: tickRate}
}

func (a *TickerAdapter) Boards() []*Board { return a.boards }

func (a *TickerAdapter) Start(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)
	for _, b := range a.boards {
		a.wg.Add(1)
		go func(b *Board) {
			defer a.wg.Done()
			realtime.Pump(ctx, b.Sched, realtime.KindRadio, b.Link.Events())
		}(b)
		if err := b.Sched.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *TickerAdapter) Stop() error {
	for _, b := range a.boards {
		_ = b.Sched.Stop()
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()
	return nil
}

// Advance waits for roughly ticks ticks of wall time.
func (a *TickerAdapter) Advance(ticks int) {
	time.Sleep(time.Duration(ticks)*a.tickRate + 5*time.Millisecond)
}

// Network is a set of boards sharing one simulated air. Board 0 is Master.
type Network struct {
	Air    *radio.Air
	Boards []*Board
}

// NetworkConfig tunes a test network.
type NetworkConfig struct {
	Players int
	Seed    uint16
	Sched   realtime.Config
	Air     []radio.AirOption
	Tune    func(*primitives.BoardConfig)
}

func NewNetwork(nc NetworkConfig) (*Network, error) {
	if nc.Players < 1 || nc.Players > primitives.MaxPlayers {
		return nil, fmt.Errorf("players %d out of [1, %d]", nc.Players, primitives.MaxPlayers)
	}
	air := radio.NewAir(append([]radio.AirOption{radio.WithLogger(Quiet())}, nc.Air...)...)
	n := &Network{Air: air}
	for i := 0; i < nc.Players; i++ {
		cfg := primitives.DefaultBoardConfig(primitives.BoardID(i))
		if nc.Tune != nil {
			nc.Tune(&cfg)
		}
		b, err := NewBoard(cfg, air.NewLink(), nc.Seed+uint16(i)*0x1111, nc.Sched)
		if err != nil {
			return nil, fmt.Errorf("board %d: %w", i, err)
		}
		n.Boards = append(n.Boards, b)
	}
	return n, nil
}

func (n *Network) Master() *Board { return n.Boards[0] }

// PressBegin holds the Master's begin button long enough to register, then releases it.
func (n *Network) PressBegin(a BoardAdapter) {
	m := n.Master()
	m.Panel.SetSwitch(m.Config.BeginChannel, 1)
	a.Advance(int(m.Config.DebounceTicks) + 1)
	m.Panel.SetSwitch(m.Config.BeginChannel, 0)
	a.Advance(1)
}

// AllIn reports whether every board is in state.
func (n *Network) AllIn(state spaceteam.GameState) bool {
	for _, b := range n.Boards {
		if b.Engine.State() != state {
			return false
		}
	}
	return true
}
