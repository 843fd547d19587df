package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	spaceteam "github.com/comalice/spaceteam"
	"github.com/comalice/spaceteam/internal/bus"
	"github.com/comalice/spaceteam/internal/core"
	"github.com/comalice/spaceteam/internal/hal"
	"github.com/comalice/spaceteam/internal/player"
	"github.com/comalice/spaceteam/internal/primitives"
	"github.com/comalice/spaceteam/internal/production"
	"github.com/comalice/spaceteam/internal/radio"
	"github.com/comalice/spaceteam/realtime"
)

const (
	scanPeriod   = 250 * time.Millisecond
	badgeHold    = time.Second
	playerPeriod = 20 * time.Millisecond
	joinTimeout  = 5 * time.Second
)

// simBoard is one board with its simulated peripherals.
type simBoard struct {
	cfg    primitives.BoardConfig
	eng    *core.Engine
	sched  *realtime.Scheduler
	panel  *hal.Panel
	leds   *hal.LEDBank
	lcd    *hal.LCDController
	field  *hal.RFIDField
	reader *hal.RFIDReader
	link   radio.Link
	player *player.Player
}

type table struct {
	cfg       simConfig
	boards    []*simBoard
	notices   chan core.Notice
	publisher *production.ChannelPublisher
	store     *production.SnapshotStore
	masterIdx int
	wg        sync.WaitGroup
}

func newTable(cfg simConfig, template primitives.BoardConfig) (*table, error) {
	if int(template.MasterID) >= cfg.Players {
		return nil, fmt.Errorf("master_id %d not among %d players", template.MasterID, cfg.Players)
	}
	quiet := log.New(io.Discard, "", 0)
	engineLog := quiet
	if cfg.Verbose {
		engineLog = log.Default()
	}

	air := radio.NewAir(
		radio.WithRetries(int(template.RadioRetries)),
		radio.WithLoss(func(src, dst primitives.Address, attempt int) bool {
			return rand.Float64() < cfg.Loss
		}),
		radio.WithLogger(engineLog),
	)

	t := &table{cfg: cfg, notices: make(chan core.Notice, 256), masterIdx: int(template.MasterID)}
	t.publisher = production.NewChannelPublisher(t.notices)

	if cfg.SnapshotDir != "" {
		store, err := production.NewSnapshotStore(cfg.SnapshotDir, production.FormatYAML)
		if err != nil {
			return nil, err
		}
		t.store = store
	}

	for i := 0; i < cfg.Players; i++ {
		bcfg := template
		bcfg.BoardID = primitives.BoardID(i)
		bcfg.Role = ""

		b := &simBoard{
			cfg:   bcfg,
			panel: hal.NewPanel(),
			leds:  &hal.LEDBank{},
			lcd:   hal.NewLCDController(),
			field: hal.NewRFIDField(),
		}
		spi := bus.New(bus.Devices{bus.Display: b.lcd, bus.RFID: b.field})
		b.reader = hal.NewRFIDReader(spi)
		b.link = radio.OnBus(air.NewLink(), spi)

		eng, err := core.NewEngine(bcfg,
			core.WithLogger(engineLog),
			core.WithRadio(b.link),
			core.WithDisplay(hal.NewLCD(spi, 0, engineLog)),
			core.WithSensors(b.panel),
			core.WithLEDs(b.leds),
			core.WithSeeder(b.panel),
			core.WithPublisher(t.publisher),
		)
		if err != nil {
			return nil, fmt.Errorf("board %d: %w", i, err)
		}
		if err := eng.Start(context.Background()); err != nil {
			return nil, fmt.Errorf("board %d: %w", i, err)
		}
		b.eng = eng
		b.sched = realtime.NewScheduler(eng, realtime.Config{
			TickRate:      cfg.TickRate,
			DeadlineTicks: cfg.DeadlineTicks,
			Logger:        engineLog,
		})
		eng.UseDeadlineTimer(b.sched)
		b.player = player.New(b.panel, eng.Catalog(), bcfg.KnobRange, func(tok primitives.Token) {
			b.field.Present(tok, badgeHold)
		})
		t.boards = append(t.boards, b)
	}
	return t, nil
}

func (t *table) master() *simBoard { return t.boards[t.masterIdx] }

// run drives the boards until ctx ends or enough rounds were played.
func (t *table) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, b := range t.boards {
		if err := b.sched.Start(ctx); err != nil {
			log.Printf("[Sim] board %d: %v", b.cfg.BoardID, err)
			continue
		}
		t.spawn(func() { realtime.Pump(ctx, b.sched, realtime.KindRadio, b.link.Events()) })
		t.spawn(func() { realtime.ScanTokens(ctx, b.sched, b.reader, scanPeriod) })
		t.spawn(func() { t.play(ctx, b) })
	}
	t.spawn(func() { t.logNotices(ctx) })
	if t.store != nil {
		t.spawn(func() { t.snapshots(ctx) })
	}

	t.host(ctx)
	cancel()

	for _, b := range t.boards {
		_ = b.sched.Stop()
	}
	t.wg.Wait()
}

func (t *table) spawn(fn func()) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		fn()
	}()
}

// host plays the person at the master board: wait for everyone to join,
// press begin, and start a fresh game after each game over.
func (t *table) host(ctx context.Context) {
	m := t.master()
	joinBy := time.Now().Add(joinTimeout)
	for len(m.eng.Roster()) < len(t.boards) && time.Now().Before(joinBy) {
		if !sleep(ctx, 50*time.Millisecond) {
			return
		}
	}
	log.Printf("[Sim] roster %v", m.eng.Roster())
	t.pressBegin(ctx)

	rounds := 0
	for {
		if !sleep(ctx, 100*time.Millisecond) {
			return
		}
		if m.eng.State() != spaceteam.StateOver {
			continue
		}
		rounds++
		log.Printf("[Sim] game %d over", rounds)
		if t.cfg.Rounds > 0 && rounds >= t.cfg.Rounds {
			return
		}
		if !sleep(ctx, time.Second) {
			return
		}
		t.pressBegin(ctx) // Over -> Waiting
		if !sleep(ctx, 500*time.Millisecond) {
			return
		}
		t.pressBegin(ctx) // Waiting -> Started
	}
}

func (t *table) pressBegin(ctx context.Context) {
	m := t.master()
	hold := time.Duration(m.cfg.DebounceTicks+5) * t.cfg.TickRate
	m.panel.SetSwitch(m.cfg.BeginChannel, 1)
	sleep(ctx, hold)
	m.panel.SetSwitch(m.cfg.BeginChannel, 0)
	sleep(ctx, hold)
}

// play watches the board's own request and, with probability Skill, acts on
// it after a human-ish reaction time inside the deadline.
func (t *table) play(ctx context.Context, b *simBoard) {
	budget := time.Duration(b.cfg.RequestDeadline) * time.Duration(t.cfg.DeadlineTicks) * t.cfg.TickRate
	var (
		seen   uint64
		target primitives.Request
		due    time.Time
		act    bool
	)

	ticker := time.NewTicker(playerPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if b.eng.State() != spaceteam.StateStarted {
			continue
		}
		if gen := b.eng.Stats().Generated; gen != seen {
			seen = gen
			target, act = own(b), rand.Float64() < t.cfg.Skill
			due = time.Now().Add(budget/10 + rand.N(budget*6/10+1))
		}
		if !act || time.Now().Before(due) {
			continue
		}
		act = false
		if current := own(b); current != target {
			continue
		}
		if err := b.player.Solve(target); err != nil {
			log.Printf("[Sim] board %d: %v", b.cfg.BoardID, err)
		}
	}
}

func own(b *simBoard) primitives.Request {
	for _, r := range b.eng.Requests() {
		if r.Owner == b.cfg.BoardID {
			r.Debounce = 0
			r.Deadline = 0
			return r
		}
	}
	return primitives.Request{}
}

func (t *table) logNotices(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-t.notices:
			if !ok {
				return
			}
			switch n.Kind {
			case core.NoticeState:
				log.Printf("[Sim] board %d -> %s", n.Board, n.State)
			case core.NoticeCompleted, core.NoticeFailed:
				log.Printf("[Sim] board %d %s %s (health %d)", n.Board, n.Kind, n.Request.Kind, n.Health)
			case core.NoticeJoined:
				log.Printf("[Sim] board %d sees board %d", n.Board, n.Peer)
			}
		}
	}
}

func (t *table) snapshots(ctx context.Context) {
	ticker := time.NewTicker(t.cfg.SnapshotEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.saveSnapshots(ctx); err != nil {
				log.Printf("[Sim] snapshot: %v", err)
			}
		}
	}
}

func (t *table) saveSnapshots(ctx context.Context) error {
	var errs []error
	for _, b := range t.boards {
		if err := t.store.Save(ctx, b.eng.Snapshot()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *table) report() {
	for _, b := range t.boards {
		s := b.eng.Snapshot()
		log.Printf("[Sim] board %d %s health=%d completed=%d failed=%d tx=%d rx=%d drops=%d/%d/%d lcd=[%s|%s] leds=%s",
			s.Board, s.State, s.Health, s.Stats.Completed, s.Stats.Failed,
			s.Stats.Transmitted, s.Stats.Received,
			s.Stats.RadioDrops, s.Stats.QueueDrops, s.Stats.AckDrops,
			b.lcd.Visible(hal.Line1), b.lcd.Visible(hal.Line2), ledString(b.leds))
	}
}

func ledString(l *hal.LEDBank) string {
	var sb strings.Builder
	for _, on := range l.Snapshot() {
		if on {
			sb.WriteByte('*')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// finish writes the final snapshots and the master's roster graph.
func (t *table) finish() error {
	defer t.publisher.Close()
	if t.store == nil {
		return nil
	}
	ctx := context.Background()
	if err := t.saveSnapshots(ctx); err != nil {
		return err
	}

	m := t.master()
	dot, err := (&production.DefaultVisualizer{}).ExportDOT(m.eng.Snapshot(), m.cfg.MasterID)
	if err != nil {
		return err
	}
	fn := filepath.Join(t.cfg.SnapshotDir, "table.dot")
	if err := os.WriteFile(fn, []byte(dot), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	log.Printf("[Sim] snapshots in %s", t.cfg.SnapshotDir)
	return nil
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
