// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"context"
	"io"
	"log"

	"gopkg.in/yaml.v3"

	"github.com/comalice/spaceteam/internal/core"
	"github.com/comalice/spaceteam/internal/hal"
	"github.com/comalice/spaceteam/internal/primitives"
	"github.com/comalice/spaceteam/internal/radio"
	"github.com/comalice/spaceteam/realtime"
	"github.com/comalice/spaceteam/testutil"
)

var quiet = log.New(io.Discard, "", 0)

// NewStartedEngine returns a Master engine already in Started, on a stub radio,
// with extra requests from other boards filling the table.
func NewStartedEngine(extra int) (*core.Engine, *hal.Panel, *radio.Stub) {
	panel := hal.NewPanel()
	stub := radio.NewStub()
	eng, err := core.NewEngine(primitives.DefaultBoardConfig(0),
		core.WithLogger(quiet),
		core.WithRadio(stub),
		core.WithSensors(panel),
		core.WithSeeder(testutil.FixedSeeder(0xACE1)),
	)
	if err != nil {
		panic(err)
	}
	ctx := context.Background()
	if err := eng.Start(ctx); err != nil {
		panic(err)
	}
	eng.Send(ctx, primitives.MsgBegin, 0, 0, 0, 0)

	kinds := []primitives.RequestKind{primitives.KindKeypad, primitives.KindKnob, primitives.KindPB2, primitives.KindTilt}
	for i := 0; i < extra && i < primitives.MaxPlayers-1; i++ {
		eng.Handle(ctx, primitives.MsgNewRequest, kinds[i%len(kinds)], primitives.BoardID(i+1), 0, uint16(i+1))
	}
	return eng, panel, stub
}

// drain discards stub radio events so the stub never blocks.
func drain(stub *radio.Stub) {
	for {
		select {
		case <-stub.Events():
		default:
			return
		}
	}
}

// GenSnapshotYAML runs a network of players for ticks and returns the
// Master's snapshot as YAML.
func GenSnapshotYAML(players, ticks int) []byte {
	n, err := testutil.NewNetwork(testutil.NetworkConfig{
		Players: players,
		Seed:    0xBEEF,
		Sched:   realtime.Config{DeadlineTicks: 100, Logger: quiet},
		Tune: func(c *primitives.BoardConfig) {
			c.DiscoverEvery = 2
			c.PollEvery = 5
		},
	})
	if err != nil {
		panic(err)
	}
	a := testutil.NewStepAdapter(n.Boards...)
	a.Advance(4 * primitives.MaxPlayers)
	n.PressBegin(a)
	a.Advance(ticks)

	data, err := yaml.Marshal(n.Master().Engine.Snapshot())
	if err != nil {
		panic(err)
	}
	return data
}
