// Command spaceteam-sim runs a whole table of boards in one process: each
// board gets its own engine, scheduler, simulated LCD and RFID reader on a
// private bus, and a scripted player. The boards talk over a simulated air.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/comalice/spaceteam/internal/primitives"
	"github.com/comalice/spaceteam/internal/production"
)

const serviceName = "spaceteam-sim"

type simConfig struct {
	Players       int           `env:"SPACETEAM_SIM_PLAYERS" envDefault:"4"`
	BoardConfig   string        `env:"SPACETEAM_SIM_BOARD_CONFIG"`
	Duration      time.Duration `env:"SPACETEAM_SIM_DURATION" envDefault:"60s"`
	TickRate      time.Duration `env:"SPACETEAM_SIM_TICK_RATE" envDefault:"1ms"`
	DeadlineTicks uint64        `env:"SPACETEAM_SIM_DEADLINE_TICKS" envDefault:"2000"`
	Rounds        int           `env:"SPACETEAM_SIM_ROUNDS" envDefault:"2"`
	Skill         float64       `env:"SPACETEAM_SIM_SKILL" envDefault:"0.8"`
	Loss          float64       `env:"SPACETEAM_SIM_LOSS" envDefault:"0.05"`
	SnapshotDir   string        `env:"SPACETEAM_SIM_SNAPSHOT_DIR"`
	SnapshotEvery time.Duration `env:"SPACETEAM_SIM_SNAPSHOT_EVERY" envDefault:"5s"`
	Verbose       bool          `env:"SPACETEAM_SIM_VERBOSE"`
}

// parseConfig loads env defaults and then lets flags override them.
func parseConfig(fs *flag.FlagSet, args []string) (simConfig, error) {
	var cfg simConfig
	if err := env.Parse(&cfg); err != nil {
		return simConfig{}, fmt.Errorf("parse env: %w", err)
	}
	fs.IntVar(&cfg.Players, "players", cfg.Players, "number of boards")
	fs.StringVar(&cfg.BoardConfig, "board-config", cfg.BoardConfig, "YAML board config template")
	fs.DurationVar(&cfg.Duration, "duration", cfg.Duration, "how long to run")
	fs.DurationVar(&cfg.TickRate, "tick", cfg.TickRate, "poll tick period")
	fs.Uint64Var(&cfg.DeadlineTicks, "deadline-ticks", cfg.DeadlineTicks, "poll ticks per deadline tick")
	fs.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "games to play before stopping (0 = until duration)")
	fs.Float64Var(&cfg.Skill, "skill", cfg.Skill, "chance a player acts on a request in time")
	fs.Float64Var(&cfg.Loss, "loss", cfg.Loss, "chance a radio attempt is lost")
	fs.StringVar(&cfg.SnapshotDir, "snapshots", cfg.SnapshotDir, "directory for periodic YAML snapshots")
	fs.DurationVar(&cfg.SnapshotEvery, "snapshot-every", cfg.SnapshotEvery, "snapshot period")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "log engine internals")
	if err := fs.Parse(args); err != nil {
		return simConfig{}, err
	}

	switch {
	case cfg.Players < 1 || cfg.Players > primitives.MaxPlayers:
		return simConfig{}, fmt.Errorf("players %d out of [1, %d]", cfg.Players, primitives.MaxPlayers)
	case cfg.Skill < 0 || cfg.Skill > 1:
		return simConfig{}, fmt.Errorf("skill %v out of [0, 1]", cfg.Skill)
	case cfg.Loss < 0 || cfg.Loss >= 1:
		return simConfig{}, fmt.Errorf("loss %v out of [0, 1)", cfg.Loss)
	case cfg.TickRate <= 0:
		return simConfig{}, errors.New("tick must be positive")
	}
	return cfg, nil
}

func main() {
	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		log.Printf("[Sim] %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg simConfig) error {
	shutdown, err := production.SetupTracing(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			log.Printf("[Sim] otel shutdown: %v", err)
		}
	}()

	template, err := production.LoadBoardConfig(cfg.BoardConfig)
	if err != nil {
		if !production.IsMissing(err) {
			return err
		}
		log.Printf("[Sim] %s not found, using stock board config", cfg.BoardConfig)
		template = primitives.DefaultBoardConfig(0)
	}

	tbl, err := newTable(cfg, template)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	log.Printf("[Sim] %d boards, tick %v, skill %.2f, loss %.2f", cfg.Players, cfg.TickRate, cfg.Skill, cfg.Loss)
	tbl.run(ctx)
	tbl.report()
	return tbl.finish()
}
