package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/scene"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	level      string
	frames     int
	dt         float64
	holds      string
	workers    int
	events     bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "platformer.toml", "path to the TOML config (missing file uses defaults)")
	fs.StringVar(&o.level, "level", "", "level name in levels/")
	fs.IntVar(&o.frames, "frames", 120, "frames to simulate")
	fs.Float64Var(&o.dt, "dt", 0, "seconds per frame (0 uses 1/tps from config)")
	fs.StringVar(&o.holds, "hold", "", `held keys, e.g. "Space@10-20,ArrowRight@0-60"`)
	fs.IntVar(&o.workers, "workers", 0, "parallel entity workers (0 uses config)")
	fs.BoolVar(&o.events, "events", false, "print contact and jump events")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.frames < 0 {
		return options{}, fmt.Errorf("frames must be >= 0, got %d", o.frames)
	}
	return o, nil
}

func run(args []string, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.level != "" {
		cfg.World.Level = o.level
	}
	if o.workers > 0 {
		cfg.World.Workers = o.workers
	}
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	holds, err := parseHolds(o.holds)
	if err != nil {
		return err
	}
	dt := o.dt
	if dt == 0 {
		dt = cfg.Step()
	}

	sc, err := scene.Load(cfg, cfg.World.Level)
	if err != nil {
		return err
	}
	log.Debug("simulating",
		zap.String("level", sc.Name),
		zap.Int("frames", o.frames),
		zap.Float64("dt", dt),
		zap.Int("workers", cfg.World.Workers),
	)

	out := bufio.NewWriter(stdout)
	defer out.Flush()
	if err := simulate(sc.World, holds, o.frames, dt, o.events, out); err != nil {
		log.Error("simulation stopped", zap.Uint32("frame", sc.World.Frame()), zap.Error(err))
		return err
	}
	return nil
}

// simulate steps w and writes one trace line per live entity per frame:
//
//	frame id x y vx vy tx ty
func simulate(w *ecs.World, holds []hold, frames int, dt float64, events bool, out io.Writer) error {
	keys := ecs.NewKeySet()
	for i := 0; i < frames; i++ {
		keysAt(holds, i, keys)
		if err := w.Update(keys, dt); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		frame := w.Frame()
		var werr error
		w.Each(func(id ecs.EntityID, e *ecs.Entity) {
			if werr != nil {
				return
			}
			_, werr = fmt.Fprintf(out, "%d %s %.6f %.6f %.6f %.6f %g %g\n",
				frame, id, e.Position.X, e.Position.Y, e.Velocity.X, e.Velocity.Y, e.Touch.X, e.Touch.Y)
		})
		if werr != nil {
			return werr
		}
		if !events {
			continue
		}
		for _, evt := range w.Events().Drain() {
			if _, err := fmt.Fprintf(out, "# %d %s\n", frame, describe(evt)); err != nil {
				return err
			}
		}
	}
	return nil
}

func describe(evt ecs.Event) string {
	switch evt.Kind {
	case ecs.EventWallContact:
		return fmt.Sprintf("contact %s %s %+g", evt.Entity, evt.Axis, evt.Dir)
	case ecs.EventJump:
		return fmt.Sprintf("jump %s", evt.Entity)
	}
	return fmt.Sprintf("%s %s", evt.Kind, evt.Entity)
}
