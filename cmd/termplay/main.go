package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/input"
	"github.com/milk9111/platformer/render"
	"github.com/milk9111/platformer/scene"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "termplay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "platformer.toml", "path to the TOML config (missing file uses defaults)")
	levelName := flag.String("level", "", "level name in levels/")
	watch := flag.Bool("watch", false, "reload prefabs and levels when files change on disk")
	logPath := flag.String("log", "", "write logs to this file; the terminal is busy drawing")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *levelName != "" {
		cfg.World.Level = *levelName
	}
	cfg.Dev.Watch = cfg.Dev.Watch || *watch
	if *logPath != "" {
		cfg.Logging.Output = *logPath
	}

	log := zap.NewNop()
	if cfg.Logging.Output != "" {
		if log, err = config.NewLogger(cfg.Logging); err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		defer func() { _ = log.Sync() }()
	}

	sc, err := scene.Load(cfg, cfg.World.Level)
	if err != nil {
		return err
	}

	var reloader *scene.Reloader
	if cfg.Dev.Watch {
		if reloader, err = scene.NewReloader(cfg, cfg.World.Level, log, scene.WatchDirs()...); err != nil {
			log.Warn("hot reload disabled", zap.Error(err))
		} else {
			defer reloader.Close()
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	p := &player{
		cfg:      cfg,
		log:      log,
		screen:   screen,
		scene:    sc,
		reloader: reloader,
		keys:     input.NewTermKeys(cfg.Input.Hold),
		camera:   render.NewCamera(0.25),
	}
	p.renderer = render.NewTerm(sc.Colors, p.camera)
	return p.loop()
}

type player struct {
	cfg      *config.Config
	log      *zap.Logger
	screen   tcell.Screen
	scene    *scene.Scene
	reloader *scene.Reloader
	keys     *input.TermKeys
	renderer *render.Term
	camera   *render.Camera
}

func (p *player) loop() error {
	tick := time.Second / time.Duration(p.cfg.Window.TPS)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	last := time.Now()
	for {
		select {
		case ev := <-events:
			if !p.handle(ev) {
				return nil
			}
		case now := <-ticker.C:
			dt := p.cfg.Step()
			if !p.cfg.Physics.FixedStep {
				dt = now.Sub(last).Seconds()
			}
			last = now
			if err := p.step(dt); err != nil {
				p.log.Error("update failed", zap.Uint32("frame", p.scene.World.Frame()), zap.Error(err))
				return err
			}
			p.draw()
		}
	}
}

// handle reports false when the player asked to quit.
func (p *player) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if !p.keys.HandleEvent(ev) {
			p.log.Debug("unmapped key", zap.String("key", ev.Name()))
		}
	case *tcell.EventResize:
		p.screen.Sync()
	}
	return true
}

func (p *player) step(dt float64) error {
	if next := p.reloader.Poll(p.scene); next != p.scene {
		p.scene = next
		p.renderer.Colors = next.Colors
	}
	if err := p.scene.World.Update(p.keys.Snapshot(), dt); err != nil {
		return err
	}
	if focus, ok := p.scene.Focus(); ok {
		w, h := p.renderer.ViewSize(p.screen)
		p.camera.Follow(focus, w, h)
	}
	return nil
}

func (p *player) draw() {
	p.renderer.Draw(p.screen, p.scene.World)
	status := fmt.Sprintf(" %s  frame %d  entities %d  [Esc quits] ", p.scene.Name, p.scene.World.Frame(), p.scene.World.Len())
	style := tcell.StyleDefault.Reverse(true)
	for i, r := range status {
		p.screen.SetContent(i, 0, r, nil, style)
	}
	p.screen.Show()
}
