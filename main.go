package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/input"
	"github.com/milk9111/platformer/scene"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "platformer: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "platformer.toml", "path to the TOML config (missing file uses defaults)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .yaml optional)")
	debug := flag.Bool("debug", false, "draw contact markers and frame stats")
	watch := flag.Bool("watch", false, "reload prefabs and levels when files change on disk")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *levelName != "" {
		cfg.World.Level = *levelName
	}
	cfg.Dev.Debug = cfg.Dev.Debug || *debug
	cfg.Dev.Watch = cfg.Dev.Watch || *watch

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	sc, err := scene.Load(cfg, cfg.World.Level)
	if err != nil {
		return err
	}
	for _, b := range sc.Bindings() {
		if err := input.CheckBinding(b); err != nil {
			log.Warn("binding has keys the window cannot read", zap.Error(err))
		}
	}
	log.Info("level loaded",
		zap.String("level", sc.Name),
		zap.Int("entities", sc.World.Len()),
		zap.Int("walls", len(sc.World.Walls())),
	)

	var reloader *scene.Reloader
	if cfg.Dev.Watch {
		reloader, err = scene.NewReloader(cfg, cfg.World.Level, log, scene.WatchDirs()...)
		if err != nil {
			log.Warn("hot reload disabled", zap.Error(err))
		} else {
			defer reloader.Close()
		}
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)

	game := NewGame(cfg, sc, reloader, log)
	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		log.Error("game stopped", zap.Error(err))
		return err
	}
	return nil
}
