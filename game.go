package main

import (
	"fmt"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/input"
	"github.com/milk9111/platformer/render"
	"github.com/milk9111/platformer/scene"
	"go.uber.org/zap"
)

const cameraSmoothing = 0.15

type Game struct {
	cfg      *config.Config
	log      *zap.Logger
	scene    *scene.Scene
	reloader *scene.Reloader
	keys     *input.EbitenKeys
	renderer *render.Ebiten
	camera   *render.Camera
	pauseUI  *ebitenui.UI
	paused   bool
	quit     bool
	last     time.Time
}

func NewGame(cfg *config.Config, sc *scene.Scene, reloader *scene.Reloader, log *zap.Logger) *Game {
	cam := render.NewCamera(cameraSmoothing)
	r := render.NewEbiten(sc.Colors, cam)
	r.Debug = cfg.Dev.Debug
	g := &Game{
		cfg:      cfg,
		log:      log,
		scene:    sc,
		reloader: reloader,
		keys:     input.NewEbitenKeys(),
		renderer: r,
		camera:   cam,
	}
	g.pauseUI = NewPauseUI(g)
	return g
}

func (g *Game) Update() error {
	if g.quit || input.JustPressed(ebiten.KeyEscape) || input.JustPressed(ebiten.KeyF12) {
		return ebiten.Termination
	}
	if input.JustPressed(ebiten.KeyF3) {
		g.renderer.Debug = !g.renderer.Debug
	}
	if input.JustPressed(ebiten.KeyP) {
		g.paused = !g.paused
		g.last = time.Time{}
	}

	if next := g.reloader.Poll(g.scene); next != g.scene {
		g.setScene(next)
	}

	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	keys := g.keys.Poll()
	if err := g.scene.World.Update(keys, g.delta()); err != nil {
		return fmt.Errorf("frame %d: %w", g.scene.World.Frame(), err)
	}

	if focus, ok := g.scene.Focus(); ok {
		scale := g.scene.World.Params().RenderScale
		g.camera.Follow(focus, float64(g.cfg.Window.Width)/scale, float64(g.cfg.Window.Height)/scale)
	}
	return nil
}

// delta is the fixed tick length, or the measured time since the previous
// tick when fixed stepping is off.
func (g *Game) delta() float64 {
	if g.cfg.Physics.FixedStep {
		return g.cfg.Step()
	}
	now := time.Now()
	if g.last.IsZero() {
		g.last = now
		return g.cfg.Step()
	}
	dt := now.Sub(g.last).Seconds()
	g.last = now
	return dt
}

func (g *Game) setScene(sc *scene.Scene) {
	g.scene = sc
	g.renderer.Colors = sc.Colors
}

// restart rebuilds the current level from scratch and resumes.
func (g *Game) restart() {
	sc, err := scene.Load(g.cfg, g.scene.Name)
	if err != nil {
		g.log.Warn("restart failed", zap.Error(err))
		return
	}
	g.setScene(sc)
	g.resume()
}

// resume unpauses. The measured clock restarts so the pause is not fed to
// the next update as one long step.
func (g *Game) resume() {
	g.paused = false
	g.last = time.Time{}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.scene.World)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}
