package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/levels"
	"golang.org/x/image/colornames"
)

const touchMarker = 3

// Ebiten draws walls and visible entities as flat rectangles.
type Ebiten struct {
	Colors levels.Colors
	Camera *Camera
	Debug  bool
}

func NewEbiten(colors levels.Colors, cam *Camera) *Ebiten {
	return &Ebiten{Colors: colors, Camera: cam}
}

func (r *Ebiten) Draw(screen *ebiten.Image, w *ecs.World) {
	if r == nil || screen == nil || w == nil {
		return
	}
	scale := w.Params().RenderScale
	screen.Fill(r.Colors.Background)

	for _, wall := range w.Walls() {
		x, y, ww, hh := r.Camera.RectToScreen(wall, scale, scale)
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(ww), float32(hh), r.Colors.Wall, false)
	}

	w.Each(func(id ecs.EntityID, e *ecs.Entity) {
		if !ecs.Visible(e) {
			return
		}
		clr := r.Colors.Entity
		if e.Input != nil {
			clr = r.Colors.Player
		}
		x, y, ww, hh := r.Camera.RectToScreen(e.WorldHitbox(), scale, scale)
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(ww), float32(hh), clr, false)
		if r.Debug {
			r.drawTouch(screen, e, float32(x), float32(y), float32(ww), float32(hh))
		}
	})

	if r.Debug {
		r.drawDebugText(screen, w)
	}
}

// drawTouch marks the side of the hitbox that collided this frame.
func (r *Ebiten) drawTouch(screen *ebiten.Image, e *ecs.Entity, x, y, w, h float32) {
	var clr color.Color = colornames.Red
	switch {
	case e.Touch.X > 0:
		vector.DrawFilledRect(screen, x+w-touchMarker, y, touchMarker, h, clr, false)
	case e.Touch.X < 0:
		vector.DrawFilledRect(screen, x, y, touchMarker, h, clr, false)
	}
	switch {
	case e.Touch.Y > 0:
		vector.DrawFilledRect(screen, x, y+h-touchMarker, w, touchMarker, colornames.Lime, false)
	case e.Touch.Y < 0:
		vector.DrawFilledRect(screen, x, y, w, touchMarker, clr, false)
	}
	vector.StrokeRect(screen, x, y, w, h, 1, colornames.White, false)
}

func (r *Ebiten) drawDebugText(screen *ebiten.Image, w *ecs.World) {
	text := fmt.Sprintf("Frame: %d    FPS: %.2f    %s", w.Frame(), ebiten.ActualFPS(), entityStats(w))
	ebitenutil.DebugPrint(screen, text)
}

func entityStats(w *ecs.World) string {
	return fmt.Sprintf("Entities: %d    Moving: %d    Visible: %d", w.Len(), len(w.Query(ecs.HasMovement)), len(w.Query(ecs.Visible)))
}
