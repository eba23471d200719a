package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/levels"
)

const (
	wallRune   = '█'
	playerRune = '@'
	entityRune = '#'
)

// Term rasterises the world into terminal cells. Cells are roughly twice as
// tall as they are wide, so CellsX is usually 2*CellsY.
type Term struct {
	Colors levels.Colors
	Camera *Camera
	CellsX float64 // cells per world unit horizontally
	CellsY float64 // cells per world unit vertically
}

func NewTerm(colors levels.Colors, cam *Camera) *Term {
	return &Term{Colors: colors, Camera: cam, CellsX: 2, CellsY: 1}
}

// ViewSize returns the screen size in world units.
func (r *Term) ViewSize(s tcell.Screen) (float64, float64) {
	cols, rows := s.Size()
	return float64(cols) / r.CellsX, float64(rows) / r.CellsY
}

func (r *Term) Draw(s tcell.Screen, w *ecs.World) {
	if r == nil || s == nil || w == nil {
		return
	}
	bg := tcell.StyleDefault.Background(tcell.FromImageColor(r.Colors.Background))
	s.Fill(' ', bg)

	wallStyle := bg.Foreground(tcell.FromImageColor(r.Colors.Wall))
	for _, wall := range w.Walls() {
		r.fill(s, wall, wallRune, wallStyle)
	}

	entityStyle := bg.Foreground(tcell.FromImageColor(r.Colors.Entity))
	playerStyle := bg.Foreground(tcell.FromImageColor(r.Colors.Player))
	w.Each(func(id ecs.EntityID, e *ecs.Entity) {
		if !ecs.Visible(e) {
			return
		}
		if e.Input != nil {
			r.fill(s, e.WorldHitbox(), playerRune, playerStyle)
			return
		}
		r.fill(s, e.WorldHitbox(), entityRune, entityStyle)
	})
}

func (r *Term) fill(s tcell.Screen, rect common.Rect, ch rune, style tcell.Style) {
	cols, rows := s.Size()
	x0, x1, y0, y1 := r.cells(rect)
	x0, x1 = clampSpan(x0, x1, cols)
	y0, y1 = clampSpan(y0, y1, rows)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			s.SetContent(x, y, ch, nil, style)
		}
	}
}

// cells returns the half-open cell span covered by rect. Any non-empty
// rectangle covers at least one cell on each axis.
func (r *Term) cells(rect common.Rect) (x0, x1, y0, y1 int) {
	sx, sy, sw, sh := r.Camera.RectToScreen(rect, r.CellsX, r.CellsY)
	x0, x1 = span(sx, sx+sw)
	y0, y1 = span(sy, sy+sh)
	return x0, x1, y0, y1
}

func span(lo, hi float64) (int, int) {
	a := int(math.Floor(lo))
	b := int(math.Ceil(hi))
	if b <= a {
		b = a + 1
	}
	return a, b
}

func clampSpan(a, b, limit int) (int, int) {
	if a < 0 {
		a = 0
	}
	if b > limit {
		b = limit
	}
	return a, b
}
