package render

import (
	"github.com/milk9111/platformer/common"
)

// Camera is the world-space top-left corner of the view.
type Camera struct {
	X, Y float64
	// Smoothing is the fraction of the distance to the target covered per
	// Follow call. Zero or >= 1 snaps.
	Smoothing float64
}

func NewCamera(smoothing float64) *Camera {
	return &Camera{Smoothing: smoothing}
}

// Follow moves the camera so target sits at the centre of a view of
// viewW x viewH world units.
func (c *Camera) Follow(target common.Vector, viewW, viewH float64) {
	if c == nil || !common.IsFinite(target) {
		return
	}
	wantX := target.X - viewW/2
	wantY := target.Y - viewH/2
	t := c.Smoothing
	if t <= 0 || t >= 1 {
		t = 1
	}
	c.X = common.Lerp(c.X, wantX, t)
	c.Y = common.Lerp(c.Y, wantY, t)
}

// ToScreen maps a world point to pixels or cells.
func (c *Camera) ToScreen(v common.Vector, scaleX, scaleY float64) (float64, float64) {
	var x, y float64
	if c != nil {
		x, y = c.X, c.Y
	}
	return (v.X - x) * scaleX, (v.Y - y) * scaleY
}

// RectToScreen maps a world rectangle to screen space.
func (c *Camera) RectToScreen(r common.Rect, scaleX, scaleY float64) (x, y, w, h float64) {
	x, y = c.ToScreen(common.Vec(r.X, r.Y), scaleX, scaleY)
	return x, y, r.W * scaleX, r.H * scaleY
}
