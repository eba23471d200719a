package common

import (
	"errors"
	"fmt"
)

var ErrInvalidRect = errors.New("common: invalid rectangle")

// Rect is an axis-aligned box. X,Y is the top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// NewRect validates the size before building the rectangle.
func NewRect(x, y, w, h float64) (Rect, error) {
	if !(Rect{X: x, Y: y, W: w, H: h}).IsFinite() {
		return Rect{}, fmt.Errorf("%w: non-finite value in (%v, %v, %v, %v)", ErrInvalidRect, x, y, w, h)
	}
	if w < 0 || h < 0 {
		return Rect{}, fmt.Errorf("%w: negative size %vx%v", ErrInvalidRect, w, h)
	}
	return Rect{X: x, Y: y, W: w, H: h}, nil
}

// Intersects reports overlap. Touching edges do not count.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.Right() &&
		r.Right() > other.X &&
		r.Y < other.Bottom() &&
		r.Bottom() > other.Y
}

// IsFinite reports whether every field is neither NaN nor infinite.
func (r Rect) IsFinite() bool {
	return Finite(r.X) && Finite(r.Y) && Finite(r.W) && Finite(r.H)
}

func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

func (r Rect) Right() float64 {
	return r.X + r.W
}

func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// ToArray returns x, y, w, h.
func (r Rect) ToArray() [4]float64 {
	return [4]float64{r.X, r.Y, r.W, r.H}
}

// ToScaledArray returns x, y, w, h multiplied by scale.
func (r Rect) ToScaledArray(scale float64) [4]float64 {
	return [4]float64{r.X * scale, r.Y * scale, r.W * scale, r.H * scale}
}
