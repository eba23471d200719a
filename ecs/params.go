package ecs

import (
	"fmt"

	"github.com/milk9111/platformer/common"
)

// Params tunes the per-frame update.
type Params struct {
	Gravity     common.Vector
	Drag        float64
	MoveSpeed   float64
	Substeps    int
	RenderScale float64
}

func DefaultParams() Params {
	return Params{
		Gravity:     common.Vec(common.GravityX, common.GravityY),
		Drag:        common.HorizontalDrag,
		MoveSpeed:   common.MoveSpeed,
		Substeps:    common.Substeps,
		RenderScale: common.RenderScale,
	}
}

func (p Params) Validate() error {
	if !common.IsFinite(p.Gravity) {
		return fmt.Errorf("%w: gravity %v", ErrInvalidParams, p.Gravity)
	}
	if !common.Finite(p.Drag) || !common.Finite(p.MoveSpeed) {
		return fmt.Errorf("%w: drag %v speed %v", ErrInvalidParams, p.Drag, p.MoveSpeed)
	}
	if p.Substeps < 1 {
		return fmt.Errorf("%w: substeps must be >= 1, got %d", ErrInvalidParams, p.Substeps)
	}
	if !common.Finite(p.RenderScale) || p.RenderScale <= 0 {
		return fmt.Errorf("%w: render scale %v", ErrInvalidParams, p.RenderScale)
	}
	return nil
}
