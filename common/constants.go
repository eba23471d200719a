package common

// World units to pixels. Applied only when drawing.
const RenderScale = 32.0

const (
	GravityX = 0.0
	GravityY = 9.82

	// HorizontalDrag is the per-second damping applied to X velocity.
	HorizontalDrag = 1.5

	MoveSpeed = 10.0

	Substeps = 4
)
