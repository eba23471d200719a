package ecs

import "github.com/milk9111/platformer/common"

// applyMovement integrates velocity then resolves X fully before Y, each in
// Substeps partial moves. The first wall hit on an axis undoes that partial
// move, records the blocked direction in Touch and zeroes that velocity.
func applyMovement(e *Entity, id EntityID, walls []common.Rect, p Params, dt float64, out []Event) []Event {
	e.Velocity.X = e.Velocity.X*(1-dt*p.Drag) + p.Gravity.X*dt
	e.Velocity.Y = e.Velocity.Y + p.Gravity.Y*dt

	step := e.Velocity.Mult(dt / float64(p.Substeps))
	e.Touch = common.Vector{}

	if resolveAxis(e, walls, AxisX, step.X, p.Substeps) {
		e.Touch.X = common.Sign(step.X)
		e.Velocity.X = 0
		out = append(out, Event{Kind: EventWallContact, Entity: id, Axis: AxisX, Dir: e.Touch.X})
	}
	if resolveAxis(e, walls, AxisY, step.Y, p.Substeps) {
		e.Touch.Y = common.Sign(step.Y)
		e.Velocity.Y = 0
		out = append(out, Event{Kind: EventWallContact, Entity: id, Axis: AxisY, Dir: e.Touch.Y})
	}
	return out
}

func resolveAxis(e *Entity, walls []common.Rect, axis Axis, step float64, substeps int) bool {
	for i := 0; i < substeps; i++ {
		prev := e.Position
		if axis == AxisX {
			e.Position.X += step
		} else {
			e.Position.Y += step
		}
		if hitsWall(e.WorldHitbox(), walls) {
			e.Position = prev
			return true
		}
	}
	return false
}

func hitsWall(box common.Rect, walls []common.Rect) bool {
	for _, w := range walls {
		if box.Intersects(w) {
			return true
		}
	}
	return false
}
