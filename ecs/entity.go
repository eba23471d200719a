package ecs

import (
	"fmt"

	"github.com/milk9111/platformer/common"
)

// EntityID packs an arena slot and the slot's generation.
type EntityID uint64

const entitySlotBits = 32

func makeEntityID(slot, gen uint32) EntityID {
	return EntityID(uint64(gen)<<entitySlotBits | uint64(slot))
}

func (e EntityID) slot() uint32 {
	return uint32(e)
}

func (e EntityID) generation() uint32 {
	return uint32(uint64(e) >> entitySlotBits)
}

func (e EntityID) String() string {
	return fmt.Sprintf("%d:%d", e.slot(), e.generation())
}

// Valid reports whether the id was ever issued. Generations start at 1.
func (e EntityID) Valid() bool {
	return e.generation() > 0
}

// Movement opts an entity into gravity, drag and wall collision.
type Movement struct{}

// InputBinding maps abstract keys to directional control.
// Up and Down are carried for callers but no rule reads them.
type InputBinding struct {
	Jump  Key
	Left  Key
	Right Key
	Up    Key
	Down  Key
}

// Entity is a movable object. Hitbox is local to Position.
type Entity struct {
	Movement *Movement
	Input    *InputBinding
	Hidden   bool

	Position common.Vector
	Velocity common.Vector
	// Touch holds the sign of the blocked step per axis from the last
	// movement pass. Touch.Y == 1 means blocked while moving down.
	Touch  common.Vector
	Hitbox common.Rect
}

// WorldHitbox returns the hitbox translated to the current position.
func (e *Entity) WorldHitbox() common.Rect {
	return e.Hitbox.Translate(e.Position.X, e.Position.Y)
}

// Grounded reports whether the last movement pass was blocked below.
func (e *Entity) Grounded() bool {
	return e.Touch.Y == 1
}
