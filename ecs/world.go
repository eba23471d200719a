package ecs

import (
	"errors"
	"fmt"

	"github.com/milk9111/platformer/common"
)

var (
	ErrEntityNotAlive   = errors.New("ecs: entity not alive")
	ErrEntityOutOfRange = errors.New("ecs: entity index out of range")
	ErrWallOutOfRange   = errors.New("ecs: wall index out of range")
	ErrWorldFull        = errors.New("ecs: world entity capacity reached")
	ErrInvalidDelta     = errors.New("ecs: invalid time delta")
	ErrNonFiniteState   = errors.New("ecs: non-finite entity state")
	ErrInvalidParams    = errors.New("ecs: invalid params")
)

// World owns all entities and static walls and runs the per-frame update.
type World struct {
	params  Params
	frame   uint32
	store   entityStore
	walls   []common.Rect
	events  EventQueue
	workers int
}

// NewWorld creates an empty world using DefaultParams.
func NewWorld() *World {
	return &World{params: DefaultParams(), workers: 1}
}

// SetParams replaces the update parameters.
func (w *World) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	w.params = p
	return nil
}

func (w *World) Params() Params {
	return w.params
}

// SetMaxEntities caps live entities. Zero means unbounded.
func (w *World) SetMaxEntities(n int) {
	if n < 0 {
		n = 0
	}
	w.store.max = n
}

// SetWorkers sets how many goroutines step entities. Values below 2 step serially.
func (w *World) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	w.workers = n
}

// Frame returns the number of completed updates.
func (w *World) Frame() uint32 {
	return w.frame
}

// SpawnEntity builds a default entity, lets init configure it and stores it.
func (w *World) SpawnEntity(init func(e *Entity)) (EntityID, error) {
	e := &Entity{}
	if init != nil {
		init(e)
	}
	return w.store.create(e)
}

// DespawnEntity removes an entity. Its id and any copies become stale.
func (w *World) DespawnEntity(id EntityID) error {
	if err := w.store.destroy(id); err != nil {
		return fmt.Errorf("despawn %s: %w", id, err)
	}
	return nil
}

// Entity returns the live entity for id.
func (w *World) Entity(id EntityID) (*Entity, error) {
	slot, err := w.store.lookup(id)
	if err != nil {
		return nil, fmt.Errorf("entity %s: %w", id, err)
	}
	return slot.entity, nil
}

// IsAlive reports whether id refers to a live entity.
func (w *World) IsAlive(id EntityID) bool {
	_, err := w.store.lookup(id)
	return err == nil
}

// Entities returns live entity ids in slot order.
func (w *World) Entities() []EntityID {
	out := make([]EntityID, 0, w.store.live)
	w.store.each(func(id EntityID, _ *Entity) {
		out = append(out, id)
	})
	return out
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.store.live
}

// CreateWall appends a static wall and returns a copy of it.
func (w *World) CreateWall(x, y, width, height float64) (common.Rect, error) {
	r, err := common.NewRect(x, y, width, height)
	if err != nil {
		return common.Rect{}, fmt.Errorf("create wall: %w", err)
	}
	w.walls = append(w.walls, r)
	return r, nil
}

// Wall returns the wall at index i.
func (w *World) Wall(i int) (common.Rect, error) {
	if i < 0 || i >= len(w.walls) {
		return common.Rect{}, fmt.Errorf("wall %d of %d: %w", i, len(w.walls), ErrWallOutOfRange)
	}
	return w.walls[i], nil
}

// Walls returns a copy of the wall list.
func (w *World) Walls() []common.Rect {
	return append([]common.Rect(nil), w.walls...)
}

// Events returns the events recorded by the most recent update.
func (w *World) Events() *EventQueue {
	return &w.events
}

// Update advances every entity by dt seconds with the given held keys.
// Inputs are validated before anything is mutated, so a failed update leaves
// the world untouched.
func (w *World) Update(keys KeyState, dt float64) error {
	if !common.Finite(dt) || dt < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDelta, dt)
	}
	var bad error
	w.store.each(func(id EntityID, e *Entity) {
		if bad != nil {
			return
		}
		if !common.IsFinite(e.Position) || !common.IsFinite(e.Velocity) || !e.Hitbox.IsFinite() {
			bad = fmt.Errorf("%w: entity %s position %v velocity %v hitbox %v", ErrNonFiniteState, id, e.Position, e.Velocity, e.Hitbox)
		}
	})
	if bad != nil {
		return bad
	}
	if keys == nil {
		keys = noKeys{}
	}

	w.events.flush()
	if err := w.stepAll(keys, dt); err != nil {
		return err
	}
	w.frame++
	return nil
}

// stepEntity applies every rule the entity opts into: Movement, then Input.
func stepEntity(e *Entity, id EntityID, walls []common.Rect, keys KeyState, p Params, dt float64, out []Event) []Event {
	if e.Movement != nil {
		out = applyMovement(e, id, walls, p, dt, out)
	}
	if e.Input != nil {
		if applyInput(e, keys, p, dt) {
			out = append(out, Event{Kind: EventJump, Entity: id, Axis: AxisY})
		}
	}
	return out
}
