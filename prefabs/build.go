package prefabs

import (
	"fmt"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
)

// Overrides adjust a prefab for one spawn.
type Overrides struct {
	Velocity *VectorSpec `yaml:"velocity"`
	Hidden   *bool       `yaml:"hidden"`
}

// Template builds the entity a spawn will produce, running the prefab's
// script if it has one.
func Template(spec PrefabSpec, at common.Vector, o Overrides) (ecs.Entity, error) {
	var e ecs.Entity
	spec.Apply(&e)
	e.Position = at
	if o.Velocity != nil {
		e.Velocity = o.Velocity.Vector()
	}
	if o.Hidden != nil {
		e.Hidden = *o.Hidden
	}
	if spec.Script != "" {
		if err := RunScript(spec.Script, &e); err != nil {
			return ecs.Entity{}, fmt.Errorf("prefabs: %s: %w", spec.Name, err)
		}
	}
	return e, nil
}

// Spawn builds a template and spawns it into w.
func Spawn(w *ecs.World, spec PrefabSpec, at common.Vector, o Overrides) (ecs.EntityID, error) {
	tmpl, err := Template(spec, at, o)
	if err != nil {
		return 0, err
	}
	id, err := w.SpawnEntity(func(e *ecs.Entity) {
		*e = tmpl
	})
	if err != nil {
		return 0, fmt.Errorf("prefabs: spawn %s: %w", spec.Name, err)
	}
	return id, nil
}
