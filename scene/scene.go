package scene

import (
	"fmt"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/prefabs"
)

// Scene is a built level: the world plus what frontends need to draw it.
type Scene struct {
	Name    string
	World   *ecs.World
	Colors  levels.Colors
	Spawned []ecs.EntityID
}

// Load builds the named level into a fresh world tuned by cfg.
func Load(cfg *config.Config, name string) (*Scene, error) {
	return LoadWith(cfg, name, prefabs.LoadPrefab)
}

func LoadWith(cfg *config.Config, name string, loader levels.PrefabLoader) (*Scene, error) {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if name == "" {
		name = cfg.World.Level
	}
	lvl, err := levels.Load(name)
	if err != nil {
		return nil, err
	}
	w, err := cfg.NewWorld()
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}
	ids, err := levels.Build(lvl, w, loader)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}
	return &Scene{
		Name:    name,
		World:   w,
		Colors:  lvl.Palette.Resolve(),
		Spawned: ids,
	}, nil
}

// Focus returns the centre of the first visible controllable entity, for the
// camera to follow.
func (s *Scene) Focus() (common.Vector, bool) {
	if s == nil || s.World == nil {
		return common.Vector{}, false
	}
	for _, id := range s.World.Query(func(e *ecs.Entity) bool { return ecs.HasInput(e) && ecs.Visible(e) }) {
		e, err := s.World.Entity(id)
		if err != nil {
			continue
		}
		box := e.WorldHitbox()
		return common.Vec(box.X+box.W/2, box.Y+box.H/2), true
	}
	return common.Vector{}, false
}

// Bindings returns every input binding in the scene, in slot order.
func (s *Scene) Bindings() []ecs.InputBinding {
	if s == nil || s.World == nil {
		return nil
	}
	var out []ecs.InputBinding
	s.World.Each(func(_ ecs.EntityID, e *ecs.Entity) {
		if e.Input != nil {
			out = append(out, *e.Input)
		}
	})
	return out
}
