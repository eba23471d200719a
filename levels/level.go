package levels

import (
	"errors"
	"fmt"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/prefabs"
	"gopkg.in/yaml.v3"
)

var ErrInvalidLevel = errors.New("levels: invalid level")

type Level struct {
	Name    string      `yaml:"name"`
	Palette Palette     `yaml:"palette"`
	Walls   []WallSpec  `yaml:"walls"`
	Spawns  []SpawnSpec `yaml:"spawns"`
}

type WallSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type SpawnSpec struct {
	Prefab    string            `yaml:"prefab"`
	X         float64           `yaml:"x"`
	Y         float64           `yaml:"y"`
	Overrides prefabs.Overrides `yaml:"overrides"`
}

// PrefabLoader resolves a prefab name used by a spawn.
type PrefabLoader func(name string) (prefabs.PrefabSpec, error)

func Load(name string) (*Level, error) {
	data, err := Read(name)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", name, err)
	}
	return lvl, nil
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	for i, s := range lvl.Spawns {
		if s.Prefab == "" {
			return nil, fmt.Errorf("%w: spawn %d has no prefab", ErrInvalidLevel, i)
		}
		if !common.Finite(s.X) || !common.Finite(s.Y) {
			return nil, fmt.Errorf("%w: spawn %d position (%v, %v)", ErrInvalidLevel, i, s.X, s.Y)
		}
	}
	return &lvl, nil
}

// Build creates the level's walls, then its spawns, in file order. A nil
// loader uses prefabs.LoadPrefab. Prefabs are loaded once per name.
func Build(lvl *Level, w *ecs.World, loader PrefabLoader) ([]ecs.EntityID, error) {
	if lvl == nil || w == nil {
		return nil, fmt.Errorf("%w: nil level or world", ErrInvalidLevel)
	}
	if loader == nil {
		loader = prefabs.LoadPrefab
	}

	for i, wall := range lvl.Walls {
		if _, err := w.CreateWall(wall.X, wall.Y, wall.W, wall.H); err != nil {
			return nil, fmt.Errorf("levels: wall %d: %w", i, err)
		}
	}

	cache := make(map[string]prefabs.PrefabSpec)
	ids := make([]ecs.EntityID, 0, len(lvl.Spawns))
	for i, s := range lvl.Spawns {
		spec, ok := cache[s.Prefab]
		if !ok {
			var err error
			spec, err = loader(s.Prefab)
			if err != nil {
				return nil, fmt.Errorf("levels: spawn %d: %w", i, err)
			}
			cache[s.Prefab] = spec
		}
		id, err := prefabs.Spawn(w, spec, common.Vec(s.X, s.Y), s.Overrides)
		if err != nil {
			return nil, fmt.Errorf("levels: spawn %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
