package prefabs

import (
	"errors"
	"fmt"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"gopkg.in/yaml.v3"
)

var ErrInvalidPrefab = errors.New("prefabs: invalid prefab")

type PrefabSpec struct {
	Name     string     `yaml:"name"`
	Movement bool       `yaml:"movement"`
	Hidden   bool       `yaml:"hidden"`
	Input    *InputSpec `yaml:"input"`
	Hitbox   HitboxSpec `yaml:"hitbox"`
	Velocity VectorSpec `yaml:"velocity"`
	Script   string     `yaml:"script"`
}

type InputSpec struct {
	Jump  string `yaml:"jump"`
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
	Up    string `yaml:"up"`
	Down  string `yaml:"down"`
}

type HitboxSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v VectorSpec) Vector() common.Vector {
	return common.Vec(v.X, v.Y)
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadPrefab loads and validates a prefab by name ("player" or "player.yaml").
func LoadPrefab(name string) (PrefabSpec, error) {
	spec, err := LoadSpec[PrefabSpec](name)
	if err != nil {
		return PrefabSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return PrefabSpec{}, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return spec, nil
}

func ParsePrefab(data []byte) (PrefabSpec, error) {
	var spec PrefabSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return PrefabSpec{}, fmt.Errorf("prefabs: unmarshal: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return PrefabSpec{}, err
	}
	return spec, nil
}

func (s PrefabSpec) Validate() error {
	if _, err := common.NewRect(s.Hitbox.X, s.Hitbox.Y, s.Hitbox.W, s.Hitbox.H); err != nil {
		return fmt.Errorf("%w: hitbox: %v", ErrInvalidPrefab, err)
	}
	if !common.IsFinite(s.Velocity.Vector()) {
		return fmt.Errorf("%w: velocity %v", ErrInvalidPrefab, s.Velocity)
	}
	if s.Input != nil && s.Input.Jump == "" && s.Input.Left == "" && s.Input.Right == "" {
		return fmt.Errorf("%w: input binding has no keys", ErrInvalidPrefab)
	}
	return nil
}

// Binding converts the input section. A nil spec yields nil.
func (s *InputSpec) Binding() *ecs.InputBinding {
	if s == nil {
		return nil
	}
	return &ecs.InputBinding{
		Jump:  ecs.Key(s.Jump),
		Left:  ecs.Key(s.Left),
		Right: ecs.Key(s.Right),
		Up:    ecs.Key(s.Up),
		Down:  ecs.Key(s.Down),
	}
}

// Apply copies the prefab's components onto e. Position is left alone.
func (s PrefabSpec) Apply(e *ecs.Entity) {
	if s.Movement {
		e.Movement = &ecs.Movement{}
	}
	e.Input = s.Input.Binding()
	e.Hidden = s.Hidden
	e.Hitbox = common.Rect{X: s.Hitbox.X, Y: s.Hitbox.Y, W: s.Hitbox.W, H: s.Hitbox.H}
	e.Velocity = s.Velocity.Vector()
}
