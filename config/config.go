package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
)

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Physics PhysicsConfig `toml:"physics"`
	World   WorldConfig   `toml:"world"`
	Input   InputConfig   `toml:"input"`
	Logging LoggingConfig `toml:"logging"`
	Dev     DevConfig     `toml:"dev"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	TPS    int    `toml:"tps"`
}

type PhysicsConfig struct {
	GravityX    float64 `toml:"gravity_x"`
	GravityY    float64 `toml:"gravity_y"`
	Drag        float64 `toml:"drag"`
	MoveSpeed   float64 `toml:"move_speed"`
	Substeps    int     `toml:"substeps"`
	RenderScale float64 `toml:"render_scale"`
	FixedStep   bool    `toml:"fixed_step"` // dt = 1/tps instead of measured wall time
}

type WorldConfig struct {
	Level       string `toml:"level"`
	MaxEntities int    `toml:"max_entities"` // 0 = unbounded
	Workers     int    `toml:"workers"`
}

type InputConfig struct {
	Hold time.Duration `toml:"hold"` // terminal key hold window
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console or json
	Output string `toml:"output"` // file path; empty means stderr
}

type DevConfig struct {
	Watch bool `toml:"watch"`
	Debug bool `toml:"debug"`
}

// Load reads path on top of Defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "platformer",
			Width:  640,
			Height: 480,
			TPS:    60,
		},
		Physics: PhysicsConfig{
			GravityX:    common.GravityX,
			GravityY:    common.GravityY,
			Drag:        common.HorizontalDrag,
			MoveSpeed:   common.MoveSpeed,
			Substeps:    common.Substeps,
			RenderScale: common.RenderScale,
			FixedStep:   true,
		},
		World: WorldConfig{
			Level:   "default",
			Workers: 1,
		},
		Input: InputConfig{
			Hold: 150 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("window tps must be > 0, got %d", c.Window.TPS)
	}
	if c.World.MaxEntities < 0 {
		return fmt.Errorf("world max_entities must be >= 0, got %d", c.World.MaxEntities)
	}
	if c.World.Workers < 1 {
		return fmt.Errorf("world workers must be >= 1, got %d", c.World.Workers)
	}
	if c.Input.Hold <= 0 {
		return fmt.Errorf("input hold must be > 0, got %v", c.Input.Hold)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging format %q", c.Logging.Format)
	}
	return c.Physics.Params().Validate()
}

func (p PhysicsConfig) Params() ecs.Params {
	return ecs.Params{
		Gravity:     common.Vec(p.GravityX, p.GravityY),
		Drag:        p.Drag,
		MoveSpeed:   p.MoveSpeed,
		Substeps:    p.Substeps,
		RenderScale: p.RenderScale,
	}
}

// Step is the fixed frame delta in seconds.
func (c *Config) Step() float64 {
	return 1 / float64(c.Window.TPS)
}

// NewWorld builds an empty world tuned by the physics and world sections.
func (c *Config) NewWorld() (*ecs.World, error) {
	w := ecs.NewWorld()
	if err := w.SetParams(c.Physics.Params()); err != nil {
		return nil, err
	}
	w.SetMaxEntities(c.World.MaxEntities)
	w.SetWorkers(c.World.Workers)
	return w, nil
}
