package prefabs

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
)

// Spawn scripts see the entity as plain globals and may reassign them:
//
//	x, y     position
//	vx, vy   velocity
//	w, h     hitbox size
//	hidden   bool
var scriptGlobals = []string{"x", "y", "vx", "vy", "w", "h", "hidden"}

// RunScript runs the named spawn script against e and copies the globals back.
func RunScript(name string, e *ecs.Entity) error {
	src, err := LoadScript(name)
	if err != nil {
		return fmt.Errorf("load script %s: %w", name, err)
	}
	return runScriptSource(name, src, e)
}

func runScriptSource(name string, src []byte, e *ecs.Entity) error {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	values := map[string]any{
		"x":      e.Position.X,
		"y":      e.Position.Y,
		"vx":     e.Velocity.X,
		"vy":     e.Velocity.Y,
		"w":      e.Hitbox.W,
		"h":      e.Hitbox.H,
		"hidden": e.Hidden,
	}
	for _, k := range scriptGlobals {
		if err := script.Add(k, values[k]); err != nil {
			return fmt.Errorf("script %s: add %s: %w", name, k, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("script %s: compile: %w", name, err)
	}
	if err := runCompiled(compiled); err != nil {
		return fmt.Errorf("script %s: run: %w", name, err)
	}

	pos := common.Vec(compiled.Get("x").Float(), compiled.Get("y").Float())
	vel := common.Vec(compiled.Get("vx").Float(), compiled.Get("vy").Float())
	if !common.IsFinite(pos) || !common.IsFinite(vel) {
		return fmt.Errorf("script %s: %w: position %v velocity %v", name, ErrInvalidPrefab, pos, vel)
	}
	box, err := common.NewRect(e.Hitbox.X, e.Hitbox.Y, compiled.Get("w").Float(), compiled.Get("h").Float())
	if err != nil {
		return fmt.Errorf("script %s: %w: hitbox: %v", name, ErrInvalidPrefab, err)
	}
	e.Position = pos
	e.Velocity = vel
	e.Hitbox = box
	e.Hidden = compiled.Get("hidden").Bool()
	return nil
}

// runCompiled turns VM panics (integer division by zero) into errors.
func runCompiled(compiled *tengo.Compiled) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return compiled.Run()
}
