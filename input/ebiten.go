package input

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/platformer/ecs"
)

const stickDeadzone = 0.2

var ebitenKeys = func() map[ecs.Key]ebiten.Key {
	m := make(map[ecs.Key]ebiten.Key)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		m[ecs.Key(k.String())] = k
	}
	return m
}()

// ParseEbitenKey resolves a key name such as "Space" or "ArrowLeft".
func ParseEbitenKey(name ecs.Key) (ebiten.Key, error) {
	k, ok := ebitenKeys[name]
	if !ok {
		return 0, fmt.Errorf("input: unknown key %q", name)
	}
	return k, nil
}

// CheckBinding reports the first key in b that ebiten cannot poll.
func CheckBinding(b ecs.InputBinding) error {
	for _, k := range []ecs.Key{b.Jump, b.Left, b.Right, b.Up, b.Down} {
		if k == "" {
			continue
		}
		if _, err := ParseEbitenKey(k); err != nil {
			return err
		}
	}
	return nil
}

// EbitenKeys turns the keyboard (and the first gamepad) into a KeySet once
// per frame.
type EbitenKeys struct {
	set     ecs.KeySet
	pressed []ebiten.Key
}

func NewEbitenKeys() *EbitenKeys {
	return &EbitenKeys{set: ecs.NewKeySet()}
}

// Poll must be called from ebiten's Update. The returned set is reused.
func (k *EbitenKeys) Poll() ecs.KeySet {
	if k == nil {
		return ecs.NewKeySet()
	}
	k.set.Clear()
	k.pressed = inpututil.AppendPressedKeys(k.pressed[:0])
	for _, key := range k.pressed {
		k.set.Press(ecs.Key(key.String()))
	}

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			return k.set
		}
		x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(x) > stickDeadzone {
			if x < 0 {
				k.set.Press("ArrowLeft")
			} else {
				k.set.Press("ArrowRight")
			}
		}
		pads := []struct {
			button ebiten.StandardGamepadButton
			key    ecs.Key
		}{
			{ebiten.StandardGamepadButtonRightBottom, "Space"},
			{ebiten.StandardGamepadButtonLeftLeft, "ArrowLeft"},
			{ebiten.StandardGamepadButtonLeftRight, "ArrowRight"},
			{ebiten.StandardGamepadButtonLeftTop, "ArrowUp"},
			{ebiten.StandardGamepadButtonLeftBottom, "ArrowDown"},
		}
		for _, p := range pads {
			if ebiten.IsStandardGamepadButtonPressed(id, p.button) {
				k.set.Press(p.key)
			}
		}
	}
	return k.set
}

// JustPressed reports a key pressed this tick, for one-shot actions.
func JustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}
