package ecs

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/milk9111/platformer/common"
)

const frameDT = 1.0 / 60.0

var arrowBinding = InputBinding{Jump: "Space", Left: "ArrowLeft", Right: "ArrowRight", Up: "ArrowUp", Down: "ArrowDown"}

func spawnBox(t *testing.T, w *World, x, y float64, init func(e *Entity)) EntityID {
	t.Helper()
	id, err := w.SpawnEntity(func(e *Entity) {
		e.Position = common.Vec(x, y)
		e.Hitbox = common.Rect{W: 1, H: 1}
		if init != nil {
			init(e)
		}
	})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	return id
}

func mustWall(t *testing.T, w *World, x, y, width, height float64) common.Rect {
	t.Helper()
	r, err := w.CreateWall(x, y, width, height)
	if err != nil {
		t.Fatalf("create wall failed: %v", err)
	}
	return r
}

func mustEntity(t *testing.T, w *World, id EntityID) *Entity {
	t.Helper()
	e, err := w.Entity(id)
	if err != nil {
		t.Fatalf("lookup %s failed: %v", id, err)
	}
	return e
}

func stepFrames(t *testing.T, w *World, keys KeyState, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := w.Update(keys, frameDT); err != nil {
			t.Fatalf("update %d failed: %v", i, err)
		}
	}
}

func withMovement(e *Entity) { e.Movement = &Movement{} }

func withMovementAndInput(e *Entity) {
	e.Movement = &Movement{}
	b := arrowBinding
	e.Input = &b
}

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ids := make([]EntityID, 0, c.create)
			for i := 0; i < c.create; i++ {
				ids = append(ids, spawnBox(t, w, float64(i), 0, nil))
			}
			if w.Len() != c.create || len(w.Entities()) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, w.Len())
			}
			if c.destroyIndex < 0 {
				return
			}
			dead := ids[c.destroyIndex]
			if err := w.DespawnEntity(dead); err != nil {
				t.Fatalf("despawn failed: %v", err)
			}
			if w.IsAlive(dead) {
				t.Fatalf("entity should not be alive after despawn")
			}
			if _, err := w.Entity(dead); !errors.Is(err, ErrEntityNotAlive) {
				t.Fatalf("expected ErrEntityNotAlive, got %v", err)
			}
			if err := w.DespawnEntity(dead); !errors.Is(err, ErrEntityNotAlive) {
				t.Fatalf("double despawn should fail with ErrEntityNotAlive, got %v", err)
			}

			reused := spawnBox(t, w, 9, 9, nil)
			if reused.slot() != dead.slot() {
				t.Fatalf("expected slot %d to be reused, got %d", dead.slot(), reused.slot())
			}
			if reused == dead || reused.generation() != dead.generation()+1 {
				t.Fatalf("expected bumped generation, dead=%s reused=%s", dead, reused)
			}
			if w.IsAlive(dead) {
				t.Fatalf("stale id must not resolve to the reused slot")
			}
		})
	}
}

func TestWorldEntityOutOfRange(t *testing.T) {
	w := NewWorld()
	spawnBox(t, w, 0, 0, nil)
	bogus := makeEntityID(42, 1)
	if _, err := w.Entity(bogus); !errors.Is(err, ErrEntityOutOfRange) {
		t.Fatalf("expected ErrEntityOutOfRange, got %v", err)
	}
	if err := w.DespawnEntity(bogus); !errors.Is(err, ErrEntityOutOfRange) {
		t.Fatalf("expected ErrEntityOutOfRange, got %v", err)
	}
	var zero EntityID
	if zero.Valid() {
		t.Fatalf("zero id must not be valid")
	}
}

func TestWorldMaxEntities(t *testing.T) {
	w := NewWorld()
	w.SetMaxEntities(2)
	a := spawnBox(t, w, 0, 0, nil)
	spawnBox(t, w, 1, 0, nil)
	if _, err := w.SpawnEntity(nil); !errors.Is(err, ErrWorldFull) {
		t.Fatalf("expected ErrWorldFull, got %v", err)
	}
	if err := w.DespawnEntity(a); err != nil {
		t.Fatalf("despawn failed: %v", err)
	}
	if _, err := w.SpawnEntity(nil); err != nil {
		t.Fatalf("spawn after despawn should succeed: %v", err)
	}
}

func TestSpawnEntityDefaults(t *testing.T) {
	w := NewWorld()
	id, err := w.SpawnEntity(nil)
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	e := mustEntity(t, w, id)
	if !reflect.DeepEqual(*e, Entity{}) {
		t.Fatalf("expected zero entity, got %+v", *e)
	}
}

func TestWorldWalls(t *testing.T) {
	w := NewWorld()
	got := mustWall(t, w, 2, 9, 0.5, 1.1)
	if got != (common.Rect{X: 2, Y: 9, W: 0.5, H: 1.1}) {
		t.Fatalf("CreateWall returned %v", got)
	}
	mustWall(t, w, 2, 10, 10, 1)

	if _, err := w.CreateWall(0, 0, -1, 1); !errors.Is(err, common.ErrInvalidRect) {
		t.Fatalf("expected ErrInvalidRect, got %v", err)
	}
	if len(w.Walls()) != 2 {
		t.Fatalf("expected 2 walls, got %d", len(w.Walls()))
	}
	if r, err := w.Wall(1); err != nil || r.W != 10 {
		t.Fatalf("Wall(1) = %v, %v", r, err)
	}
	for _, i := range []int{-1, 2} {
		if _, err := w.Wall(i); !errors.Is(err, ErrWallOutOfRange) {
			t.Fatalf("Wall(%d): expected ErrWallOutOfRange, got %v", i, err)
		}
	}

	walls := w.Walls()
	walls[0].X = 100
	if r, _ := w.Wall(0); r.X != 2 {
		t.Fatalf("Walls must return a copy")
	}
}

func TestWorldHitbox(t *testing.T) {
	e := Entity{Position: common.Vec(3, 4), Hitbox: common.Rect{X: 0.5, Y: -1, W: 0.4, H: 1.2}}
	if got := e.WorldHitbox(); got != (common.Rect{X: 3.5, Y: 3, W: 0.4, H: 1.2}) {
		t.Fatalf("WorldHitbox = %v", got)
	}
	e.Position.X = 0
	if got := e.WorldHitbox(); got.X != 0.5 {
		t.Fatalf("WorldHitbox must follow position, got %v", got)
	}
}

func TestRestingContactStopsVelocity(t *testing.T) {
	w := NewWorld()
	floor := mustWall(t, w, -10, 2, 20, 1)
	id := spawnBox(t, w, 0, 0.5, withMovement)
	e := mustEntity(t, w, id)

	for i := 0; i < 240; i++ {
		prevStep := e.Velocity.Y * frameDT
		if err := w.Update(nil, frameDT); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		box := e.WorldHitbox()
		if box.Intersects(floor) {
			t.Fatalf("frame %d: hitbox %v penetrates floor %v", i, box, floor)
		}
		if box.Bottom() > floor.Y+math.Abs(prevStep) {
			t.Fatalf("frame %d: hitbox bottom %v beyond floor top %v", i, box.Bottom(), floor.Y)
		}
	}

	if e.Velocity.Y != 0 {
		t.Fatalf("expected vy == 0 at rest, got %v", e.Velocity.Y)
	}
	if e.Touch.Y != 1 || !e.Grounded() {
		t.Fatalf("expected touch.y == 1 at rest, got %v", e.Touch.Y)
	}
	if e.Touch.X != 0 {
		t.Fatalf("expected no x contact, got %v", e.Touch.X)
	}
}

func TestAxisIndependence(t *testing.T) {
	w := NewWorld()
	mustWall(t, w, -100, 1.01, 200, 1)
	id := spawnBox(t, w, 0, 0, func(e *Entity) {
		e.Movement = &Movement{}
		e.Velocity = common.Vec(5, 5)
	})
	e := mustEntity(t, w, id)

	if err := w.Update(nil, frameDT); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if e.Touch.Y != 1 || e.Velocity.Y != 0 {
		t.Fatalf("expected y blocked, touch=%v vel=%v", e.Touch, e.Velocity)
	}
	wantVX := 5 * (1 - frameDT*common.HorizontalDrag)
	if e.Touch.X != 0 || math.Abs(e.Velocity.X-wantVX) > 1e-12 {
		t.Fatalf("x must be unaffected by the floor, touch=%v vx=%v want %v", e.Touch, e.Velocity.X, wantVX)
	}
	if math.Abs(e.Position.X-wantVX*frameDT) > 1e-12 {
		t.Fatalf("expected full x displacement %v, got %v", wantVX*frameDT, e.Position.X)
	}
}

func TestXBlockedByWall(t *testing.T) {
	w := NewWorld()
	mustWall(t, w, 1.01, -10, 1, 20)
	id := spawnBox(t, w, 0, 0, func(e *Entity) {
		e.Movement = &Movement{}
		e.Velocity = common.Vec(6, 0)
	})
	e := mustEntity(t, w, id)

	if err := w.Update(nil, frameDT); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if e.Touch.X != 1 || e.Velocity.X != 0 {
		t.Fatalf("expected x blocked moving right, touch=%v vel=%v", e.Touch, e.Velocity)
	}
	if e.Position.X != 0 {
		t.Fatalf("blocked first substep must be undone, x=%v", e.Position.X)
	}
	if e.Velocity.Y == 0 {
		t.Fatalf("y must keep falling, vel=%v", e.Velocity)
	}

	events := w.Events().Drain()
	if len(events) != 1 || events[0].Kind != EventWallContact || events[0].Axis != AxisX || events[0].Dir != 1 || events[0].Entity != id {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestZeroDeltaIsIdempotent(t *testing.T) {
	w := NewWorld()
	mustWall(t, w, -10, 2, 20, 1)
	var ids []EntityID
	ids = append(ids, spawnBox(t, w, 0, 0.5, withMovementAndInput))
	ids = append(ids, spawnBox(t, w, 3, -4, func(e *Entity) {
		withMovement(e)
		e.Velocity = common.Vec(2, -1)
	}))
	ids = append(ids, spawnBox(t, w, 5, 5, func(e *Entity) {
		b := arrowBinding
		e.Input = &b
		e.Velocity = common.Vec(1, 1)
	}))
	stepFrames(t, w, nil, 120)

	before := make([]Entity, len(ids))
	for i, id := range ids {
		before[i] = *mustEntity(t, w, id)
	}

	keys := NewKeySet("ArrowLeft", "ArrowRight", "Space")
	for i := 0; i < 10; i++ {
		if err := w.Update(keys, 0); err != nil {
			t.Fatalf("update failed: %v", err)
		}
	}

	for i, id := range ids {
		e := mustEntity(t, w, id)
		if e.Position != before[i].Position || e.Velocity != before[i].Velocity {
			t.Fatalf("entity %s changed with dt=0: before %+v after %+v", id, before[i], *e)
		}
	}
}

func TestFlagGating(t *testing.T) {
	t.Run("no_movement_ignores_gravity", func(t *testing.T) {
		w := NewWorld()
		id := spawnBox(t, w, 1, 1, func(e *Entity) {
			e.Velocity = common.Vec(1, 2)
		})
		stepFrames(t, w, nil, 100)
		e := mustEntity(t, w, id)
		if e.Position != common.Vec(1, 1) || e.Velocity != common.Vec(1, 2) {
			t.Fatalf("entity without movement changed: %+v", *e)
		}
	})

	t.Run("no_input_ignores_keys", func(t *testing.T) {
		w := NewWorld()
		mustWall(t, w, -10, 2, 20, 1)
		plain := spawnBox(t, w, 0, 0.5, withMovement)
		w2 := NewWorld()
		mustWall(t, w2, -10, 2, 20, 1)
		ref := spawnBox(t, w2, 0, 0.5, withMovement)

		keys := NewKeySet("ArrowLeft", "Space", "ArrowRight", "A")
		for i := 0; i < 90; i++ {
			if err := w.Update(keys, frameDT); err != nil {
				t.Fatal(err)
			}
			if err := w2.Update(nil, frameDT); err != nil {
				t.Fatal(err)
			}
		}
		a, b := mustEntity(t, w, plain), mustEntity(t, w2, ref)
		if a.Position != b.Position || a.Velocity != b.Velocity || a.Touch != b.Touch {
			t.Fatalf("keys affected entity without input: %+v vs %+v", *a, *b)
		}
	})

	t.Run("hidden_has_no_physics_effect", func(t *testing.T) {
		w := NewWorld()
		shown := spawnBox(t, w, 0, 0, withMovement)
		hidden := spawnBox(t, w, 0, 0, func(e *Entity) {
			withMovement(e)
			e.Hidden = true
		})
		stepFrames(t, w, nil, 30)
		a, b := mustEntity(t, w, shown), mustEntity(t, w, hidden)
		if a.Position != b.Position || a.Velocity != b.Velocity {
			t.Fatalf("hidden changed physics: %+v vs %+v", *a, *b)
		}
		if got := w.Query(Visible); len(got) != 1 || got[0] != shown {
			t.Fatalf("Visible query = %v", got)
		}
	})
}

func TestInputRule(t *testing.T) {
	cases := []struct {
		name   string
		keys   KeySet
		wantVX float64
	}{
		{"none", NewKeySet(), 0},
		{"right", NewKeySet("ArrowRight"), 5},
		{"left", NewKeySet("ArrowLeft"), -5},
		{"both_cancel", NewKeySet("ArrowLeft", "ArrowRight"), 0},
		{"up_down_unused", NewKeySet("ArrowUp", "ArrowDown"), 0},
		{"unbound_key", NewKeySet("D"), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			id := spawnBox(t, w, 0, 0, func(e *Entity) {
				b := arrowBinding
				e.Input = &b
			})
			if err := w.Update(c.keys, 0.5); err != nil {
				t.Fatal(err)
			}
			e := mustEntity(t, w, id)
			if e.Velocity.X != c.wantVX || e.Velocity.Y != 0 {
				t.Fatalf("velocity = %v, want (%v, 0)", e.Velocity, c.wantVX)
			}
			if e.Position != common.Vec(0, 0) {
				t.Fatalf("input alone must not move the entity, pos=%v", e.Position)
			}
		})
	}
}

func TestJumpGating(t *testing.T) {
	t.Run("airborne_jump_ignored", func(t *testing.T) {
		w := NewWorld()
		jumper := spawnBox(t, w, 0, 0, withMovementAndInput)
		w2 := NewWorld()
		ref := spawnBox(t, w2, 0, 0, withMovementAndInput)

		jump := NewKeySet("Space")
		for i := 0; i < 30; i++ {
			if err := w.Update(jump, frameDT); err != nil {
				t.Fatal(err)
			}
			if err := w2.Update(nil, frameDT); err != nil {
				t.Fatal(err)
			}
			if len(w.Events().Drain()) != 0 {
				t.Fatalf("frame %d: airborne entity emitted events", i)
			}
		}
		if a, b := mustEntity(t, w, jumper), mustEntity(t, w2, ref); a.Velocity.Y != b.Velocity.Y {
			t.Fatalf("airborne jump changed vy: %v vs %v", a.Velocity.Y, b.Velocity.Y)
		}
	})

	t.Run("grounded_jump_applies_impulse", func(t *testing.T) {
		w := NewWorld()
		mustWall(t, w, -10, 2, 20, 1)
		id := spawnBox(t, w, 0, 0.5, withMovementAndInput)
		stepFrames(t, w, nil, 120)
		e := mustEntity(t, w, id)
		if !e.Grounded() {
			t.Fatalf("expected grounded before jumping, touch=%v", e.Touch)
		}

		jump := NewKeySet("Space")
		if err := w.Update(jump, frameDT); err != nil {
			t.Fatal(err)
		}
		if e.Velocity.Y != -common.MoveSpeed {
			t.Fatalf("expected vy == -%v after jump, got %v", common.MoveSpeed, e.Velocity.Y)
		}
		var jumped bool
		for _, evt := range w.Events().Drain() {
			if evt.Kind == EventJump && evt.Entity == id {
				jumped = true
			}
		}
		if !jumped {
			t.Fatalf("expected jump event")
		}

		if err := w.Update(jump, frameDT); err != nil {
			t.Fatal(err)
		}
		if e.Grounded() {
			t.Fatalf("entity should be airborne after jumping, touch=%v", e.Touch)
		}
		want := -common.MoveSpeed + common.GravityY*frameDT
		if math.Abs(e.Velocity.Y-want) > 1e-12 {
			t.Fatalf("holding jump airborne must not re-apply impulse: vy=%v want %v", e.Velocity.Y, want)
		}
	})
}

func TestUpdateRejectsBadInput(t *testing.T) {
	for _, dt := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -0.1} {
		w := NewWorld()
		id := spawnBox(t, w, 0, 0, withMovement)
		if err := w.Update(nil, dt); !errors.Is(err, ErrInvalidDelta) {
			t.Fatalf("dt=%v: expected ErrInvalidDelta, got %v", dt, err)
		}
		if w.Frame() != 0 {
			t.Fatalf("frame advanced on failed update")
		}
		if e := mustEntity(t, w, id); e.Velocity != (common.Vector{}) {
			t.Fatalf("entity mutated on failed update: %+v", *e)
		}
	}

	w := NewWorld()
	good := spawnBox(t, w, 0, 0, withMovement)
	spawnBox(t, w, 0, 0, func(e *Entity) {
		withMovement(e)
		e.Velocity.X = math.NaN()
	})
	if err := w.Update(nil, frameDT); !errors.Is(err, ErrNonFiniteState) {
		t.Fatalf("expected ErrNonFiniteState, got %v", err)
	}
	if e := mustEntity(t, w, good); e.Velocity != (common.Vector{}) || e.Position != (common.Vector{}) {
		t.Fatalf("healthy entity mutated on failed update: %+v", *e)
	}

	hitboxes := []common.Rect{
		{W: math.NaN(), H: 1},
		{W: 1, H: math.Inf(1)},
		{X: math.Inf(-1), W: 1, H: 1},
		{Y: math.NaN(), W: 1, H: 1},
	}
	for _, hb := range hitboxes {
		w := NewWorld()
		mustWall(t, w, -10, 2, 20, 1)
		good := spawnBox(t, w, 0, 0, withMovement)
		spawnBox(t, w, 0, 0, func(e *Entity) {
			withMovement(e)
			e.Hitbox = hb
		})
		if err := w.Update(nil, frameDT); !errors.Is(err, ErrNonFiniteState) {
			t.Fatalf("hitbox %v: expected ErrNonFiniteState, got %v", hb, err)
		}
		if w.Frame() != 0 {
			t.Fatalf("hitbox %v: frame advanced on failed update", hb)
		}
		if e := mustEntity(t, w, good); e.Velocity != (common.Vector{}) {
			t.Fatalf("hitbox %v: healthy entity mutated: %+v", hb, *e)
		}
	}
}

func TestFrameCounter(t *testing.T) {
	w := NewWorld()
	stepFrames(t, w, nil, 7)
	if w.Frame() != 7 {
		t.Fatalf("expected frame 7, got %d", w.Frame())
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	build := func(workers int) (*World, []EntityID) {
		w := NewWorld()
		w.SetWorkers(workers)
		mustWall(t, w, -20, 8, 40, 1)
		mustWall(t, w, -20, -20, 1, 40)
		mustWall(t, w, 19, -20, 1, 40)
		var ids []EntityID
		for i := 0; i < 37; i++ {
			ids = append(ids, spawnBox(t, w, float64(i%20)-10, float64(i/20)*2, func(e *Entity) {
				e.Hitbox = common.Rect{W: 0.4, H: 1.2}
				e.Velocity = common.Vec(float64(i%7)-3, float64(i%5)-2)
				switch i % 3 {
				case 0:
					withMovementAndInput(e)
				case 1:
					withMovement(e)
				}
			}))
		}
		return w, ids
	}

	serial, ids := build(1)
	parallel, _ := build(4)
	keys := NewKeySet()
	for frame := 0; frame < 180; frame++ {
		keys.Clear()
		if frame%40 < 20 {
			keys.Press("ArrowRight")
		}
		if frame%60 == 30 {
			keys.Press("Space")
		}
		if err := serial.Update(keys, frameDT); err != nil {
			t.Fatal(err)
		}
		if err := parallel.Update(keys, frameDT); err != nil {
			t.Fatal(err)
		}
		if a, b := serial.Events().Drain(), parallel.Events().Drain(); !reflect.DeepEqual(a, b) {
			t.Fatalf("frame %d: events differ\nserial=%+v\nparallel=%+v", frame, a, b)
		}
	}
	for _, id := range ids {
		a, b := mustEntity(t, serial, id), mustEntity(t, parallel, id)
		if a.Position != b.Position || a.Velocity != b.Velocity || a.Touch != b.Touch {
			t.Fatalf("entity %s differs: serial=%+v parallel=%+v", id, *a, *b)
		}
	}
}

func TestSetParams(t *testing.T) {
	w := NewWorld()
	bad := DefaultParams()
	bad.Substeps = 0
	if err := w.SetParams(bad); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
	bad = DefaultParams()
	bad.Gravity.Y = math.Inf(1)
	if err := w.SetParams(bad); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}

	p := DefaultParams()
	p.Gravity = common.Vec(0, 0)
	if err := w.SetParams(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id := spawnBox(t, w, 0, 0, withMovement)
	stepFrames(t, w, nil, 10)
	if e := mustEntity(t, w, id); e.Position != (common.Vector{}) {
		t.Fatalf("zero gravity must not move a resting entity, got %v", e.Position)
	}
}

func TestKeySet(t *testing.T) {
	s := NewKeySet("Space", "A")
	s.Press("")
	if s.Len() != 2 || !s.Held("A") || s.Held("") {
		t.Fatalf("unexpected key set %v", s.Keys())
	}
	s.Release("A")
	if s.Held("A") {
		t.Fatalf("released key still held")
	}
	if got := NewKeySet("b", "a").Keys(); !reflect.DeepEqual(got, []Key{"a", "b"}) {
		t.Fatalf("Keys = %v", got)
	}
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("Clear left %d keys", s.Len())
	}
	var nilSet KeySet
	if nilSet.Held("Space") {
		t.Fatalf("nil set holds nothing")
	}
}
