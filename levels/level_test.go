package levels

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/prefabs"
	"golang.org/x/image/colornames"
)

func TestDefaultLevelMatchesDemo(t *testing.T) {
	lvl, err := Load("default")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	w := ecs.NewWorld()
	ids, err := Build(lvl, w, nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected one spawn, got %d", len(ids))
	}

	wantWalls := []common.Rect{{X: 2, Y: 9, W: 0.5, H: 1.1}, {X: 2, Y: 10, W: 10, H: 1}}
	got := w.Walls()
	if len(got) != len(wantWalls) {
		t.Fatalf("walls = %v", got)
	}
	for i := range wantWalls {
		if got[i] != wantWalls[i] {
			t.Fatalf("wall %d = %v, want %v", i, got[i], wantWalls[i])
		}
	}

	e, err := w.Entity(ids[0])
	if err != nil {
		t.Fatal(err)
	}
	if e.Movement == nil || e.Input == nil || e.Input.Jump != "Space" {
		t.Fatalf("player components = %+v", *e)
	}
	if e.Hitbox != (common.Rect{W: 0.4, H: 1.2}) || e.Velocity != common.Vec(1, 0) {
		t.Fatalf("player hitbox/velocity = %v %v", e.Hitbox, e.Velocity)
	}
}

func TestYardLevelBuilds(t *testing.T) {
	lvl, err := Load("levels/yard.yaml")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	w := ecs.NewWorld()
	ids, err := Build(lvl, w, nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(ids) != len(lvl.Spawns) || len(w.Walls()) != len(lvl.Walls) {
		t.Fatalf("built %d entities and %d walls", len(ids), len(w.Walls()))
	}
	if n := len(w.Query(ecs.HasInput)); n != 2 {
		t.Fatalf("expected two controllable entities, got %d", n)
	}
	if n := len(w.Query(ecs.Visible)); n != len(ids)-1 {
		t.Fatalf("expected the marker to be hidden, %d visible", n)
	}
	for i := 0; i < 120; i++ {
		if err := w.Update(ecs.NewKeySet(), 1.0/60); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad_yaml", "walls: {"},
		{"missing_prefab", "spawns:\n  - {x: 1, y: 1}\n"},
		{"bad_color", "palette:\n  wall: \"#12\"\n"},
		{"color_not_scalar", "palette:\n  wall: [1, 2]\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Parse([]byte(c.yaml)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
	if _, err := Parse([]byte("spawns:\n  - {x: 1}\n")); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
}

func TestBuildErrors(t *testing.T) {
	lvl, err := Parse([]byte("walls:\n  - {x: 0, y: 0, w: -1, h: 1}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Build(lvl, ecs.NewWorld(), nil); !errors.Is(err, common.ErrInvalidRect) {
		t.Fatalf("expected ErrInvalidRect, got %v", err)
	}

	lvl, err = Parse([]byte("spawns:\n  - {prefab: ghost, x: 0, y: 0}\n"))
	if err != nil {
		t.Fatal(err)
	}
	errMissing := errors.New("missing")
	loader := func(string) (prefabs.PrefabSpec, error) { return prefabs.PrefabSpec{}, errMissing }
	if _, err := Build(lvl, ecs.NewWorld(), loader); !errors.Is(err, errMissing) {
		t.Fatalf("expected loader error, got %v", err)
	}

	full := ecs.NewWorld()
	lvl, err = Parse([]byte("spawns:\n  - {prefab: crate, x: 0, y: 0}\n  - {prefab: crate, x: 1, y: 0}\n"))
	if err != nil {
		t.Fatal(err)
	}
	full.SetMaxEntities(1)
	if _, err := Build(lvl, full, nil); !errors.Is(err, ecs.ErrWorldFull) {
		t.Fatalf("expected ErrWorldFull, got %v", err)
	}
}

func TestBuildLoadsPrefabOnce(t *testing.T) {
	lvl, err := Parse([]byte("spawns:\n  - {prefab: crate, x: 0, y: 0}\n  - {prefab: crate, x: 2, y: 0}\n"))
	if err != nil {
		t.Fatal(err)
	}
	calls := 0
	loader := func(name string) (prefabs.PrefabSpec, error) {
		calls++
		return prefabs.LoadPrefab(name)
	}
	ids, err := Build(lvl, ecs.NewWorld(), loader)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || calls != 1 {
		t.Fatalf("ids=%d calls=%d", len(ids), calls)
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	old := DiskDir
	DiskDir = dir
	t.Cleanup(func() { DiskDir = old })

	if err := os.WriteFile(filepath.Join(dir, "default.yaml"), []byte("name: edited\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	lvl, err := Load("default")
	if err != nil {
		t.Fatal(err)
	}
	if lvl.Name != "edited" || len(lvl.Walls) != 0 {
		t.Fatalf("disk copy was not preferred: %+v", lvl)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.Color
		ok   bool
	}{
		{"#ff0000", color.NRGBA{R: 255, A: 255}, true},
		{"00ff0080", color.NRGBA{G: 255, A: 128}, true},
		{"SlateGray", colornames.Slategray, true},
		{"#12345", nil, false},
		{"#zz0000", nil, false},
		{"notacolour", nil, false},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseColor(c.in)
			if (err == nil) != c.ok {
				t.Fatalf("err = %v", err)
			}
			if c.ok && got != c.want {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestPaletteResolve(t *testing.T) {
	lvl, err := Parse([]byte("palette:\n  wall: \"#010203\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	got := lvl.Palette.Resolve()
	def := DefaultPalette()
	if got.Wall != (color.NRGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Fatalf("wall = %v", got.Wall)
	}
	if got.Background != def.Background || got.Player != def.Player || got.Entity != def.Entity {
		t.Fatalf("unset entries should use defaults: %+v", got)
	}
}
