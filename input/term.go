package input

import (
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/platformer/ecs"
)

// DefaultHold is how long a terminal key press counts as held.
const DefaultHold = 150 * time.Millisecond

// TermKeys approximates held keys for terminals, which only report presses.
// A press holds the key for the hold window; key repeat refreshes it.
type TermKeys struct {
	hold  time.Duration
	now   func() time.Time
	until map[ecs.Key]time.Time
}

func NewTermKeys(hold time.Duration) *TermKeys {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &TermKeys{
		hold:  hold,
		now:   time.Now,
		until: make(map[ecs.Key]time.Time),
	}
}

func (t *TermKeys) SetClock(now func() time.Time) {
	if t == nil || now == nil {
		return
	}
	t.now = now
}

func (t *TermKeys) Press(k ecs.Key) {
	if t == nil || k == "" {
		return
	}
	t.until[k] = t.now().Add(t.hold)
}

func (t *TermKeys) Release(k ecs.Key) {
	if t == nil {
		return
	}
	delete(t.until, k)
}

func (t *TermKeys) Held(k ecs.Key) bool {
	if t == nil {
		return false
	}
	until, ok := t.until[k]
	return ok && t.now().Before(until)
}

// Snapshot drops expired keys and returns the ones still held.
func (t *TermKeys) Snapshot() ecs.KeySet {
	set := ecs.NewKeySet()
	if t == nil {
		return set
	}
	now := t.now()
	for k, until := range t.until {
		if !now.Before(until) {
			delete(t.until, k)
			continue
		}
		set.Press(k)
	}
	return set
}

// HandleEvent presses the key named by ev. It reports false for keys with
// no name.
func (t *TermKeys) HandleEvent(ev *tcell.EventKey) bool {
	k, ok := TermKeyName(ev)
	if !ok {
		return false
	}
	t.Press(k)
	return true
}

var termSpecialKeys = map[tcell.Key]ecs.Key{
	tcell.KeyLeft:  "ArrowLeft",
	tcell.KeyRight: "ArrowRight",
	tcell.KeyUp:    "ArrowUp",
	tcell.KeyDown:  "ArrowDown",
	tcell.KeyEnter: "Enter",
	tcell.KeyTab:   "Tab",
}

// TermKeyName maps a tcell key event to the names ebiten uses, so bindings
// work on both frontends. Letters are upper-cased.
func TermKeyName(ev *tcell.EventKey) (ecs.Key, bool) {
	if ev == nil {
		return "", false
	}
	if ev.Key() != tcell.KeyRune {
		k, ok := termSpecialKeys[ev.Key()]
		return k, ok
	}
	r := ev.Rune()
	switch {
	case r == ' ':
		return "Space", true
	case unicode.IsLetter(r) && r < unicode.MaxASCII:
		return ecs.Key(string(unicode.ToUpper(r))), true
	case r >= '0' && r <= '9':
		return ecs.Key("Digit" + string(r)), true
	}
	return "", false
}
