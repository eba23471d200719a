package ecs

import "sort"

// Key is an abstract key identity such as "Space" or "ArrowLeft".
type Key string

// KeyState answers whether a key is currently held.
type KeyState interface {
	Held(k Key) bool
}

// KeySet is the set of held keys. Press inserts, Release removes.
type KeySet map[Key]struct{}

func NewKeySet(keys ...Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s.Press(k)
	}
	return s
}

func (s KeySet) Press(k Key) {
	if s == nil || k == "" {
		return
	}
	s[k] = struct{}{}
}

func (s KeySet) Release(k Key) {
	delete(s, k)
}

func (s KeySet) Held(k Key) bool {
	if k == "" {
		return false
	}
	_, ok := s[k]
	return ok
}

func (s KeySet) Clear() {
	for k := range s {
		delete(s, k)
	}
}

func (s KeySet) Len() int {
	return len(s)
}

// Keys returns the held keys sorted by name.
func (s KeySet) Keys() []Key {
	out := make([]Key, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type noKeys struct{}

func (noKeys) Held(Key) bool { return false }

// applyInput runs the input rule. It reports whether a jump impulse fired.
func applyInput(e *Entity, keys KeyState, p Params, dt float64) bool {
	b := e.Input
	if keys.Held(b.Left) {
		e.Velocity.X -= p.MoveSpeed * dt
	}
	if keys.Held(b.Right) {
		e.Velocity.X += p.MoveSpeed * dt
	}
	if keys.Held(b.Jump) && e.Grounded() {
		e.Velocity.Y -= p.MoveSpeed
		return true
	}
	return false
}
