package ecs

// Query returns live entity ids, in slot order, for which match is true.
func (w *World) Query(match func(e *Entity) bool) []EntityID {
	var out []EntityID
	w.store.each(func(id EntityID, e *Entity) {
		if match == nil || match(e) {
			out = append(out, id)
		}
	})
	return out
}

// Each calls fn for every live entity in slot order.
func (w *World) Each(fn func(id EntityID, e *Entity)) {
	if fn == nil {
		return
	}
	w.store.each(fn)
}

func HasMovement(e *Entity) bool { return e.Movement != nil }

func HasInput(e *Entity) bool { return e.Input != nil }

// Visible matches entities the renderers should draw.
func Visible(e *Entity) bool { return !e.Hidden }
