package ecs

// entityStore is a growable slot arena with a free list. Each slot carries a
// generation so ids held after a despawn are detected as stale.
type entityStore struct {
	slots []entitySlot
	free  []uint32
	live  int
	max   int
}

type entitySlot struct {
	gen    uint32
	alive  bool
	entity *Entity
}

func (s *entityStore) create(e *Entity) (EntityID, error) {
	if s.max > 0 && s.live >= s.max {
		return 0, ErrWorldFull
	}
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		idx = uint32(len(s.slots))
		s.slots = append(s.slots, entitySlot{gen: 1})
	}
	slot := &s.slots[idx]
	slot.alive = true
	slot.entity = e
	s.live++
	return makeEntityID(idx, slot.gen), nil
}

func (s *entityStore) lookup(id EntityID) (*entitySlot, error) {
	idx := id.slot()
	if int(idx) >= len(s.slots) {
		return nil, ErrEntityOutOfRange
	}
	slot := &s.slots[idx]
	if !slot.alive || slot.gen != id.generation() {
		return nil, ErrEntityNotAlive
	}
	return slot, nil
}

func (s *entityStore) destroy(id EntityID) error {
	slot, err := s.lookup(id)
	if err != nil {
		return err
	}
	slot.alive = false
	slot.entity = nil
	slot.gen++
	if slot.gen == 0 {
		slot.gen = 1
	}
	s.free = append(s.free, id.slot())
	s.live--
	return nil
}

// each visits live entities in slot order.
func (s *entityStore) each(fn func(id EntityID, e *Entity)) {
	for i := range s.slots {
		slot := &s.slots[i]
		if !slot.alive {
			continue
		}
		fn(makeEntityID(uint32(i), slot.gen), slot.entity)
	}
}
