package ecs

// EventKind identifies event types emitted during an update.
type EventKind string

const (
	EventWallContact EventKind = "wall_contact"
	EventJump        EventKind = "jump"
)

// Axis names the axis a contact was resolved on.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Event is emitted by World.Update. Dir is the sign of the blocked step for
// wall contacts and zero otherwise.
type Event struct {
	Kind   EventKind
	Entity EntityID
	Axis   Axis
	Dir    float64
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
