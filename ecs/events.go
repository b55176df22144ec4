package ecs

// EventType identifies an event payload.
type EventType string

const (
	// EventCollisionBegin carries a CollisionPair recorded during a physics step.
	EventCollisionBegin EventType = "collision_begin"
	// EventMerged carries a MergeEvent after the reducer created the result piece.
	EventMerged EventType = "merged"
	// EventGameOver carries a GameOverEvent once the session latched.
	EventGameOver EventType = "game_over"
)

// Event is a generic ECS event payload.
type Event struct {
	Type EventType
	Data any
}

// CollisionPair is one collision-begin report between two entities, in the
// order the physics engine reported them.
type CollisionPair struct {
	A Entity
	B Entity
}

// MergeEvent describes a completed merge.
type MergeEvent struct {
	Result Entity
	Level  int
	X      float64
	Y      float64
	Score  int
}

// GameOverEvent describes why a session ended.
type GameOverEvent struct {
	Entity     Entity
	Reason     string
	FinalScore int
}

// EventQueue is a simple FIFO queue cleared at the end of every tick.
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

// DrainType removes and returns events of one type, keeping the rest in order.
func (q *EventQueue) DrainType(t EventType) []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	var out []Event
	kept := q.items[:0]
	for _, evt := range q.items {
		if evt.Type == t {
			out = append(out, evt)
			continue
		}
		kept = append(kept, evt)
	}
	for i := len(kept); i < len(q.items); i++ {
		q.items[i] = Event{}
	}
	q.items = kept
	return out
}

// Peek returns queued events of one type without removing them.
func (q *EventQueue) Peek(t EventType) []Event {
	if q == nil {
		return nil
	}
	var out []Event
	for _, evt := range q.items {
		if evt.Type == t {
			out = append(out, evt)
		}
	}
	return out
}

// Len returns the number of queued events.
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
