package ecs

// EventKind identifies what happened during a system update.
type EventKind string

const (
	EventEnemyDefeated EventKind = "enemy_defeated"
	EventPlayerHurt    EventKind = "player_hurt"
	EventPlayerDied    EventKind = "player_died"
	EventShake         EventKind = "shake"
	EventTutorial      EventKind = "tutorial"
	EventShotFired     EventKind = "shot_fired"
)

// Event is emitted by systems and drained by the game state machine once per
// tick.
type Event struct {
	Kind      EventKind
	Entity    Entity
	X, Y      float64
	Magnitude float64
	Name      string
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

// Len reports the number of pending events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
