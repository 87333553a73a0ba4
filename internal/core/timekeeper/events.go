package timekeeper

import (
	"time"

	"screenbreak/internal/core/schedule"
)

// State represents the current TimeKeeper mode.
type State string

const (
	StateWork    State = "work"
	StateWarning State = "warning"
	StateBreak   State = "break"
	StatePaused  State = "paused"
	StateIdle    State = "idle"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventWarning     EventType = "warning"
	EventBreak       EventType = "break"
	EventResolved    EventType = "resolved"
	EventIdleReset   EventType = "idle_reset"
	EventIdleError   EventType = "idle_error"
	EventReminder    EventType = "reminder"
	EventLowEnergy   EventType = "low_energy"
	EventRecovered   EventType = "recovered"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type      EventType
	State     State
	Kind      schedule.BreakKind
	Outcome   schedule.Outcome
	Title     string
	Remaining time.Duration
	Message   string
	At        time.Time
}
