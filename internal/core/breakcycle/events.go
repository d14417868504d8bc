package breakcycle

import "time"

// State represents the current controller mode.
type State string

const (
	StateActive State = "active"
	StateBreak  State = "break"
)

// EventType defines the type of controller event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
)

// Reason explains what caused an event.
type Reason string

const (
	ReasonClick         Reason = "click"
	ReasonGoalReached   Reason = "goal_reached"
	ReasonTick          Reason = "tick"
	ReasonExpired       Reason = "expired"
	ReasonEndedManually Reason = "ended_manually"
	ReasonGoalUpdated   Reason = "goal_updated"
)

// Snapshot is the state pushed to observers on every change.
type Snapshot struct {
	ClickCount            int
	ClickGoal             int
	BreakActive           bool
	BreakRemainingSeconds int
}

// Remaining returns the break countdown as a duration.
func (snapshot Snapshot) Remaining() time.Duration {
	return time.Duration(snapshot.BreakRemainingSeconds) * time.Second
}

// Progress returns the fraction of the goal reached, clamped to [0, 1].
func (snapshot Snapshot) Progress() float64 {
	if snapshot.ClickGoal <= 0 {
		return 0
	}
	progress := float64(snapshot.ClickCount) / float64(snapshot.ClickGoal)
	if progress > 1 {
		return 1
	}
	return progress
}

// Event represents a controller update for observers.
type Event struct {
	Type     EventType
	State    State
	Reason   Reason
	BreakID  string
	Snapshot Snapshot
	At       time.Time
}
