package breakcycle

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultBreakSeconds is the length of a break countdown.
const DefaultBreakSeconds = 15 * 60

// Config contains runtime options for the Controller.
type Config struct {
	TickInterval time.Duration
	BreakSeconds int
	Clock        func() time.Time
}

// Controller is the click-goal break state machine.
//
// Clicks accumulate while active. Reaching the goal starts a break with a
// countdown; the count resets when the break ends by expiry or manually.
type Controller struct {
	mu              sync.Mutex
	options         Config
	goal            int
	state           State
	clickCount      int
	remaining       int
	breakID         string
	generation      uint64
	events          []chan Event
	onTransition    func(Event)
	running         bool
	stopped         bool
	cancelCountdown context.CancelFunc
}

// New creates a Controller in the active state.
func New(goal int, options Config) *Controller {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.BreakSeconds <= 0 {
		options.BreakSeconds = DefaultBreakSeconds
	}
	if options.Clock == nil {
		options.Clock = time.Now
	}
	if goal <= 0 {
		goal = 1
	}

	return &Controller{
		options: options,
		goal:    goal,
		state:   StateActive,
	}
}

// SetTransitionHandler registers a callback invoked synchronously, outside the
// controller lock, after every state change.
func (controller *Controller) SetTransitionHandler(handler func(Event)) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.onTransition = handler
}

// Subscribe registers a new observer channel. After Stop the channel comes back
// already closed.
func (controller *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.stopped {
		close(ch)
		return ch
	}
	controller.events = append(controller.events, ch)
	return ch
}

// Start arms the countdown ticker. A break already in progress resumes counting down.
func (controller *Controller) Start() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.running {
		return
	}
	controller.running = true
	controller.stopped = false
	controller.startCountdownLocked()
}

// Stop cancels the countdown and closes observers.
func (controller *Controller) Stop() {
	controller.mu.Lock()
	controller.running = false
	controller.stopped = true
	controller.stopCountdownLocked()
	events := controller.events
	controller.events = nil
	controller.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Snapshot returns the current state.
func (controller *Controller) Snapshot() Snapshot {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.snapshotLocked()
}

// State returns the current mode.
func (controller *Controller) State() State {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.state
}

// RecordClick counts a click. It returns false when the click was ignored
// because a break is in progress.
func (controller *Controller) RecordClick() bool {
	controller.mu.Lock()
	if controller.state == StateBreak {
		controller.mu.Unlock()
		return false
	}

	controller.clickCount++
	if controller.clickCount < controller.goal {
		controller.emitLocked(controller.eventLocked(EventProgress, ReasonClick))
		controller.mu.Unlock()
		return true
	}

	event := controller.enterBreakLocked()
	handler := controller.onTransition
	controller.mu.Unlock()

	if handler != nil {
		handler(event)
	}
	return true
}

// Tick advances the break countdown by one second. It is a no-op while active.
func (controller *Controller) Tick() {
	controller.mu.Lock()
	generation := controller.generation
	controller.mu.Unlock()
	controller.tick(generation)
}

// EndBreakNow ends the current break regardless of the remaining time.
func (controller *Controller) EndBreakNow() {
	controller.mu.Lock()
	if controller.state != StateBreak {
		controller.mu.Unlock()
		return
	}
	event := controller.exitBreakLocked(ReasonEndedManually)
	handler := controller.onTransition
	controller.mu.Unlock()

	if handler != nil {
		handler(event)
	}
}

// UpdateGoal replaces the click goal. The new goal is checked on the next click,
// never retroactively. Non-positive goals are ignored.
func (controller *Controller) UpdateGoal(goal int) {
	if goal <= 0 {
		return
	}
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.goal == goal {
		return
	}
	controller.goal = goal
	controller.emitLocked(controller.eventLocked(EventProgress, ReasonGoalUpdated))
}

func (controller *Controller) tick(generation uint64) {
	controller.mu.Lock()
	if controller.state != StateBreak || generation != controller.generation {
		controller.mu.Unlock()
		return
	}

	controller.remaining--
	if controller.remaining > 0 {
		controller.emitLocked(controller.eventLocked(EventProgress, ReasonTick))
		controller.mu.Unlock()
		return
	}

	event := controller.exitBreakLocked(ReasonExpired)
	handler := controller.onTransition
	controller.mu.Unlock()

	if handler != nil {
		handler(event)
	}
}

func (controller *Controller) enterBreakLocked() Event {
	controller.state = StateBreak
	controller.remaining = controller.options.BreakSeconds
	controller.generation++
	controller.breakID = uuid.NewString()
	controller.startCountdownLocked()

	event := controller.eventLocked(EventStateChange, ReasonGoalReached)
	controller.emitLocked(event)
	return event
}

func (controller *Controller) exitBreakLocked(reason Reason) Event {
	controller.stopCountdownLocked()
	breakID := controller.breakID

	controller.state = StateActive
	controller.remaining = 0
	controller.clickCount = 0
	controller.breakID = ""

	event := controller.eventLocked(EventStateChange, reason)
	event.BreakID = breakID
	controller.emitLocked(event)
	return event
}

func (controller *Controller) startCountdownLocked() {
	if !controller.running || controller.state != StateBreak || controller.cancelCountdown != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	controller.cancelCountdown = cancel
	go controller.runCountdown(ctx, controller.generation)
}

func (controller *Controller) stopCountdownLocked() {
	if controller.cancelCountdown != nil {
		controller.cancelCountdown()
		controller.cancelCountdown = nil
	}
}

func (controller *Controller) runCountdown(ctx context.Context, generation uint64) {
	ticker := time.NewTicker(controller.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			controller.tick(generation)
		}
	}
}

func (controller *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		ClickCount:            controller.clickCount,
		ClickGoal:             controller.goal,
		BreakActive:           controller.state == StateBreak,
		BreakRemainingSeconds: controller.remaining,
	}
}

func (controller *Controller) eventLocked(eventType EventType, reason Reason) Event {
	return Event{
		Type:     eventType,
		State:    controller.state,
		Reason:   reason,
		BreakID:  controller.breakID,
		Snapshot: controller.snapshotLocked(),
		At:       controller.options.Clock(),
	}
}

func (controller *Controller) emitLocked(event Event) {
	for _, ch := range controller.events {
		select {
		case ch <- event:
		default:
		}
	}
}
