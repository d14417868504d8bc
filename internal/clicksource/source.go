// Package clicksource abstracts where click events come from: pointer events inside
// the application window, or a system-wide hook installed through the host OS.
package clicksource

import "time"

// Button identifies the mouse button of a click.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// String returns a string representation of the button.
func (button Button) String() string {
	switch button {
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return "left"
	}
}

// ClickEvent describes a single pointer-down.
type ClickEvent struct {
	Timestamp time.Time
	X         float64
	Y         float64
	Button    Button
}

// Handler receives click events.
type Handler func(ClickEvent)

// Source emits click events to a single registered handler.
type Source interface {
	// Start activates the source and reports whether it is now running.
	Start() bool
	// Stop deactivates the source. Stopping an inactive source succeeds.
	Stop() bool
	IsRunning() bool
	// OnClick replaces the registered handler.
	OnClick(handler Handler)
}
