package clicksource

import (
	"sync"
	"time"
)

// Windowed emits a click for each pointer-down delivered by the application window.
// It is active for the lifetime of the window.
type Windowed struct {
	mu      sync.RWMutex
	handler Handler
	clock   func() time.Time
}

// NewWindowed creates a windowed source.
func NewWindowed() *Windowed {
	return &Windowed{clock: time.Now}
}

// Start is a no-op; the windowed source is always active.
func (source *Windowed) Start() bool { return true }

// Stop is a no-op; the windowed source is always active.
func (source *Windowed) Stop() bool { return true }

// IsRunning always reports true.
func (source *Windowed) IsRunning() bool { return true }

// OnClick registers the handler.
func (source *Windowed) OnClick(handler Handler) {
	source.mu.Lock()
	source.handler = handler
	source.mu.Unlock()
}

// Emit delivers a pointer-down synchronously to the handler.
func (source *Windowed) Emit(x, y float64, button Button) {
	source.mu.RLock()
	handler := source.handler
	source.mu.RUnlock()
	if handler == nil {
		return
	}
	handler(ClickEvent{
		Timestamp: source.clock(),
		X:         x,
		Y:         y,
		Button:    button,
	})
}
