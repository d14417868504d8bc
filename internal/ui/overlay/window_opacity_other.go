//go:build !windows

package overlay

// applyNativeOpacity is a no-op; the background rectangle alpha dims the screen.
func (overlay *Window) applyNativeOpacity(uint8) {}
