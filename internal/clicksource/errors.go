package clicksource

import "errors"

var (
	// ErrUnsupported indicates system-wide capture is not available on this platform.
	ErrUnsupported = errors.New("system-wide click capture unsupported")
	// ErrPermission indicates the OS refused access to global input events.
	ErrPermission = errors.New("permission required for system-wide click capture")
	// ErrMissingDependency indicates a required native helper is not installed.
	ErrMissingDependency = errors.New("native dependency for click capture not found")
	// ErrCaptureLost indicates an installed mechanism stopped delivering clicks.
	ErrCaptureLost = errors.New("system-wide click capture lost")
)
