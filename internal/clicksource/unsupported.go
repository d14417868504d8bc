package clicksource

import (
	"fmt"
	"runtime"
)

// unsupportedHook is selected where no native mechanism exists.
type unsupportedHook struct {
	reason string
}

func (unsupportedHook) Name() string {
	return "none"
}

func (hook unsupportedHook) Install(func(ClickEvent), func(error)) error {
	if hook.reason != "" {
		return fmt.Errorf("%w on %s: %s", ErrUnsupported, runtime.GOOS, hook.reason)
	}
	return fmt.Errorf("%w on %s", ErrUnsupported, runtime.GOOS)
}

func (unsupportedHook) Uninstall() error {
	return nil
}
