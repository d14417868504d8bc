package platform

import (
	"errors"
	"sync"
)

// ErrHotkeyUnsupported indicates this build cannot register system-wide hotkeys.
var ErrHotkeyUnsupported = errors.New("global hotkey unsupported")

// GlobalHotkey is a registered system-wide shortcut.
type GlobalHotkey struct {
	unregister func() error
	stop       chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
}

// RegisterToggleHotkey grabs Ctrl+Shift+C (Cmd+Shift+C on macOS) for the whole
// desktop and calls onPress on every key down, from a background goroutine.
func RegisterToggleHotkey(onPress func()) (*GlobalHotkey, error) {
	return registerToggleHotkey(onPress)
}

func newGlobalHotkey[T any](keydown <-chan T, unregister func() error, onPress func()) *GlobalHotkey {
	hotkey := &GlobalHotkey{
		unregister: unregister,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go func() {
		defer close(hotkey.done)
		for {
			select {
			case <-hotkey.stop:
				return
			case _, ok := <-keydown:
				if !ok {
					return
				}
				if onPress != nil {
					onPress()
				}
			}
		}
	}()
	return hotkey
}

// Close stops listening and releases the grab.
func (hotkey *GlobalHotkey) Close() error {
	if hotkey == nil {
		return nil
	}
	var err error
	hotkey.closeOnce.Do(func() {
		close(hotkey.stop)
		<-hotkey.done
		if hotkey.unregister != nil {
			err = hotkey.unregister()
		}
	})
	return err
}
