//go:build windows || (cgo && (darwin || linux))

package platform

import (
	"fmt"

	"golang.design/x/hotkey"
)

func registerToggleHotkey(onPress func()) (*GlobalHotkey, error) {
	hk := hotkey.New(toggleModifiers(), hotkey.KeyC)
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("register hotkey: %w", err)
	}
	return newGlobalHotkey(hk.Keydown(), hk.Unregister, onPress), nil
}
