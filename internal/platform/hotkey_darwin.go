//go:build darwin && cgo

package platform

import "golang.design/x/hotkey"

func toggleModifiers() []hotkey.Modifier {
	return []hotkey.Modifier{hotkey.ModCmd, hotkey.ModShift}
}
