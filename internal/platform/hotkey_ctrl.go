//go:build windows || (cgo && linux)

package platform

import "golang.design/x/hotkey"

func toggleModifiers() []hotkey.Modifier {
	return []hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}
}
