//go:build !windows && !(cgo && (darwin || linux))

package platform

func registerToggleHotkey(func()) (*GlobalHotkey, error) {
	return nil, ErrHotkeyUnsupported
}
