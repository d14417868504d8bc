//go:build darwin && !cgo

package clicksource

func newNativeHook(Options) hook {
	return unsupportedHook{reason: "built without cgo"}
}
