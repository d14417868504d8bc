//go:build !linux && !windows && !darwin

package clicksource

func newNativeHook(Options) hook {
	return unsupportedHook{}
}
