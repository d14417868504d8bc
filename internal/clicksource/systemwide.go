package clicksource

import (
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Mode selects how the system-wide source captures clicks.
type Mode string

const (
	// ModeNative installs the platform hook for the current OS.
	ModeNative Mode = "native"
	// ModeSimulated synthesises clicks on a timer. Intended for demos only.
	ModeSimulated Mode = "simulated"
)

const (
	DefaultSimulatedInterval    = 100 * time.Millisecond
	DefaultSimulatedProbability = 0.01
)

// Options configures a system-wide source.
type Options struct {
	Mode                 Mode
	SimulatedInterval    time.Duration
	SimulatedProbability float64
	Random               *rand.Rand
	Clock                func() time.Time
	Logger               zerolog.Logger
}

// hook is a platform mechanism that delivers global clicks until uninstalled.
type hook interface {
	Name() string
	// Install starts delivering clicks to emit. It must not block once the
	// mechanism is in place. A hook that can die on its own (a helper process
	// exiting) calls lost once with the cause; lost may be nil.
	Install(emit func(ClickEvent), lost func(error)) error
	// Uninstall stops delivery and releases OS resources before returning.
	Uninstall() error
}

// SystemWide captures clicks outside the application window.
type SystemWide struct {
	mu        sync.Mutex
	hook      hook
	running   bool
	installs  uint64
	lastErr   error
	logger    zerolog.Logger
	handlerMu sync.RWMutex
	handler   Handler
}

// NewSystemWide selects the capture mechanism once for the current platform.
func NewSystemWide(options Options) *SystemWide {
	if options.Clock == nil {
		options.Clock = time.Now
	}

	var selected hook
	switch options.Mode {
	case ModeSimulated:
		selected = newSimulatedHook(options)
	default:
		selected = newNativeHook(options)
	}
	return newSystemWide(selected, options.Logger)
}

func newSystemWide(selected hook, logger zerolog.Logger) *SystemWide {
	return &SystemWide{
		hook: selected,
		logger: logger.With().
			Str("component", "click-source").
			Str("mechanism", selected.Name()).
			Logger(),
	}
}

// Start installs the global listener. It returns false when the mechanism cannot
// be installed; the cause is available from LastError.
func (source *SystemWide) Start() bool {
	source.mu.Lock()
	defer source.mu.Unlock()
	if source.running {
		return true
	}

	source.installs++
	install := source.installs
	lost := func(err error) { source.lost(install, err) }
	if err := source.hook.Install(source.dispatch, lost); err != nil {
		source.lastErr = err
		source.logger.Warn().Err(err).Str("os", runtime.GOOS).Msg("System-wide click capture unavailable")
		return false
	}
	source.lastErr = nil
	source.running = true
	source.logger.Info().Msg("System-wide click capture started")
	return true
}

// Stop removes the global listener. It is idempotent.
func (source *SystemWide) Stop() bool {
	source.mu.Lock()
	defer source.mu.Unlock()
	if !source.running {
		return true
	}

	if err := source.hook.Uninstall(); err != nil {
		source.lastErr = err
		source.logger.Error().Err(err).Msg("Failed to stop system-wide click capture")
		return false
	}
	source.running = false
	source.logger.Info().Msg("System-wide click capture stopped")
	return true
}

// lost marks the source stopped after the mechanism died underneath it. Reports
// from an earlier installation are ignored.
func (source *SystemWide) lost(install uint64, err error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	if !source.running || install != source.installs {
		return
	}

	if uninstallErr := source.hook.Uninstall(); uninstallErr != nil {
		source.logger.Warn().Err(uninstallErr).Msg("Failed to clean up after lost click capture")
	}
	source.running = false
	source.lastErr = err
	source.logger.Warn().Err(err).Msg("System-wide click capture stopped unexpectedly")
}

// IsRunning reports whether the listener is installed.
func (source *SystemWide) IsRunning() bool {
	source.mu.Lock()
	defer source.mu.Unlock()
	return source.running
}

// LastError returns the most recent activation or teardown failure.
func (source *SystemWide) LastError() error {
	source.mu.Lock()
	defer source.mu.Unlock()
	return source.lastErr
}

// Mechanism names the selected capture mechanism.
func (source *SystemWide) Mechanism() string {
	return source.hook.Name()
}

// OnClick registers the handler.
func (source *SystemWide) OnClick(handler Handler) {
	source.handlerMu.Lock()
	source.handler = handler
	source.handlerMu.Unlock()
}

func (source *SystemWide) dispatch(event ClickEvent) {
	source.handlerMu.RLock()
	handler := source.handler
	source.handlerMu.RUnlock()
	if handler != nil {
		handler(event)
	}
}
