// Package app wires the settings store, the break-cycle controller and the click
// sources into the object the user interfaces drive.
package app

import (
	"fmt"
	"sync"

	"clickbreak/internal/clicksource"
	"clickbreak/internal/core/breakcycle"
	"clickbreak/internal/core/model"
	"clickbreak/internal/metrics"
	"github.com/rs/zerolog"
)

const (
	originWindowed   = "windowed"
	originSystemWide = "system_wide"
)

// SettingsStore persists user settings.
type SettingsStore interface {
	Load() (model.Settings, error)
	Save(settings model.Settings) error
}

// SystemWideSource is a click source that can fail to activate.
type SystemWideSource interface {
	clicksource.Source
	LastError() error
	Mechanism() string
}

// Options configures a Context.
type Options struct {
	Store SettingsStore
	// SystemWide is optional. Without it only in-window clicks are counted.
	SystemWide SystemWideSource
	// EnableSystemWide starts system-wide capture on Start.
	EnableSystemWide bool
	Breaks           breakcycle.Config
	Logger           zerolog.Logger
}

// Context is the application state shared by the desktop and terminal front ends.
type Context struct {
	logger     zerolog.Logger
	store      SettingsStore
	controller *breakcycle.Controller
	windowed   *clicksource.Windowed
	systemWide SystemWideSource
	autoEnable bool

	settingsMu sync.RWMutex
	settings   model.Settings

	// reconcileMu serialises starting and stopping the system-wide source.
	reconcileMu  sync.Mutex
	trackMu      sync.Mutex
	wantTracking bool

	signal       chan struct{}
	stop         chan struct{}
	workerDone   chan struct{}
	started      bool
	startOnce    sync.Once
	shutdownOnce sync.Once
}

// New loads settings and builds the controller. A settings read failure falls back
// to defaults and is logged.
func New(options Options) *Context {
	logger := options.Logger.With().Str("component", "app").Logger()

	settings := model.DefaultSettings()
	if options.Store != nil {
		loaded, err := options.Store.Load()
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to load settings, using defaults")
		}
		settings = loaded.Normalized()
		if settings.Validate() != nil {
			settings = model.DefaultSettings()
		}
	}

	ctx := &Context{
		logger:     logger,
		store:      options.Store,
		controller: breakcycle.New(settings.ClickGoal, options.Breaks),
		windowed:   clicksource.NewWindowed(),
		systemWide: options.SystemWide,
		autoEnable: options.EnableSystemWide,
		settings:   settings,
		signal:     make(chan struct{}, 1),
		stop:       make(chan struct{}),
		workerDone: make(chan struct{}),
	}

	ctx.windowed.OnClick(ctx.clickHandler(originWindowed))
	if ctx.systemWide != nil {
		ctx.systemWide.OnClick(ctx.clickHandler(originSystemWide))
	}
	ctx.controller.SetTransitionHandler(ctx.onTransition)
	return ctx
}

// Start starts the break countdown machinery and, when requested, system-wide capture.
// A capture failure leaves the application in window-only mode.
func (ctx *Context) Start() {
	ctx.startOnce.Do(func() {
		ctx.started = true
		ctx.controller.Start()
		go ctx.runReconciler()

		if ctx.autoEnable && ctx.systemWide != nil {
			if err := ctx.EnableSystemWide(); err != nil {
				ctx.logger.Warn().Err(err).Msg("Continuing with window-only click tracking")
			}
		}
	})
}

// Shutdown stops click capture and the controller. Start has no effect afterwards.
func (ctx *Context) Shutdown() {
	ctx.shutdownOnce.Do(func() {
		ctx.startOnce.Do(func() {})
		close(ctx.stop)
		if ctx.started {
			<-ctx.workerDone
		}

		if ctx.systemWide != nil {
			ctx.reconcileMu.Lock()
			ctx.systemWide.Stop()
			ctx.reconcileMu.Unlock()
			metrics.SystemWideActive.Set(0)
		}
		ctx.controller.Stop()
		ctx.logger.Info().Msg("Shut down")
	})
}

// Windowed returns the in-window click source the UI feeds pointer events into.
func (ctx *Context) Windowed() *clicksource.Windowed {
	return ctx.windowed
}

// HandleClick counts an in-window click. It returns false when the click was
// ignored, either because a break is running or because system-wide capture
// already counts it.
func (ctx *Context) HandleClick(event clicksource.ClickEvent) bool {
	return ctx.recordClick(originWindowed, event)
}

// EndBreakNow ends the current break.
func (ctx *Context) EndBreakNow() {
	ctx.controller.EndBreakNow()
}

// Snapshot returns the current session state.
func (ctx *Context) Snapshot() breakcycle.Snapshot {
	return ctx.controller.Snapshot()
}

// Subscribe registers an observer of controller events.
func (ctx *Context) Subscribe(buffer int) <-chan breakcycle.Event {
	return ctx.controller.Subscribe(buffer)
}

// Settings returns the current user settings.
func (ctx *Context) Settings() model.Settings {
	ctx.settingsMu.RLock()
	defer ctx.settingsMu.RUnlock()
	return ctx.settings
}

// SaveSettings validates, persists and applies new settings. On error the previous
// settings stay in effect.
func (ctx *Context) SaveSettings(settings model.Settings) error {
	settings = settings.Normalized()
	if err := settings.Validate(); err != nil {
		return err
	}
	if ctx.store != nil {
		if err := ctx.store.Save(settings); err != nil {
			ctx.logger.Error().Err(err).Msg("Failed to save settings")
			return fmt.Errorf("save settings: %w", err)
		}
	}

	ctx.settingsMu.Lock()
	ctx.settings = settings
	ctx.settingsMu.Unlock()

	ctx.controller.UpdateGoal(settings.ClickGoal)
	ctx.logger.Info().
		Str("display_name", settings.DisplayName).
		Int("click_goal", settings.ClickGoal).
		Msg("Settings saved")
	return nil
}

// SystemWideAvailable reports whether a system-wide source was configured.
func (ctx *Context) SystemWideAvailable() bool {
	return ctx.systemWide != nil
}

// SystemWideActive reports whether system-wide capture is currently running.
func (ctx *Context) SystemWideActive() bool {
	return ctx.systemWide != nil && ctx.systemWide.IsRunning()
}

// SystemWideEnabled reports whether the user asked for system-wide capture. It can
// be enabled while inactive during a break.
func (ctx *Context) SystemWideEnabled() bool {
	ctx.trackMu.Lock()
	defer ctx.trackMu.Unlock()
	return ctx.wantTracking
}

// EnableSystemWide turns on system-wide capture. During a break the source starts
// when the break ends.
func (ctx *Context) EnableSystemWide() error {
	if ctx.systemWide == nil {
		return fmt.Errorf("enable system-wide tracking: %w", clicksource.ErrUnsupported)
	}

	ctx.setWantTracking(true)
	if err := ctx.reconcile(); err != nil {
		ctx.setWantTracking(false)
		return fmt.Errorf("enable system-wide tracking: %w", err)
	}
	return nil
}

// DisableSystemWide turns off system-wide capture.
func (ctx *Context) DisableSystemWide() {
	if ctx.systemWide == nil {
		return
	}
	ctx.setWantTracking(false)
	_ = ctx.reconcile()
}

func (ctx *Context) setWantTracking(want bool) {
	ctx.trackMu.Lock()
	ctx.wantTracking = want
	ctx.trackMu.Unlock()
}

func (ctx *Context) clickHandler(origin string) clicksource.Handler {
	return func(event clicksource.ClickEvent) {
		ctx.recordClick(origin, event)
	}
}

func (ctx *Context) recordClick(origin string, event clicksource.ClickEvent) bool {
	// The system-wide hook also sees presses inside our own window.
	if origin == originWindowed && ctx.SystemWideActive() {
		metrics.ClicksTotal.WithLabelValues(origin, "duplicate").Inc()
		return false
	}

	counted := ctx.controller.RecordClick()
	if counted {
		metrics.ClicksTotal.WithLabelValues(origin, "counted").Inc()
	} else {
		metrics.ClicksTotal.WithLabelValues(origin, "ignored").Inc()
	}
	ctx.logger.Debug().
		Str("origin", origin).
		Str("button", event.Button.String()).
		Bool("counted", counted).
		Msg("Click")
	return counted
}

// onTransition runs on whichever goroutine caused the transition, possibly a hook
// thread, so it only records and signals.
func (ctx *Context) onTransition(event breakcycle.Event) {
	switch event.State {
	case breakcycle.StateBreak:
		metrics.BreaksStarted.Inc()
		ctx.logger.Info().Str("break_id", event.BreakID).Int("seconds", event.Snapshot.BreakRemainingSeconds).Msg("Break started")
	case breakcycle.StateActive:
		metrics.BreaksEnded.WithLabelValues(string(event.Reason)).Inc()
		ctx.logger.Info().Str("break_id", event.BreakID).Str("reason", string(event.Reason)).Msg("Break ended")
	}

	select {
	case ctx.signal <- struct{}{}:
	default:
	}
}

func (ctx *Context) runReconciler() {
	defer close(ctx.workerDone)
	for {
		select {
		case <-ctx.stop:
			return
		case <-ctx.signal:
			if err := ctx.reconcile(); err != nil {
				ctx.logger.Warn().Err(err).Msg("System-wide tracking could not resume, continuing window-only")
				ctx.setWantTracking(false)
			}
		}
	}
}

// reconcile starts or stops the system-wide source so that it runs only while
// enabled and outside a break.
func (ctx *Context) reconcile() error {
	if ctx.systemWide == nil {
		return nil
	}
	ctx.reconcileMu.Lock()
	defer ctx.reconcileMu.Unlock()

	select {
	case <-ctx.stop:
		return nil
	default:
	}

	want := ctx.SystemWideEnabled() && !ctx.controller.Snapshot().BreakActive
	running := ctx.systemWide.IsRunning()

	switch {
	case want && !running:
		if !ctx.systemWide.Start() {
			metrics.SystemWideFailures.WithLabelValues(ctx.systemWide.Mechanism()).Inc()
			metrics.SystemWideActive.Set(0)
			err := ctx.systemWide.LastError()
			if err == nil {
				err = clicksource.ErrUnsupported
			}
			return err
		}
		metrics.SystemWideActive.Set(1)
	case !want && running:
		ctx.systemWide.Stop()
		metrics.SystemWideActive.Set(0)
	}
	return nil
}
