package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"clickbreak/internal/clicksource"
	"clickbreak/internal/core/breakcycle"
	"clickbreak/internal/core/model"
	"github.com/rs/zerolog"
)

type fakeStore struct {
	mu      sync.Mutex
	loaded  model.Settings
	loadErr error
	saveErr error
	saved   []model.Settings
}

func (store *fakeStore) Load() (model.Settings, error) {
	if store.loadErr != nil {
		return model.DefaultSettings(), store.loadErr
	}
	return store.loaded, nil
}

func (store *fakeStore) Save(settings model.Settings) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.saveErr != nil {
		return store.saveErr
	}
	store.saved = append(store.saved, settings)
	return nil
}

type fakeSource struct {
	mu       sync.Mutex
	running  bool
	startErr error
	lastErr  error
	handler  clicksource.Handler
	starts   int
	stops    int
}

func (source *fakeSource) Start() bool {
	source.mu.Lock()
	defer source.mu.Unlock()
	if source.startErr != nil {
		source.lastErr = source.startErr
		return false
	}
	if !source.running {
		source.starts++
	}
	source.running = true
	return true
}

func (source *fakeSource) Stop() bool {
	source.mu.Lock()
	defer source.mu.Unlock()
	if source.running {
		source.stops++
	}
	source.running = false
	return true
}

func (source *fakeSource) IsRunning() bool {
	source.mu.Lock()
	defer source.mu.Unlock()
	return source.running
}

func (source *fakeSource) OnClick(handler clicksource.Handler) {
	source.mu.Lock()
	source.handler = handler
	source.mu.Unlock()
}

func (source *fakeSource) LastError() error {
	source.mu.Lock()
	defer source.mu.Unlock()
	return source.lastErr
}

func (source *fakeSource) Mechanism() string { return "fake" }

func (source *fakeSource) click() {
	source.mu.Lock()
	handler := source.handler
	running := source.running
	source.mu.Unlock()
	if running && handler != nil {
		handler(clicksource.ClickEvent{Button: clicksource.ButtonLeft})
	}
}

func newTestContext(t *testing.T, store *fakeStore, source *fakeSource) *Context {
	t.Helper()
	options := Options{
		Store:  store,
		Logger: zerolog.Nop(),
	}
	if source != nil {
		options.SystemWide = source
	}
	ctx := New(options)
	t.Cleanup(ctx.Shutdown)
	return ctx
}

func waitFor(t *testing.T, what string, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestNewLoadsSettings(t *testing.T) {
	store := &fakeStore{loaded: model.Settings{DisplayName: "Ada", ClickGoal: 5}}
	ctx := newTestContext(t, store, nil)

	if got := ctx.Settings(); got != store.loaded {
		t.Errorf("Settings = %+v, want %+v", got, store.loaded)
	}
	if ctx.Snapshot().ClickGoal != 5 {
		t.Errorf("controller goal = %d, want 5", ctx.Snapshot().ClickGoal)
	}
}

func TestNewFallsBackToDefaultsOnLoadError(t *testing.T) {
	ctx := newTestContext(t, &fakeStore{loadErr: errors.New("disk gone")}, nil)

	if got := ctx.Settings(); got != model.DefaultSettings() {
		t.Errorf("Settings = %+v, want defaults", got)
	}
}

func TestClicksReachGoalAndBreak(t *testing.T) {
	ctx := newTestContext(t, &fakeStore{loaded: model.Settings{DisplayName: "Ada", ClickGoal: 3}}, nil)
	ctx.Start()

	for i := 0; i < 3; i++ {
		if !ctx.HandleClick(clicksource.ClickEvent{}) {
			t.Fatalf("click %d should count", i+1)
		}
	}
	snapshot := ctx.Snapshot()
	if !snapshot.BreakActive || snapshot.BreakRemainingSeconds != breakcycle.DefaultBreakSeconds {
		t.Fatalf("snapshot = %+v, want an active break", snapshot)
	}
	if ctx.HandleClick(clicksource.ClickEvent{}) {
		t.Error("click during a break should be ignored")
	}

	ctx.EndBreakNow()
	if snapshot := ctx.Snapshot(); snapshot.BreakActive || snapshot.ClickCount != 0 {
		t.Errorf("snapshot after EndBreakNow = %+v", snapshot)
	}
}

func TestWindowedSourceFeedsController(t *testing.T) {
	ctx := newTestContext(t, &fakeStore{loaded: model.Settings{DisplayName: "Ada", ClickGoal: 10}}, nil)

	ctx.Windowed().Emit(1, 2, clicksource.ButtonRight)
	ctx.Windowed().Emit(3, 4, clicksource.ButtonLeft)

	if got := ctx.Snapshot().ClickCount; got != 2 {
		t.Errorf("ClickCount = %d, want 2", got)
	}
}

func TestSaveSettingsRejectsInvalidGoal(t *testing.T) {
	store := &fakeStore{loaded: model.Settings{DisplayName: "Ada", ClickGoal: 5}}
	ctx := newTestContext(t, store, nil)

	err := ctx.SaveSettings(model.Settings{DisplayName: "Bob", ClickGoal: -1})
	if !errors.Is(err, model.ErrInvalidClickGoal) {
		t.Fatalf("SaveSettings error = %v, want ErrInvalidClickGoal", err)
	}
	if got := ctx.Settings(); got != store.loaded {
		t.Errorf("settings changed to %+v", got)
	}
	if len(store.saved) != 0 {
		t.Error("invalid settings should not be persisted")
	}
}

func TestSaveSettingsKeepsPriorOnStoreError(t *testing.T) {
	store := &fakeStore{loaded: model.Settings{DisplayName: "Ada", ClickGoal: 5}, saveErr: errors.New("read-only")}
	ctx := newTestContext(t, store, nil)

	if err := ctx.SaveSettings(model.Settings{DisplayName: "Bob", ClickGoal: 9}); err == nil {
		t.Fatal("expected a save error")
	}
	if got := ctx.Settings(); got != store.loaded {
		t.Errorf("settings changed to %+v", got)
	}
	if ctx.Snapshot().ClickGoal != 5 {
		t.Error("goal should not change when the save fails")
	}
}

func TestSaveSettingsUpdatesGoalWithoutTransition(t *testing.T) {
	store := &fakeStore{loaded: model.Settings{DisplayName: "Ada", ClickGoal: 5}}
	ctx := newTestContext(t, store, nil)

	ctx.HandleClick(clicksource.ClickEvent{})
	ctx.HandleClick(clicksource.ClickEvent{})
	if err := ctx.SaveSettings(model.Settings{DisplayName: "  Bob ", ClickGoal: 1}); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	if got := ctx.Settings(); got.DisplayName != "Bob" || got.ClickGoal != 1 {
		t.Errorf("Settings = %+v", got)
	}
	if len(store.saved) != 1 || store.saved[0].DisplayName != "Bob" {
		t.Errorf("saved = %+v", store.saved)
	}
	if ctx.Snapshot().BreakActive {
		t.Fatal("lowering the goal must not start a break by itself")
	}

	ctx.HandleClick(clicksource.ClickEvent{})
	snapshot := ctx.Snapshot()
	if !snapshot.BreakActive || snapshot.ClickCount != 3 {
		t.Errorf("snapshot = %+v, want break at count 3", snapshot)
	}
}

func TestEnableSystemWideWithoutSource(t *testing.T) {
	ctx := newTestContext(t, &fakeStore{}, nil)

	if ctx.SystemWideAvailable() {
		t.Error("no system-wide source was configured")
	}
	if err := ctx.EnableSystemWide(); !errors.Is(err, clicksource.ErrUnsupported) {
		t.Errorf("EnableSystemWide error = %v, want ErrUnsupported", err)
	}
}

func TestEnableSystemWideFailureDegrades(t *testing.T) {
	source := &fakeSource{startErr: clicksource.ErrPermission}
	ctx := newTestContext(t, &fakeStore{}, source)
	ctx.Start()

	err := ctx.EnableSystemWide()
	if !errors.Is(err, clicksource.ErrPermission) {
		t.Fatalf("EnableSystemWide error = %v, want ErrPermission", err)
	}
	if ctx.SystemWideActive() || ctx.SystemWideEnabled() {
		t.Error("failed activation should leave tracking off")
	}

	if !ctx.HandleClick(clicksource.ClickEvent{}) {
		t.Error("window clicks should still count")
	}
}

func TestStartEnablesSystemWideWhenConfigured(t *testing.T) {
	source := &fakeSource{}
	ctx := New(Options{
		Store:            &fakeStore{loaded: model.Settings{DisplayName: "Ada", ClickGoal: 10}},
		SystemWide:       source,
		EnableSystemWide: true,
		Logger:           zerolog.Nop(),
	})
	ctx.Start()

	if !ctx.SystemWideActive() {
		t.Fatal("system-wide source should be running")
	}
	source.click()
	if got := ctx.Snapshot().ClickCount; got != 1 {
		t.Errorf("ClickCount = %d, want 1", got)
	}

	ctx.Shutdown()
	if source.IsRunning() {
		t.Error("Shutdown should stop the system-wide source")
	}
}

func TestSystemWidePausedDuringBreak(t *testing.T) {
	source := &fakeSource{}
	ctx := newTestContext(t, &fakeStore{loaded: model.Settings{DisplayName: "Ada", ClickGoal: 2}}, source)
	ctx.Start()

	if err := ctx.EnableSystemWide(); err != nil {
		t.Fatalf("EnableSystemWide: %v", err)
	}

	source.click()
	source.click()
	if !ctx.Snapshot().BreakActive {
		t.Fatal("goal reached, expected a break")
	}
	waitFor(t, "source pause", func() bool { return !source.IsRunning() })
	if !ctx.SystemWideEnabled() {
		t.Error("pausing for a break should keep tracking enabled")
	}

	ctx.EndBreakNow()
	waitFor(t, "source resume", source.IsRunning)

	source.mu.Lock()
	starts, stops := source.starts, source.stops
	source.mu.Unlock()
	if starts != 2 || stops != 1 {
		t.Errorf("starts=%d stops=%d, want 2 and 1", starts, stops)
	}
}

func TestDisabledSourceNotResumedAfterBreak(t *testing.T) {
	source := &fakeSource{}
	ctx := newTestContext(t, &fakeStore{loaded: model.Settings{DisplayName: "Ada", ClickGoal: 1}}, source)
	ctx.Start()

	ctx.HandleClick(clicksource.ClickEvent{})
	ctx.EndBreakNow()
	time.Sleep(20 * time.Millisecond)

	if source.IsRunning() {
		t.Error("source was never enabled and must stay stopped")
	}
}

func TestEnableDuringBreakStartsAfterBreak(t *testing.T) {
	source := &fakeSource{}
	ctx := newTestContext(t, &fakeStore{loaded: model.Settings{DisplayName: "Ada", ClickGoal: 1}}, source)
	ctx.Start()

	ctx.HandleClick(clicksource.ClickEvent{})
	if err := ctx.EnableSystemWide(); err != nil {
		t.Fatalf("EnableSystemWide: %v", err)
	}
	if source.IsRunning() {
		t.Fatal("source should not run during a break")
	}

	ctx.EndBreakNow()
	waitFor(t, "source start", source.IsRunning)

	ctx.DisableSystemWide()
	if source.IsRunning() {
		t.Error("DisableSystemWide should stop the source")
	}
}

func TestWindowClickNotCountedTwiceWhileSystemWide(t *testing.T) {
	source := &fakeSource{}
	ctx := newTestContext(t, &fakeStore{loaded: model.Settings{DisplayName: "Ada", ClickGoal: 10}}, source)
	ctx.Start()

	if err := ctx.EnableSystemWide(); err != nil {
		t.Fatalf("EnableSystemWide: %v", err)
	}

	// One physical press inside the window reaches both sources.
	ctx.Windowed().Emit(5, 5, clicksource.ButtonLeft)
	source.click()

	if got := ctx.Snapshot().ClickCount; got != 1 {
		t.Fatalf("ClickCount after one press = %d, want 1", got)
	}

	ctx.DisableSystemWide()
	if !ctx.HandleClick(clicksource.ClickEvent{}) {
		t.Error("window clicks should count again once system-wide capture is off")
	}
	if got := ctx.Snapshot().ClickCount; got != 2 {
		t.Errorf("ClickCount = %d, want 2", got)
	}
}
