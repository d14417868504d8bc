package clicksource

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeHook struct {
	mu           sync.Mutex
	installErr   error
	uninstallErr error
	installs     int
	uninstalls   int
	emit         func(ClickEvent)
	lost         func(error)
}

func (hook *fakeHook) Name() string { return "fake" }

func (hook *fakeHook) Install(emit func(ClickEvent), lost func(error)) error {
	hook.mu.Lock()
	defer hook.mu.Unlock()
	if hook.installErr != nil {
		return hook.installErr
	}
	hook.installs++
	hook.emit = emit
	hook.lost = lost
	return nil
}

func (hook *fakeHook) Uninstall() error {
	hook.mu.Lock()
	defer hook.mu.Unlock()
	if hook.uninstallErr != nil {
		return hook.uninstallErr
	}
	hook.uninstalls++
	hook.emit = nil
	return nil
}

func (hook *fakeHook) click(event ClickEvent) {
	hook.mu.Lock()
	emit := hook.emit
	hook.mu.Unlock()
	if emit != nil {
		emit(event)
	}
}

// die reports the mechanism as lost, the way a helper process exiting would.
func (hook *fakeHook) die(err error) {
	hook.mu.Lock()
	lost := hook.lost
	hook.mu.Unlock()
	if lost != nil {
		lost(err)
	}
}

func TestButtonString(t *testing.T) {
	tests := []struct {
		button Button
		want   string
	}{
		{ButtonLeft, "left"},
		{ButtonRight, "right"},
		{ButtonMiddle, "middle"},
	}
	for _, tt := range tests {
		if got := tt.button.String(); got != tt.want {
			t.Errorf("Button(%d).String() = %q, want %q", tt.button, got, tt.want)
		}
	}
}

func TestWindowedEmitsSynchronously(t *testing.T) {
	source := NewWindowed()
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	source.clock = func() time.Time { return fixed }

	if !source.Start() || !source.IsRunning() {
		t.Fatal("windowed source should always be running")
	}

	var got []ClickEvent
	source.OnClick(func(event ClickEvent) {
		got = append(got, event)
	})
	source.Emit(10, 20, ButtonRight)

	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	want := ClickEvent{Timestamp: fixed, X: 10, Y: 20, Button: ButtonRight}
	if got[0] != want {
		t.Errorf("event = %+v, want %+v", got[0], want)
	}

	if !source.Stop() || !source.IsRunning() {
		t.Error("Stop should not deactivate the windowed source")
	}
}

func TestWindowedWithoutHandler(t *testing.T) {
	source := NewWindowed()
	source.Emit(1, 1, ButtonLeft)
}

func TestSystemWideStartFailure(t *testing.T) {
	hook := &fakeHook{installErr: ErrPermission}
	source := newSystemWide(hook, zerolog.Nop())

	if source.Start() {
		t.Fatal("Start should fail when the hook cannot be installed")
	}
	if source.IsRunning() {
		t.Error("source should stay inactive")
	}
	if !errors.Is(source.LastError(), ErrPermission) {
		t.Errorf("LastError = %v, want ErrPermission", source.LastError())
	}
	if !source.Stop() {
		t.Error("Stop on an inactive source should succeed")
	}
}

func TestSystemWideLifecycle(t *testing.T) {
	hook := &fakeHook{}
	source := newSystemWide(hook, zerolog.Nop())

	if !source.Start() || !source.Start() {
		t.Fatal("Start should succeed and be idempotent")
	}
	if hook.installs != 1 {
		t.Errorf("installs = %d, want 1", hook.installs)
	}
	if source.LastError() != nil {
		t.Errorf("LastError = %v, want nil", source.LastError())
	}
	if source.Mechanism() != "fake" {
		t.Errorf("Mechanism = %q", source.Mechanism())
	}

	if !source.Stop() || !source.Stop() {
		t.Fatal("Stop should succeed and be idempotent")
	}
	if hook.uninstalls != 1 {
		t.Errorf("uninstalls = %d, want 1", hook.uninstalls)
	}
	if source.IsRunning() {
		t.Error("source should be stopped")
	}
}

func TestSystemWideRetryAfterFailure(t *testing.T) {
	hook := &fakeHook{installErr: ErrMissingDependency}
	source := newSystemWide(hook, zerolog.Nop())
	if source.Start() {
		t.Fatal("first Start should fail")
	}

	hook.installErr = nil
	if !source.Start() {
		t.Fatal("second Start should succeed")
	}
	if source.LastError() != nil {
		t.Errorf("LastError should clear after a successful start, got %v", source.LastError())
	}
}

func TestSystemWideDispatch(t *testing.T) {
	hook := &fakeHook{}
	source := newSystemWide(hook, zerolog.Nop())
	source.Start()
	defer source.Stop()

	first, second := 0, 0
	source.OnClick(func(ClickEvent) { first++ })
	hook.click(ClickEvent{Button: ButtonLeft})

	source.OnClick(func(ClickEvent) { second++ })
	hook.click(ClickEvent{Button: ButtonMiddle})

	if first != 1 || second != 1 {
		t.Errorf("handler calls = (%d, %d), want (1, 1)", first, second)
	}
}

func TestSystemWideStopFailure(t *testing.T) {
	hook := &fakeHook{uninstallErr: errors.New("stuck")}
	source := newSystemWide(hook, zerolog.Nop())
	source.Start()

	if source.Stop() {
		t.Fatal("Stop should report the teardown failure")
	}
	if !source.IsRunning() {
		t.Error("source should still be considered running")
	}
	if source.LastError() == nil {
		t.Error("LastError should record the teardown failure")
	}
}

func TestSystemWideLostCaptureStops(t *testing.T) {
	hook := &fakeHook{}
	source := newSystemWide(hook, zerolog.Nop())
	if !source.Start() {
		t.Fatal("Start failed")
	}

	cause := fmt.Errorf("%w: xinput: exit status 1", ErrCaptureLost)
	hook.die(cause)

	if source.IsRunning() {
		t.Fatal("source should report stopped after losing its mechanism")
	}
	if !errors.Is(source.LastError(), ErrCaptureLost) {
		t.Errorf("LastError = %v, want ErrCaptureLost", source.LastError())
	}
	if hook.uninstalls != 1 {
		t.Errorf("uninstalls = %d, want 1", hook.uninstalls)
	}

	if !source.Start() {
		t.Fatal("restart after a lost mechanism failed")
	}
	if hook.installs != 2 || !source.IsRunning() {
		t.Errorf("installs = %d running = %v, want 2 and true", hook.installs, source.IsRunning())
	}
}

func TestSystemWideIgnoresLossFromEarlierInstall(t *testing.T) {
	hook := &fakeHook{}
	source := newSystemWide(hook, zerolog.Nop())
	source.Start()

	hook.mu.Lock()
	staleLost := hook.lost
	hook.mu.Unlock()

	source.Stop()
	source.Start()
	staleLost(ErrCaptureLost)

	if !source.IsRunning() {
		t.Error("a late report from a replaced installation must not stop the source")
	}
	if source.LastError() != nil {
		t.Errorf("LastError = %v, want nil", source.LastError())
	}
}
