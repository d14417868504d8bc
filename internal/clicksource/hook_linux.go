package clicksource

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// xinputHook streams X11 button presses from an `xinput test-xi2 --root` subprocess.
type xinputHook struct {
	clock func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func newNativeHook(options Options) hook {
	return &xinputHook{clock: options.Clock}
}

func (hook *xinputHook) Name() string {
	return "xinput"
}

func (hook *xinputHook) Install(emit func(ClickEvent), lost func(error)) error {
	hook.mu.Lock()
	defer hook.mu.Unlock()
	if hook.cancel != nil {
		return errors.New("xinput hook already installed")
	}

	if os.Getenv("DISPLAY") == "" {
		if strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland") {
			return fmt.Errorf("%w: wayland session without XWayland display", ErrUnsupported)
		}
		return fmt.Errorf("%w: DISPLAY is not set", ErrUnsupported)
	}
	xinputPath, err := exec.LookPath("xinput")
	if err != nil {
		return fmt.Errorf("%w: xinput: %v", ErrMissingDependency, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	command := exec.CommandContext(ctx, xinputPath, "test-xi2", "--root")
	stdout, err := command.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("xinput stdout: %w", err)
	}
	if err := command.Start(); err != nil {
		cancel()
		return fmt.Errorf("start xinput: %w", err)
	}

	done := make(chan struct{})
	go func() {
		parser := newXInputParser(hook.clock)
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			if event, ok := parser.Feed(scanner.Text()); ok {
				emit(event)
			}
		}
		waitErr := command.Wait()
		close(done)

		// Uninstall cancels ctx first, so only an exit nobody asked for is reported.
		if ctx.Err() == nil && lost != nil {
			if waitErr == nil {
				waitErr = errors.New("exited")
			}
			lost(fmt.Errorf("%w: xinput: %v", ErrCaptureLost, waitErr))
		}
	}()

	hook.cancel = cancel
	hook.done = done
	return nil
}

func (hook *xinputHook) Uninstall() error {
	hook.mu.Lock()
	cancel := hook.cancel
	done := hook.done
	hook.cancel = nil
	hook.done = nil
	hook.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}
