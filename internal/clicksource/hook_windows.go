package clicksource

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	whMouseLL     = 14
	wmQuit        = 0x0012
	wmLButtonDown = 0x0201
	wmRButtonDown = 0x0204
	wmMButtonDown = 0x0207
	pmNoRemove    = 0x0000
)

var (
	user32DLL               = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookExW   = user32DLL.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32DLL.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32DLL.NewProc("UnhookWindowsHookEx")
	procGetMessageW         = user32DLL.NewProc("GetMessageW")
	procPeekMessageW        = user32DLL.NewProc("PeekMessageW")
	procPostThreadMessageW  = user32DLL.NewProc("PostThreadMessageW")
)

type winPoint struct {
	X int32
	Y int32
}

type msllHookStruct struct {
	Pt          winPoint
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type winMsg struct {
	Hwnd     uintptr
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       winPoint
	LPrivate uint32
}

// The callback trampoline is a process-wide resource, so only one hook may be
// active at a time.
var (
	mouseProcOnce sync.Once
	mouseProc     uintptr

	activeHookMu sync.RWMutex
	activeHook   *windowsHook
)

// windowsHook installs a WH_MOUSE_LL hook on a dedicated OS thread that pumps
// its own message loop.
type windowsHook struct {
	clock    func() time.Time
	emit     func(ClickEvent)
	threadID uint32
	done     chan struct{}
}

func newNativeHook(options Options) hook {
	return &windowsHook{clock: options.Clock}
}

func (hook *windowsHook) Name() string {
	return "WH_MOUSE_LL"
}

func (hook *windowsHook) Install(emit func(ClickEvent), _ func(error)) error {
	if err := procSetWindowsHookExW.Find(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	activeHookMu.Lock()
	if activeHook != nil {
		activeHookMu.Unlock()
		return errors.New("a low-level mouse hook is already installed")
	}
	hook.emit = emit
	activeHook = hook
	activeHookMu.Unlock()

	mouseProcOnce.Do(func() {
		mouseProc = windows.NewCallback(lowLevelMouseProc)
	})

	ready := make(chan error, 1)
	hook.done = make(chan struct{})
	go hook.loop(ready)

	if err := <-ready; err != nil {
		activeHookMu.Lock()
		activeHook = nil
		activeHookMu.Unlock()
		return err
	}
	return nil
}

func (hook *windowsHook) Uninstall() error {
	if hook.done == nil {
		return nil
	}
	result, _, err := procPostThreadMessageW.Call(uintptr(hook.threadID), wmQuit, 0, 0)
	if result == 0 {
		return fmt.Errorf("post quit to hook thread: %w", err)
	}
	<-hook.done
	hook.done = nil

	activeHookMu.Lock()
	if activeHook == hook {
		activeHook = nil
	}
	activeHookMu.Unlock()
	return nil
}

func (hook *windowsHook) loop(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(hook.done)

	hook.threadID = windows.GetCurrentThreadId()

	var message winMsg
	// Forces creation of the thread message queue so the quit message can be posted.
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&message)), 0, 0, 0, pmNoRemove)

	handle, _, err := procSetWindowsHookExW.Call(whMouseLL, mouseProc, 0, 0)
	if handle == 0 {
		ready <- fmt.Errorf("%w: SetWindowsHookExW: %v", ErrPermission, err)
		return
	}
	ready <- nil

	for {
		result, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&message)), 0, 0, 0)
		if int32(result) <= 0 {
			break
		}
	}
	procUnhookWindowsHookEx.Call(handle)
}

func lowLevelMouseProc(code, wParam, lParam uintptr) uintptr {
	if int32(code) >= 0 {
		if button, ok := buttonForMessage(uint32(wParam)); ok {
			activeHookMu.RLock()
			current := activeHook
			activeHookMu.RUnlock()
			if current != nil {
				info := (*msllHookStruct)(unsafe.Pointer(lParam))
				current.emit(ClickEvent{
					Timestamp: current.clock(),
					X:         float64(info.Pt.X),
					Y:         float64(info.Pt.Y),
					Button:    button,
				})
			}
		}
	}
	result, _, _ := procCallNextHookEx.Call(0, code, wParam, lParam)
	return result
}

func buttonForMessage(message uint32) (Button, bool) {
	switch message {
	case wmLButtonDown:
		return ButtonLeft, true
	case wmRButtonDown:
		return ButtonRight, true
	case wmMButtonDown:
		return ButtonMiddle, true
	default:
		return ButtonLeft, false
	}
}
