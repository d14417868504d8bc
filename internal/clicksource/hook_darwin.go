//go:build darwin && cgo

package clicksource

/*
#cgo LDFLAGS: -framework CoreGraphics -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdint.h>

extern CGEventRef goHandleClick(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *userInfo);

static Boolean clickTapTrusted(void) {
	const void *keys[] = { kAXTrustedCheckOptionPrompt };
	const void *values[] = { kCFBooleanTrue };
	CFDictionaryRef options = CFDictionaryCreate(kCFAllocatorDefault, keys, values, 1,
	                                             &kCFTypeDictionaryKeyCallBacks,
	                                             &kCFTypeDictionaryValueCallBacks);
	Boolean trusted = AXIsProcessTrustedWithOptions(options);
	CFRelease(options);
	return trusted;
}

static CFMachPortRef createClickTap(uintptr_t handle) {
	CGEventMask mask = CGEventMaskBit(kCGEventLeftMouseDown) |
	                   CGEventMaskBit(kCGEventRightMouseDown) |
	                   CGEventMaskBit(kCGEventOtherMouseDown);
	return CGEventTapCreate(kCGSessionEventTap,
	                        kCGHeadInsertEventTap,
	                        kCGEventTapOptionListenOnly,
	                        mask,
	                        goHandleClick,
	                        (void *)handle);
}

static CFRunLoopSourceRef attachClickTap(CFMachPortRef tap) {
	CFRunLoopSourceRef source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
	CFRunLoopAddSource(CFRunLoopGetCurrent(), source, kCFRunLoopCommonModes);
	CGEventTapEnable(tap, true);
	return source;
}

static void detachClickTap(CFMachPortRef tap, CFRunLoopSourceRef source) {
	CGEventTapEnable(tap, false);
	CFRunLoopRemoveSource(CFRunLoopGetCurrent(), source, kCFRunLoopCommonModes);
	CFRelease(source);
	CFMachPortInvalidate(tap);
	CFRelease(tap);
}

static CFRunLoopRef currentClickRunLoop(void) {
	return CFRunLoopGetCurrent();
}

static void runClickRunLoopFor(double seconds) {
	CFRunLoopRunInMode(kCFRunLoopDefaultMode, seconds, false);
}

static void wakeClickRunLoop(CFRunLoopRef loop) {
	CFRunLoopStop(loop);
}

static void enableClickTap(CFMachPortRef tap) {
	CGEventTapEnable(tap, true);
}

static double clickX(CGEventRef event) {
	return CGEventGetLocation(event).x;
}

static double clickY(CGEventRef event) {
	return CGEventGetLocation(event).y;
}
*/
import "C"

import (
	"errors"
	"runtime"
	"runtime/cgo"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"
)

// runLoopSlice bounds how long the run loop blocks before checking for a stop request.
const runLoopSlice = 0.25

// quartzHook listens to mouse-down events through a listen-only Quartz event tap
// running on a dedicated OS thread.
type quartzHook struct {
	clock func() time.Time

	mu       sync.Mutex
	stopping *atomic.Bool
	loop     C.CFRunLoopRef
	done     chan struct{}
	handle   cgo.Handle
}

type quartzStream struct {
	emit  func(ClickEvent)
	clock func() time.Time
	tap   C.CFMachPortRef
}

func newNativeHook(options Options) hook {
	return &quartzHook{clock: options.Clock}
}

func (hook *quartzHook) Name() string {
	return "CGEventTap"
}

func (hook *quartzHook) Install(emit func(ClickEvent), _ func(error)) error {
	hook.mu.Lock()
	defer hook.mu.Unlock()
	if hook.done != nil {
		return errors.New("event tap already installed")
	}
	if C.clickTapTrusted() == C.Boolean(0) {
		return ErrPermission
	}

	stream := &quartzStream{emit: emit, clock: hook.clock}
	handle := cgo.NewHandle(stream)
	stopping := &atomic.Bool{}
	ready := make(chan C.CFRunLoopRef, 1)
	failed := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(done)

		tap := C.createClickTap(C.uintptr_t(handle))
		if tap == 0 {
			failed <- ErrPermission
			return
		}
		stream.tap = tap
		source := C.attachClickTap(tap)
		ready <- C.currentClickRunLoop()

		for !stopping.Load() {
			C.runClickRunLoopFor(C.double(runLoopSlice))
		}
		C.detachClickTap(tap, source)
	}()

	select {
	case err := <-failed:
		<-done
		handle.Delete()
		return err
	case loop := <-ready:
		hook.loop = loop
	}

	hook.stopping = stopping
	hook.done = done
	hook.handle = handle
	return nil
}

func (hook *quartzHook) Uninstall() error {
	hook.mu.Lock()
	defer hook.mu.Unlock()
	if hook.done == nil {
		return nil
	}

	hook.stopping.Store(true)
	C.wakeClickRunLoop(hook.loop)
	<-hook.done
	hook.handle.Delete()

	hook.done = nil
	hook.stopping = nil
	return nil
}

//export goHandleClick
func goHandleClick(_ C.CGEventTapProxy, eventType C.CGEventType, event C.CGEventRef, userInfo unsafe.Pointer) C.CGEventRef {
	stream, ok := cgo.Handle(uintptr(userInfo)).Value().(*quartzStream)
	if !ok {
		return event
	}

	var button Button
	switch eventType {
	case C.kCGEventTapDisabledByTimeout, C.kCGEventTapDisabledByUserInput:
		C.enableClickTap(stream.tap)
		return event
	case C.kCGEventLeftMouseDown:
		button = ButtonLeft
	case C.kCGEventRightMouseDown:
		button = ButtonRight
	case C.kCGEventOtherMouseDown:
		button = ButtonMiddle
	default:
		return event
	}

	stream.emit(ClickEvent{
		Timestamp: stream.clock(),
		X:         float64(C.clickX(event)),
		Y:         float64(C.clickY(event)),
		Button:    button,
	})
	return event
}
