package platform

import (
	"syscall"
	"unsafe"
)

const (
	smCXScreen = 0
	smCYScreen = 1
)

type rect struct {
	left, top, right, bottom int32
}

type foregroundFullscreen struct {
	getForegroundWindow *syscall.LazyProc
	getDesktopWindow    *syscall.LazyProc
	getShellWindow      *syscall.LazyProc
	getWindowRect       *syscall.LazyProc
	getSystemMetrics    *syscall.LazyProc
}

func newFullscreenDetector() FullscreenDetector {
	user32 := syscall.NewLazyDLL("user32.dll")
	return &foregroundFullscreen{
		getForegroundWindow: user32.NewProc("GetForegroundWindow"),
		getDesktopWindow:    user32.NewProc("GetDesktopWindow"),
		getShellWindow:      user32.NewProc("GetShellWindow"),
		getWindowRect:       user32.NewProc("GetWindowRect"),
		getSystemMetrics:    user32.NewProc("GetSystemMetrics"),
	}
}

func (detector *foregroundFullscreen) FullscreenActive() bool {
	window, _, _ := detector.getForegroundWindow.Call()
	if window == 0 {
		return false
	}
	desktop, _, _ := detector.getDesktopWindow.Call()
	shell, _, _ := detector.getShellWindow.Call()
	if window == desktop || window == shell {
		return false
	}

	var bounds rect
	ok, _, _ := detector.getWindowRect.Call(window, uintptr(unsafe.Pointer(&bounds)))
	if ok == 0 {
		return false
	}
	width, _, _ := detector.getSystemMetrics.Call(smCXScreen)
	height, _, _ := detector.getSystemMetrics.Call(smCYScreen)
	return coversScreen(bounds, int32(width), int32(height))
}

func coversScreen(bounds rect, width, height int32) bool {
	return bounds.left <= 0 && bounds.top <= 0 && bounds.right >= width && bounds.bottom >= height
}
