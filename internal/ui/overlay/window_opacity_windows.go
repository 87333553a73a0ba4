//go:build windows

package overlay

import (
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
)

const (
	gwlExStyle  int32 = -20
	wsExLayered       = 0x00080000
	lwaAlpha          = 0x2
)

var (
	user32DLL                      = syscall.NewLazyDLL("user32.dll")
	procGetWindowLongPtrW          = user32DLL.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW          = user32DLL.NewProc("SetWindowLongPtrW")
	procSetLayeredWindowAttributes = user32DLL.NewProc("SetLayeredWindowAttributes")
)

// applyNativeOpacity makes the whole break window translucent. A fully
// opaque alpha drops the layered style again.
func (overlay *Window) applyNativeOpacity(alpha uint8) {
	withHWND(overlay.window, func(hwnd uintptr) {
		style, _, _ := procGetWindowLongPtrW.Call(hwnd, exStyleIndex())
		if alpha == 0xff {
			if style&wsExLayered != 0 {
				procSetWindowLongPtrW.Call(hwnd, exStyleIndex(), style&^wsExLayered)
			}
			return
		}
		if style&wsExLayered == 0 {
			procSetWindowLongPtrW.Call(hwnd, exStyleIndex(), style|wsExLayered)
		}
		procSetLayeredWindowAttributes.Call(hwnd, 0, uintptr(alpha), uintptr(lwaAlpha))
	})
}

// withHWND runs fn with the native handle of window, if it has one.
func withHWND(window fyne.Window, fn func(hwnd uintptr)) {
	nativeWindow, ok := window.(driver.NativeWindow)
	if !ok {
		return
	}
	nativeWindow.RunNative(func(context any) {
		var hwnd uintptr
		switch value := context.(type) {
		case driver.WindowsWindowContext:
			hwnd = value.HWND
		case *driver.WindowsWindowContext:
			hwnd = value.HWND
		}
		if hwnd != 0 {
			fn(hwnd)
		}
	})
}

func exStyleIndex() uintptr {
	return uintptr(uint32(gwlExStyle))
}
