package platform

import (
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"

	"screenbreak/internal/logging"
)

const fullscreenState = "_NET_WM_STATE_FULLSCREEN"

type ewmhFullscreen struct {
	X *xgbutil.XUtil
}

func newFullscreenDetector() FullscreenDetector {
	X, err := xgbutil.NewConn()
	if err != nil {
		logging.Debugf("fullscreen detection disabled: connect to X server: %v", err)
		return noFullscreen{}
	}
	if _, err := ewmh.ActiveWindowGet(X); err != nil {
		logging.Warnf("window manager does not report the active window, fullscreen detection disabled: %v", err)
		return noFullscreen{}
	}
	return &ewmhFullscreen{X: X}
}

func (detector *ewmhFullscreen) FullscreenActive() bool {
	active, err := ewmh.ActiveWindowGet(detector.X)
	if err != nil || active == 0 {
		return false
	}
	states, err := ewmh.WmStateGet(detector.X, active)
	if err != nil {
		return false
	}
	return hasFullscreenState(states)
}

func hasFullscreenState(states []string) bool {
	for _, state := range states {
		if state == fullscreenState {
			return true
		}
	}
	return false
}
