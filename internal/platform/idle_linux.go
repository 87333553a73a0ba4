package platform

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"screenbreak/internal/core/timekeeper"
	"screenbreak/internal/logging"
)

const (
	mutterIdleService = "org.gnome.Mutter.IdleMonitor"
	mutterIdlePath    = "/org/gnome/Mutter/IdleMonitor/Core"
	mutterIdleMethod  = "org.gnome.Mutter.IdleMonitor.GetIdletime"
)

type idleProvider struct {
	xprintidlePath string
	session        *dbus.Conn
}

func newIdleProvider() IdleProvider {
	provider := &idleProvider{}
	if path, err := exec.LookPath("xprintidle"); err == nil {
		provider.xprintidlePath = path
	}
	if conn, err := dbus.ConnectSessionBus(); err == nil {
		provider.session = conn
	} else {
		logging.Debugf("session bus unavailable for idle monitor: %v", err)
	}
	if provider.xprintidlePath == "" && provider.session == nil {
		return unsupportedIdleProvider{}
	}
	return provider
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	sessionType := strings.ToLower(os.Getenv("XDG_SESSION_TYPE"))
	if provider.xprintidlePath != "" && sessionType != "wayland" {
		idle, err := provider.xprintidle()
		if err == nil || provider.session == nil {
			return idle, err
		}
		logging.Debugf("xprintidle failed, trying idle monitor: %v", err)
	}
	if provider.session != nil {
		return provider.mutterIdle()
	}
	return 0, timekeeper.ErrIdleUnsupported
}

func (provider *idleProvider) xprintidle() (time.Duration, error) {
	output, err := runProbe(provider.xprintidlePath)
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	value := strings.TrimSpace(string(output))
	idleMillis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if idleMillis < 0 {
		idleMillis = 0
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}

func (provider *idleProvider) mutterIdle() (time.Duration, error) {
	obj := provider.session.Object(mutterIdleService, dbus.ObjectPath(mutterIdlePath))
	call := obj.Call(mutterIdleMethod, 0)
	if call.Err != nil {
		return 0, fmt.Errorf("%w: idle monitor: %v", timekeeper.ErrIdleUnsupported, call.Err)
	}
	var idleMillis uint64
	if err := call.Store(&idleMillis); err != nil {
		return 0, fmt.Errorf("read idle monitor reply: %w", err)
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}
