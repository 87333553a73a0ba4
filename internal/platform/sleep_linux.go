package platform

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"screenbreak/internal/logging"
)

const (
	login1Path      = "/org/freedesktop/login1"
	login1Manager   = "org.freedesktop.login1.Manager"
	prepareForSleep = login1Manager + ".PrepareForSleep"
)

func watchSleep(ctx context.Context, fn SleepFunc) error {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("connect to system bus: %w", err)
	}
	defer conn.Close()

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(login1Path),
		dbus.WithMatchInterface(login1Manager),
		dbus.WithMatchMember("PrepareForSleep"),
	); err != nil {
		return fmt.Errorf("add match failed: %w", err)
	}

	signals := make(chan *dbus.Signal, 10)
	conn.Signal(signals)

	for {
		select {
		case sig, ok := <-signals:
			if !ok {
				return nil
			}
			if sig.Name != prepareForSleep || len(sig.Body) == 0 {
				continue
			}
			sleeping, _ := sig.Body[0].(bool)
			if sleeping {
				logging.Infof("system is going to sleep")
			} else {
				logging.Infof("system has woken up")
			}
			fn(sleeping)
		case <-ctx.Done():
			return nil
		}
	}
}
