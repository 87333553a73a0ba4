package platform

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"screenbreak/internal/logging"
)

const (
	notificationsService = "org.freedesktop.Notifications"
	notificationsPath    = "/org/freedesktop/Notifications"
	notificationsMethod  = "org.freedesktop.Notifications.Notify"

	notificationTimeoutMillis = int32(8000)
)

type dbusNotifier struct {
	appName string
	conn    *dbus.Conn
}

func newDesktopNotifier(appName string) Notifier {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		logging.Debugf("desktop notifications unavailable: %v", err)
		return nil
	}
	return &dbusNotifier{appName: appName, conn: conn}
}

func (notifier *dbusNotifier) Notify(title, body string) error {
	obj := notifier.conn.Object(notificationsService, dbus.ObjectPath(notificationsPath))
	call := obj.Call(notificationsMethod, 0,
		notifier.appName,
		uint32(0),
		"",
		title,
		body,
		[]string{},
		map[string]dbus.Variant{},
		notificationTimeoutMillis,
	)
	if call.Err != nil {
		return fmt.Errorf("send notification: %w", call.Err)
	}
	return nil
}
