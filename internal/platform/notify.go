package platform

import "screenbreak/internal/logging"

// Notifier delivers short desktop notifications.
type Notifier interface {
	Notify(title, body string) error
}

// NewNotifier returns the desktop notifier for this platform, or one that
// writes to the log when the desktop offers none.
func NewNotifier(appName string) Notifier {
	if notifier := newDesktopNotifier(appName); notifier != nil {
		return notifier
	}
	return logNotifier{}
}

type logNotifier struct{}

func (logNotifier) Notify(title, body string) error {
	logging.Infof("%s: %s", title, body)
	return nil
}
