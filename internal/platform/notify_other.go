//go:build !linux

package platform

func newDesktopNotifier(string) Notifier {
	return nil
}
