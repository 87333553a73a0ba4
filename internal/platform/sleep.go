package platform

import "context"

// SleepFunc receives true when the system is about to suspend and false
// once it has resumed.
type SleepFunc func(sleeping bool)

// WatchSleep calls fn on suspend and resume until ctx is done. It returns
// an error when the platform offers no suspend notifications.
func WatchSleep(ctx context.Context, fn SleepFunc) error {
	return watchSleep(ctx, fn)
}
