package platform

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"screenbreak/internal/core/timekeeper"
)

// probeTimeout bounds every external idle or fullscreen probe.
const probeTimeout = 2 * time.Second

// IdleProvider returns the duration since last user input.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// NewIdleProvider returns a platform-specific idle provider.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

// unsupportedIdleProvider reports that no idle source exists, which turns
// idle polling off for the session.
type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, timekeeper.ErrIdleUnsupported
}

func runProbe(name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	return exec.CommandContext(ctx, name, args...).Output()
}

// parseHIDIdleTime extracts the first HIDIdleTime value, in nanoseconds,
// from ioreg output.
func parseHIDIdleTime(output string) (int64, bool) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, `"HIDIdleTime"`) {
			continue
		}
		_, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		nanos, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil || nanos < 0 {
			continue
		}
		return nanos, true
	}
	return 0, false
}
