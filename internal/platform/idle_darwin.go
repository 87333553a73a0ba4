package platform

import (
	"fmt"
	"time"

	"screenbreak/internal/core/timekeeper"
)

type idleProvider struct{}

func newIdleProvider() IdleProvider {
	return &idleProvider{}
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	output, err := runProbe("ioreg", "-c", "IOHIDSystem")
	if err != nil {
		return 0, fmt.Errorf("%w: ioreg: %v", timekeeper.ErrIdleUnsupported, err)
	}
	nanos, ok := parseHIDIdleTime(string(output))
	if !ok {
		return 0, fmt.Errorf("%w: HIDIdleTime not reported", timekeeper.ErrIdleUnsupported)
	}
	return time.Duration(nanos), nil
}
