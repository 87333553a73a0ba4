//go:build !linux

package platform

import (
	"context"
	"errors"
)

func watchSleep(context.Context, SleepFunc) error {
	return errors.New("suspend notifications unsupported on this platform")
}
