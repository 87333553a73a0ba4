package timekeeper

import (
	"context"
	"errors"
	"time"

	"screenbreak/internal/core/schedule"
	"screenbreak/internal/core/warning"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// FullscreenChecker reports whether the focused window covers the screen.
type FullscreenChecker interface {
	FullscreenActive() bool
}

// Notifier delivers short desktop notifications.
type Notifier interface {
	Notify(title, body string) error
}

// StatsSink records resolved breaks.
type StatsSink interface {
	RecordBreak(ctx context.Context, kind schedule.BreakKind, outcome schedule.Outcome, at time.Time) error
}

// ClockStore persists the clock state across restarts.
type ClockStore interface {
	SaveClock(ctx context.Context, snapshot schedule.Snapshot) error
	// LoadClock reports false when nothing has been saved yet.
	LoadClock(ctx context.Context) (schedule.Snapshot, bool, error)
}

// BreakRequest describes a break to present.
type BreakRequest struct {
	Kind        schedule.BreakKind
	Title       string
	Description string
	Exercise    string
	Duration    time.Duration
	Snooze      time.Duration
	StrictMode  bool
	LowEnergy   bool
	CatchUp     bool
	Sound       bool

	// Resolve ends the break. Calls after the first are ignored.
	Resolve func(outcome schedule.Outcome)
}

// BreakHandle is a presented break.
type BreakHandle interface {
	// Close tears the presentation down. It must tolerate repeated calls.
	Close()
}

// BreakPresenter shows break overlays.
type BreakPresenter interface {
	Show(request BreakRequest) BreakHandle
}

// WarningPresenter shows the countdown before a break. dismiss starts the
// break immediately.
type WarningPresenter interface {
	ShowWarning(request BreakRequest, countdown time.Duration, dismiss func()) warning.Display
}
