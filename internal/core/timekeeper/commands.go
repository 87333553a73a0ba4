package timekeeper

import (
	"time"

	"screenbreak/internal/core/model"
	"screenbreak/internal/core/schedule"
	"screenbreak/internal/logging"
)

// Pause freezes every break clock. It reports false if already paused.
func (keeper *TimeKeeper) Pause() bool {
	now := keeper.options.Now()
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.pauseLocked(now)
}

func (keeper *TimeKeeper) pauseLocked(now time.Time) bool {
	if !keeper.clock.Pause(now) {
		return false
	}
	logging.Infof("paused")
	keeper.emitLocked(Event{Type: EventStateChange, State: StatePaused, At: now})
	return true
}

// PauseFor pauses and schedules an automatic resume after d.
func (keeper *TimeKeeper) PauseFor(d time.Duration) {
	now := keeper.options.Now()
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	keeper.pauseLocked(now)
	if keeper.pauseTimer != nil {
		keeper.pauseTimer()
	}
	keeper.pauseTimer = keeper.options.Timers.After(d, func() { keeper.Resume() })
	logging.Infof("resuming in %s", d)
}

// Resume unfreezes the clocks, shifting them by the pause length. It
// reports false if not paused.
func (keeper *TimeKeeper) Resume() bool {
	now := keeper.options.Now()
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.resumeLocked(now)
}

func (keeper *TimeKeeper) resumeLocked(now time.Time) bool {
	if keeper.pauseTimer != nil {
		keeper.pauseTimer()
		keeper.pauseTimer = nil
	}
	keeper.sleepPaused = false
	if !keeper.clock.Paused() {
		return false
	}
	paused := keeper.clock.Resume(now)
	logging.Infof("resumed after %s", paused.Round(time.Second))
	keeper.emitLocked(Event{Type: EventStateChange, State: StateWork, Remaining: paused, At: now})
	return true
}

// HandleSleep pauses the clocks when the system suspends and resumes them
// on wake. A pause the user started is left alone.
func (keeper *TimeKeeper) HandleSleep(sleeping bool) {
	now := keeper.options.Now()
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	if sleeping {
		if keeper.pauseLocked(now) {
			keeper.sleepPaused = true
		}
		return
	}
	if keeper.sleepPaused {
		keeper.resumeLocked(now)
	}
}

// SetLowEnergy toggles the low-energy interval multiplier. Clocks are not
// touched; the new intervals apply on the next tick.
func (keeper *TimeKeeper) SetLowEnergy(on bool) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.lowEnergy == on {
		return
	}
	keeper.lowEnergy = on
	keeper.emitLocked(Event{Type: EventLowEnergy, Message: onOff(on), At: keeper.options.Now()})
}

// LowEnergy reports whether low-energy mode is on.
func (keeper *TimeKeeper) LowEnergy() bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.lowEnergy
}

// ForceBreak starts an eye rest or micro-pause after a short countdown.
func (keeper *TimeKeeper) ForceBreak(kind schedule.BreakKind) error {
	if kind != schedule.KindEyeRest && kind != schedule.KindMicroPause {
		return ErrUnsupportedKind
	}
	now := keeper.options.Now()

	keeper.mu.Lock()
	if keeper.overlay != nil || keeper.handoffs > 0 || keeper.machine.Active() {
		keeper.mu.Unlock()
		return ErrBusy
	}
	selection := schedule.Selection{Kind: kind, Countdown: schedule.MinCountdown}
	request := keeper.requestLocked(selection)
	keeper.mu.Unlock()

	keeper.beginWarning(selection, request, now)
	return nil
}

// UpdateConfig swaps the configuration. Clocks are kept.
func (keeper *TimeKeeper) UpdateConfig(config model.Config) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.config = withRuntimeDefaults(config)
}

// Config returns the active configuration.
func (keeper *TimeKeeper) Config() model.Config {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.config
}

// Status is a point-in-time view of the scheduler.
type Status struct {
	State       State
	Paused      bool
	Idle        bool
	LowEnergy   bool
	Fullscreen  bool
	InWorkHours bool

	UntilEyeRest    time.Duration
	UntilMicroPause time.Duration
	SnoozeUntil     time.Time

	NextScheduled    model.ScheduledBreak
	HasNextScheduled bool

	WarningRemaining time.Duration
	ActiveBreak      string
}

// Status returns the current scheduler state.
func (keeper *TimeKeeper) Status() Status {
	now := keeper.options.Now()
	warningRemaining, warningActive := keeper.machine.Remaining()

	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	status := Status{
		State:       StateWork,
		Paused:      keeper.clock.Paused(),
		Idle:        keeper.clock.Idle(),
		LowEnergy:   keeper.lowEnergy,
		Fullscreen:  keeper.fullscreen,
		InWorkHours: schedule.InWorkHours(now, keeper.config.WorkStart, keeper.config.WorkEnd),
	}
	status.UntilEyeRest, status.UntilMicroPause = keeper.untilIntervalsLocked(now)
	if keeper.clock.Snoozed(now) {
		status.SnoozeUntil = keeper.clock.SnoozeUntil
	}
	status.NextScheduled, status.HasNextScheduled = schedule.NextScheduled(now, keeper.clock, keeper.config, 24*time.Hour)

	switch {
	case keeper.overlay != nil:
		status.State = StateBreak
		status.ActiveBreak = keeper.overlay.request.Title
	case warningActive:
		status.State = StateWarning
		status.WarningRemaining = warningRemaining
	case status.Paused:
		status.State = StatePaused
	case status.Idle:
		status.State = StateIdle
	}
	return status
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
