package schedule

import "time"

// FullBreakIdle is the total idle time that counts as a movement break.
const FullBreakIdle = 5 * time.Minute

// Pause records the start of a user pause. It reports false if a pause is
// already in progress.
func (state *ClockState) Pause(now time.Time) bool {
	if state.Paused() {
		return false
	}
	state.PauseStarted = now
	return true
}

// Resume ends a pause by shifting every clock forward by the pause length,
// so paused time never counts against an interval. It returns the pause
// length.
func (state *ClockState) Resume(now time.Time) time.Duration {
	if !state.Paused() {
		return 0
	}
	paused := now.Sub(state.PauseStarted)
	if paused < 0 {
		paused = 0
	}
	state.PauseStarted = time.Time{}
	state.shift(paused)
	return paused
}

func (state *ClockState) shift(delta time.Duration) {
	state.LastEyeRest = state.LastEyeRest.Add(delta)
	state.LastMicroPause = state.LastMicroPause.Add(delta)
	state.LastAnyBreak = state.LastAnyBreak.Add(delta)
	state.LastMiniReminder = state.LastMiniReminder.Add(delta)
	state.LastHydration = state.LastHydration.Add(delta)
	if !state.SnoozeUntil.IsZero() {
		state.SnoozeUntil = state.SnoozeUntil.Add(delta)
	}
}

// BeginIdle records the moment the idle threshold was crossed. It reports
// false if idle was already recorded.
func (state *ClockState) BeginIdle(now time.Time) bool {
	if state.Idle() {
		return false
	}
	state.IdleSince = now
	return true
}

// EndIdle credits an idle period that just ended. threshold is the input
// silence that had already elapsed when idle was recorded. Idle time always
// counts as eye rest; it counts as a micro-pause only when the total silence
// reached FullBreakIdle, otherwise the micro clock gets the idle time back.
func (state *ClockState) EndIdle(now time.Time, threshold time.Duration) time.Duration {
	if !state.Idle() {
		return 0
	}
	idle := now.Sub(state.IdleSince)
	if idle < 0 {
		idle = 0
	}
	state.IdleSince = time.Time{}

	state.LastEyeRest = now
	if threshold+idle >= FullBreakIdle {
		state.LastMicroPause = now
	} else {
		state.LastMicroPause = state.LastMicroPause.Add(idle)
	}
	state.LastAnyBreak = state.LastAnyBreak.Add(idle)
	state.LastMiniReminder = state.LastMiniReminder.Add(idle)
	state.LastHydration = state.LastHydration.Add(idle)
	return idle
}

// ClearIdle forgets an idle period without crediting it.
func (state *ClockState) ClearIdle() {
	state.IdleSince = time.Time{}
}
