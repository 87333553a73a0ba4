package schedule

import "time"

// BreakKind identifies one of the break policies.
type BreakKind string

const (
	KindEyeRest    BreakKind = "eye_rest"
	KindMicroPause BreakKind = "micro"
	KindScheduled  BreakKind = "scheduled"
)

// Outcome is how the user resolved a break overlay.
type Outcome string

const (
	OutcomeTaken   Outcome = "taken"
	OutcomeSkipped Outcome = "skipped"
	OutcomeSnoozed Outcome = "snoozed"
)

// ClockState holds the timestamps the arbitration engine reasons about.
// Zero-valued PauseStarted, IdleSince and SnoozeUntil mean "unset".
type ClockState struct {
	LastEyeRest    time.Time
	LastMicroPause time.Time
	LastAnyBreak   time.Time

	PauseStarted time.Time
	IdleSince    time.Time
	SnoozeUntil  time.Time

	LastMiniReminder time.Time
	LastHydration    time.Time

	today        Date
	acknowledged map[string]Date
}

// NewClockState returns a state whose clocks all start at now.
func NewClockState(now time.Time) *ClockState {
	return &ClockState{
		LastEyeRest:      now,
		LastMicroPause:   now,
		LastAnyBreak:     now,
		LastMiniReminder: now,
		LastHydration:    now,
		today:            DateOf(now),
		acknowledged:     make(map[string]Date),
	}
}

// ResetAll restarts the eye, micro and any-break clocks at now.
func (state *ClockState) ResetAll(now time.Time) {
	state.LastEyeRest = now
	state.LastMicroPause = now
	state.LastAnyBreak = now
}

// ResetEyeRest restarts only the eye-rest and any-break clocks.
func (state *ClockState) ResetEyeRest(now time.Time) {
	state.LastEyeRest = now
	state.LastAnyBreak = now
}

// Acknowledge marks the scheduled break keyed by its time of day as handled
// for the local date of now.
func (state *ClockState) Acknowledge(key string, now time.Time) {
	if state.acknowledged == nil {
		state.acknowledged = make(map[string]Date)
	}
	state.acknowledged[key] = DateOf(now)
}

// Acknowledged reports whether key was handled on the local date of now.
// Entries from any other date count as absent.
func (state *ClockState) Acknowledged(key string, now time.Time) bool {
	date, ok := state.acknowledged[key]
	return ok && date == DateOf(now)
}

// AcknowledgedKeys returns the keys acknowledged on the local date of now.
func (state *ClockState) AcknowledgedKeys(now time.Time) []string {
	today := DateOf(now)
	keys := make([]string, 0, len(state.acknowledged))
	for key, date := range state.acknowledged {
		if date == today {
			keys = append(keys, key)
		}
	}
	return keys
}

// Rollover clears acknowledgements when the local date has changed since the
// last call and reports whether it did.
func (state *ClockState) Rollover(now time.Time) bool {
	date := DateOf(now)
	if date == state.today {
		return false
	}
	state.today = date
	for key := range state.acknowledged {
		delete(state.acknowledged, key)
	}
	return true
}

// Snoozed reports whether break evaluation is suppressed at now.
func (state *ClockState) Snoozed(now time.Time) bool {
	return !state.SnoozeUntil.IsZero() && now.Before(state.SnoozeUntil)
}

// Paused reports whether a pause is in progress.
func (state *ClockState) Paused() bool {
	return !state.PauseStarted.IsZero()
}

// Idle reports whether the idle threshold has been crossed.
func (state *ClockState) Idle() bool {
	return !state.IdleSince.IsZero()
}

// Resolve applies the reset policy for a resolved break. Taken and skipped
// breaks advance the clocks identically; snoozing only sets the snooze
// deadline.
func (state *ClockState) Resolve(kind BreakKind, key string, outcome Outcome, now time.Time, snooze time.Duration) {
	if outcome == OutcomeSnoozed {
		state.SnoozeUntil = now.Add(snooze)
		return
	}
	switch kind {
	case KindScheduled:
		state.Acknowledge(key, now)
		state.ResetAll(now)
	case KindMicroPause:
		state.ResetAll(now)
	case KindEyeRest:
		// Looking away is not movement; the micro-pause clock keeps running.
		state.ResetEyeRest(now)
	}
}

// Snapshot is the persisted form of a ClockState.
type Snapshot struct {
	SavedAt        time.Time
	LastEyeRest    time.Time
	LastMicroPause time.Time
	LastAnyBreak   time.Time
	Acknowledged   map[string]Date
}

// Snapshot captures the persistable part of the state.
func (state *ClockState) Snapshot(now time.Time) Snapshot {
	acknowledged := make(map[string]Date, len(state.acknowledged))
	for key, date := range state.acknowledged {
		acknowledged[key] = date
	}
	return Snapshot{
		SavedAt:        now,
		LastEyeRest:    state.LastEyeRest,
		LastMicroPause: state.LastMicroPause,
		LastAnyBreak:   state.LastAnyBreak,
		Acknowledged:   acknowledged,
	}
}

// Restore loads a snapshot taken earlier. Timestamps from the future are
// clamped to now; acknowledgements from other dates are dropped.
func (state *ClockState) Restore(snapshot Snapshot, now time.Time) {
	clamp := func(value time.Time) time.Time {
		if value.IsZero() || value.After(now) {
			return now
		}
		return value
	}
	state.LastEyeRest = clamp(snapshot.LastEyeRest)
	state.LastMicroPause = clamp(snapshot.LastMicroPause)
	state.LastAnyBreak = clamp(snapshot.LastAnyBreak)

	state.today = DateOf(now)
	state.acknowledged = make(map[string]Date)
	for key, date := range snapshot.Acknowledged {
		if date == state.today {
			state.acknowledged[key] = date
		}
	}
}
