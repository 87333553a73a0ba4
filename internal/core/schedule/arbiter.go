package schedule

import (
	"time"

	"screenbreak/internal/core/model"
)

const (
	// MinCountdown floors the warning countdown of a scheduled break.
	MinCountdown = 5 * time.Second
	// MaxMicroCountdown caps the warning countdown of a micro-pause.
	MaxMicroCountdown = 30 * time.Second
)

// Selection is the break chosen by Evaluate.
type Selection struct {
	Kind      BreakKind
	Countdown time.Duration

	// Break is set for scheduled breaks only.
	Break model.ScheduledBreak
	// CatchUp marks a scheduled break whose instant has already passed.
	CatchUp bool
}

// Key returns the acknowledgement key of a scheduled selection.
func (selection Selection) Key() string {
	return selection.Break.Time
}

// Evaluate decides whether a break is due at now and which one wins. It only
// mutates state for the sleep/clock-jump reset and to clear an expired snooze.
func Evaluate(now time.Time, state *ClockState, config model.Config, lowEnergy bool) (Selection, bool) {
	if !InWorkHours(now, config.WorkStart, config.WorkEnd) {
		return Selection{}, false
	}

	if state.Snoozed(now) {
		return Selection{}, false
	}
	state.SnoozeUntil = time.Time{}

	sinceLast := now.Sub(state.LastAnyBreak)
	if sinceLast > config.SleepThreshold || sinceLast < 0 {
		state.ResetAll(now)
		return Selection{}, false
	}
	if sinceLast < config.MinimumBreakGap {
		return Selection{}, false
	}

	if selection, ok := evaluateScheduled(now, state, config); ok {
		return selection, true
	}

	coasting := scheduledWithin(now, state, config, config.CoastMargin)
	microInterval := EffectiveMicroInterval(config, lowEnergy)
	elapsedMicro := now.Sub(state.LastMicroPause)
	if elapsedMicro >= microInterval && !coasting {
		countdown := config.WarningLead
		if countdown > MaxMicroCountdown {
			countdown = MaxMicroCountdown
		}
		return Selection{Kind: KindMicroPause, Countdown: countdown}, true
	}

	elapsedEye := now.Sub(state.LastEyeRest)
	if elapsedEye >= EffectiveEyeInterval(config, lowEnergy) && !coasting {
		microSoon := microInterval - config.CoastMargin
		if microSoon < 0 {
			microSoon = 0
		}
		if microSoon == 0 || elapsedMicro < microSoon {
			return Selection{Kind: KindEyeRest, Countdown: config.WarningLead}, true
		}
	}

	return Selection{}, false
}

func evaluateScheduled(now time.Time, state *ClockState, config model.Config) (Selection, bool) {
	for _, scheduled := range config.Breaks {
		if state.Acknowledged(scheduled.Time, now) {
			continue
		}
		tod, err := ParseTimeOfDay(scheduled.Time)
		if err != nil {
			continue
		}
		diff := tod.On(now).Sub(now)

		if diff > 0 && diff <= config.WarningLead {
			countdown := diff.Truncate(time.Second)
			if countdown < MinCountdown {
				countdown = MinCountdown
			}
			return Selection{Kind: KindScheduled, Countdown: countdown, Break: scheduled}, true
		}
		if diff <= 0 && diff >= -config.CatchUpWindow {
			return Selection{Kind: KindScheduled, Countdown: MinCountdown, Break: scheduled, CatchUp: true}, true
		}
	}
	return Selection{}, false
}

// scheduledWithin reports whether an unacknowledged scheduled break starts
// within (0, margin] of now.
func scheduledWithin(now time.Time, state *ClockState, config model.Config, margin time.Duration) bool {
	_, ok := NextScheduled(now, state, config, margin)
	return ok
}

// NextScheduled returns the first configured, unacknowledged break that starts
// within (0, horizon] of now.
func NextScheduled(now time.Time, state *ClockState, config model.Config, horizon time.Duration) (model.ScheduledBreak, bool) {
	for _, scheduled := range config.Breaks {
		if state.Acknowledged(scheduled.Time, now) {
			continue
		}
		tod, err := ParseTimeOfDay(scheduled.Time)
		if err != nil {
			continue
		}
		diff := tod.On(now).Sub(now)
		if diff > 0 && diff <= horizon {
			return scheduled, true
		}
	}
	return model.ScheduledBreak{}, false
}
