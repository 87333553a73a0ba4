package schedule

import (
	"time"

	"screenbreak/internal/core/model"
)

// EffectiveEyeInterval returns the eye-rest interval after pomodoro and
// low-energy adjustments. It is computed on every call so mode changes apply
// on the next tick without touching any clock.
func EffectiveEyeInterval(config model.Config, lowEnergy bool) time.Duration {
	return effectiveInterval(config, config.EyeRestInterval, lowEnergy)
}

// EffectiveMicroInterval returns the micro-pause interval after pomodoro and
// low-energy adjustments.
func EffectiveMicroInterval(config model.Config, lowEnergy bool) time.Duration {
	return effectiveInterval(config, config.MicroPauseInterval, lowEnergy)
}

func effectiveInterval(config model.Config, base time.Duration, lowEnergy bool) time.Duration {
	if config.PomodoroMode {
		return model.PomodoroInterval
	}
	if !lowEnergy {
		return base
	}
	return time.Duration(float64(base) * config.LowEnergyMultiplier)
}
