package preferences

import (
	"time"

	"screenbreak/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	EyeRestInterval    time.Duration
	MicroPauseInterval time.Duration
	MinimumBreakGap    time.Duration
	WarningLead        time.Duration
	SnoozeDuration     time.Duration
	EyeRestDuration    time.Duration
	MicroPauseDuration time.Duration

	StrictMode        bool
	IdleDetection     bool
	PomodoroMode      bool
	FocusMode         bool
	SoundEnabled      bool
	MiniReminders     bool
	HydrationTracking bool

	StartAtLogin bool

	OverlayOpacity float64
	Fullscreen     bool
}

// Overlay visuals are not part of the scheduler configuration.
const (
	DefaultOverlayOpacity = 0.85
	DefaultFullscreen     = true
)

// FromConfig builds the editable view of config.
func FromConfig(config model.Config, startAtLogin bool) Settings {
	return Settings{
		EyeRestInterval:    config.EyeRestInterval,
		MicroPauseInterval: config.MicroPauseInterval,
		MinimumBreakGap:    config.MinimumBreakGap,
		WarningLead:        config.WarningLead,
		SnoozeDuration:     config.SnoozeDuration,
		EyeRestDuration:    config.EyeRestDuration,
		MicroPauseDuration: config.MicroPauseDuration,
		StrictMode:         config.StrictMode,
		IdleDetection:      config.IdleDetection,
		PomodoroMode:       config.PomodoroMode,
		FocusMode:          config.FocusMode,
		SoundEnabled:       config.SoundEnabled,
		MiniReminders:      config.MiniReminders,
		HydrationTracking:  config.HydrationTracking,
		StartAtLogin:       startAtLogin,
		OverlayOpacity:     DefaultOverlayOpacity,
		Fullscreen:         DefaultFullscreen,
	}
}

// Apply copies the edited values onto config, leaving fields the window
// does not edit untouched.
func (settings Settings) Apply(config model.Config) model.Config {
	config.EyeRestInterval = settings.EyeRestInterval
	config.MicroPauseInterval = settings.MicroPauseInterval
	config.MinimumBreakGap = settings.MinimumBreakGap
	config.WarningLead = settings.WarningLead
	config.SnoozeDuration = settings.SnoozeDuration
	config.EyeRestDuration = settings.EyeRestDuration
	config.MicroPauseDuration = settings.MicroPauseDuration
	config.StrictMode = settings.StrictMode
	config.IdleDetection = settings.IdleDetection
	config.PomodoroMode = settings.PomodoroMode
	config.FocusMode = settings.FocusMode
	config.SoundEnabled = settings.SoundEnabled
	config.MiniReminders = settings.MiniReminders
	config.HydrationTracking = settings.HydrationTracking
	return config
}

// OpacityToAlpha converts an opacity fraction to an 8-bit alpha.
func OpacityToAlpha(opacity float64) uint8 {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return uint8(opacity * 255)
}
