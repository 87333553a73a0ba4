package model

import "time"

// ScheduledBreak is a calendar-anchored break at a local time of day.
type ScheduledBreak struct {
	// Time is the local time of day in HH:MM form. It doubles as the
	// acknowledgement key, so two breaks must not share a time.
	Time     string
	Duration time.Duration
	Title    string
}

// Config contains runtime settings for break scheduling.
type Config struct {
	EyeRestInterval    time.Duration
	MicroPauseInterval time.Duration
	MinimumBreakGap    time.Duration
	WarningLead        time.Duration
	SnoozeDuration     time.Duration
	EyeRestDuration    time.Duration
	MicroPauseDuration time.Duration

	LowEnergyMultiplier float64
	CoastMargin         time.Duration
	CatchUpWindow       time.Duration
	SleepThreshold      time.Duration

	WorkStart string
	WorkEnd   string
	Breaks    []ScheduledBreak

	IdleDetection     bool
	IdleThreshold     time.Duration
	IdleCheckInterval time.Duration
	TickInterval      time.Duration

	SoundEnabled bool
	StrictMode   bool
	PomodoroMode bool
	FocusMode    bool

	MiniReminders        bool
	MiniReminderInterval time.Duration
	HydrationTracking    bool
	HydrationInterval    time.Duration

	PersistClockState bool
}

// PomodoroInterval replaces both work intervals while pomodoro mode is on.
const PomodoroInterval = 25 * time.Minute

// DefaultConfig returns the stock schedule.
func DefaultConfig() Config {
	return Config{
		EyeRestInterval:    20 * time.Minute,
		MicroPauseInterval: 45 * time.Minute,
		MinimumBreakGap:    20 * time.Minute,
		WarningLead:        60 * time.Second,
		SnoozeDuration:     5 * time.Minute,
		EyeRestDuration:    20 * time.Second,
		MicroPauseDuration: 5 * time.Minute,

		LowEnergyMultiplier: 1.5,
		CoastMargin:         10 * time.Minute,
		CatchUpWindow:       180 * time.Second,
		SleepThreshold:      120 * time.Minute,

		WorkStart: "08:00",
		WorkEnd:   "20:00",
		Breaks:    DefaultBreaks(),

		IdleDetection:     true,
		IdleThreshold:     5 * time.Minute,
		IdleCheckInterval: 5 * time.Second,
		TickInterval:      10 * time.Second,

		SoundEnabled: true,
		FocusMode:    true,

		MiniReminderInterval: 10 * time.Minute,
		HydrationInterval:    30 * time.Minute,
	}
}

// DefaultBreaks returns the stock list of scheduled breaks, ordered by time.
func DefaultBreaks() []ScheduledBreak {
	return []ScheduledBreak{
		{Time: "09:45", Duration: 15 * time.Minute, Title: "Stretch Break"},
		{Time: "11:30", Duration: 30 * time.Minute, Title: "Movement & Mindfulness"},
		{Time: "13:30", Duration: 60 * time.Minute, Title: "Lunch"},
		{Time: "16:00", Duration: 15 * time.Minute, Title: "Active Recovery"},
		{Time: "17:00", Duration: 30 * time.Minute, Title: "Recovery Break"},
		{Time: "20:00", Duration: 0, Title: "Shutdown"},
	}
}
