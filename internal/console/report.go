package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"screenbreak/internal/core/model"
	"screenbreak/internal/core/schedule"
	"screenbreak/internal/core/timekeeper"
	"screenbreak/internal/storage/sqlite"
)

var reportKinds = []schedule.BreakKind{schedule.KindEyeRest, schedule.KindMicroPause, schedule.KindScheduled}

// PrintSchedule writes the work window, the interval policies and today's
// scheduled breaks.
func PrintSchedule(w io.Writer, config model.Config, lowEnergy bool) {
	fmt.Fprintf(w, "Work hours: %s - %s\n", format12(config.WorkStart), format12(config.WorkEnd))
	fmt.Fprintf(w, "Eye rest every %s (%s)\n",
		minutes(schedule.EffectiveEyeInterval(config, lowEnergy)), config.EyeRestDuration)
	fmt.Fprintf(w, "Micro-pause every %s (%s)\n",
		minutes(schedule.EffectiveMicroInterval(config, lowEnergy)), minutes(config.MicroPauseDuration))
	fmt.Fprintf(w, "At least %s between breaks\n", minutes(config.MinimumBreakGap))
	if len(config.Breaks) == 0 {
		fmt.Fprintln(w, "No scheduled breaks")
		return
	}
	fmt.Fprintln(w, "Scheduled breaks:")
	for _, entry := range config.Breaks {
		length := ""
		if entry.Duration > 0 {
			length = "(" + minutes(entry.Duration) + ")"
		}
		fmt.Fprintf(w, "  %-8s  %-24s %s\n", format12(entry.Time), entry.Title, length)
	}
}

// PrintStatus writes a scheduler snapshot.
func PrintStatus(w io.Writer, status timekeeper.Status) {
	fmt.Fprintf(w, "State: %s\n", status.State)
	if status.State == timekeeper.StateWarning {
		fmt.Fprintf(w, "Break starts in %s\n", status.WarningRemaining.Round(time.Second))
	}
	if status.ActiveBreak != "" {
		fmt.Fprintf(w, "On break: %s\n", status.ActiveBreak)
	}
	fmt.Fprintf(w, "Next eye rest in %s\n", status.UntilEyeRest.Round(time.Second))
	fmt.Fprintf(w, "Next micro-pause in %s\n", status.UntilMicroPause.Round(time.Second))
	if status.HasNextScheduled {
		fmt.Fprintf(w, "Next scheduled: %s at %s\n", status.NextScheduled.Title, format12(status.NextScheduled.Time))
	}
	if !status.SnoozeUntil.IsZero() {
		fmt.Fprintf(w, "Snoozed until %s\n", status.SnoozeUntil.Format("15:04:05"))
	}

	var flags []string
	for _, flag := range []struct {
		on   bool
		name string
	}{
		{status.Paused, "paused"},
		{status.Idle, "idle"},
		{status.LowEnergy, "low energy"},
		{status.Fullscreen, "fullscreen"},
		{!status.InWorkHours, "outside work hours"},
	} {
		if flag.on {
			flags = append(flags, flag.name)
		}
	}
	if len(flags) > 0 {
		fmt.Fprintf(w, "Flags: %s\n", strings.Join(flags, ", "))
	}
}

// PrintStats writes today's and lifetime counts, the daily history and the
// streak.
func PrintStats(w io.Writer, summary sqlite.Summary) {
	fmt.Fprintf(w, "%-12s %14s %14s\n", "", "today", "lifetime")
	for _, kind := range reportKinds {
		today := summary.Today[kind]
		lifetime := summary.Lifetime[kind]
		fmt.Fprintf(w, "%-12s %6d / %-6d %6d / %-6d\n", kind, today.Taken, today.Skipped, lifetime.Taken, lifetime.Skipped)
	}
	fmt.Fprintln(w, "(taken / skipped)")

	if len(summary.History) > 0 {
		fmt.Fprintln(w, "History:")
		for _, day := range summary.History {
			fmt.Fprintf(w, "  %s %s %d\n", day.Date, strings.Repeat("#", day.TotalTaken()), day.TotalTaken())
		}
	}
	fmt.Fprintf(w, "Streak: %d day(s)\n", summary.Streak)
}

func format12(value string) string {
	tod, err := schedule.ParseTimeOfDay(value)
	if err != nil {
		return value
	}
	return tod.Format12()
}

func minutes(d time.Duration) string {
	return fmt.Sprintf("%d min", int(d.Round(time.Minute)/time.Minute))
}
