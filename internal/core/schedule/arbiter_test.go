package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenbreak/internal/core/model"
	"screenbreak/internal/core/schedule"
)

func testConfig() model.Config {
	config := model.DefaultConfig()
	config.WorkStart = "00:00"
	config.WorkEnd = "23:59"
	config.Breaks = nil
	return config
}

func at(hour, minute, second int) time.Time {
	return time.Date(2026, time.March, 10, hour, minute, second, 0, time.Local)
}

func TestEvaluate_EyeRestScenario(t *testing.T) {
	config := testConfig()
	t0 := at(10, 0, 0)
	state := schedule.NewClockState(t0)

	_, ok := schedule.Evaluate(t0.Add(19*time.Minute+59*time.Second), state, config, false)
	assert.False(t, ok)

	selection, ok := schedule.Evaluate(t0.Add(20*time.Minute+time.Second), state, config, false)
	require.True(t, ok)
	assert.Equal(t, schedule.KindEyeRest, selection.Kind)
	assert.Equal(t, 60*time.Second, selection.Countdown)
}

func TestEvaluate_ScheduledWarningWindow(t *testing.T) {
	config := testConfig()
	config.Breaks = []model.ScheduledBreak{{Time: "14:00", Duration: 15 * time.Minute, Title: "Stretch Break"}}
	now := at(13, 59, 30)
	state := schedule.NewClockState(now.Add(-30 * time.Minute))

	selection, ok := schedule.Evaluate(now, state, config, false)
	require.True(t, ok)
	assert.Equal(t, schedule.KindScheduled, selection.Kind)
	assert.Equal(t, 30*time.Second, selection.Countdown)
	assert.Equal(t, "14:00", selection.Key())
	assert.False(t, selection.CatchUp)
}

func TestEvaluate_ScheduledCountdownFloor(t *testing.T) {
	config := testConfig()
	config.Breaks = []model.ScheduledBreak{{Time: "14:00", Title: "Stretch Break"}}
	now := at(13, 59, 58)
	state := schedule.NewClockState(now.Add(-30 * time.Minute))

	selection, ok := schedule.Evaluate(now, state, config, false)
	require.True(t, ok)
	assert.Equal(t, schedule.MinCountdown, selection.Countdown)
}

func TestEvaluate_ScheduledCatchUp(t *testing.T) {
	config := testConfig()
	config.Breaks = []model.ScheduledBreak{{Time: "14:00", Duration: 15 * time.Minute, Title: "Stretch Break"}}
	now := at(14, 0, 45)
	state := schedule.NewClockState(now.Add(-30 * time.Minute))

	selection, ok := schedule.Evaluate(now, state, config, false)
	require.True(t, ok)
	assert.Equal(t, schedule.KindScheduled, selection.Kind)
	assert.Equal(t, 5*time.Second, selection.Countdown)
	assert.True(t, selection.CatchUp)

	selection, ok = schedule.Evaluate(at(14, 3, 1), state, config, false)
	if ok {
		assert.NotEqual(t, schedule.KindScheduled, selection.Kind, "outside the catch-up window the break is gone for the day")
	}
}

func TestEvaluate_PriorityScheduledFirst(t *testing.T) {
	config := testConfig()
	config.Breaks = []model.ScheduledBreak{{Time: "14:00", Title: "Lunch"}}
	now := at(13, 59, 20)
	state := schedule.NewClockState(now.Add(-90 * time.Minute))

	selection, ok := schedule.Evaluate(now, state, config, false)
	require.True(t, ok)
	assert.Equal(t, schedule.KindScheduled, selection.Kind)
}

func TestEvaluate_MicroOutranksEyeRest(t *testing.T) {
	config := testConfig()
	now := at(11, 0, 0)
	state := schedule.NewClockState(now.Add(-50 * time.Minute))

	selection, ok := schedule.Evaluate(now, state, config, false)
	require.True(t, ok)
	assert.Equal(t, schedule.KindMicroPause, selection.Kind)
	assert.Equal(t, schedule.MaxMicroCountdown, selection.Countdown)
}

func TestEvaluate_MicroCountdownFollowsShortWarning(t *testing.T) {
	config := testConfig()
	config.WarningLead = 10 * time.Second
	now := at(11, 0, 0)
	state := schedule.NewClockState(now.Add(-50 * time.Minute))

	selection, ok := schedule.Evaluate(now, state, config, false)
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, selection.Countdown)
}

func TestEvaluate_CoastMarginSuppressesIntervalBreaks(t *testing.T) {
	config := testConfig()
	config.Breaks = []model.ScheduledBreak{{Time: "14:00", Title: "Lunch"}}
	state := schedule.NewClockState(at(12, 0, 0))

	for _, now := range []time.Time{at(13, 50, 0), at(13, 55, 0), at(13, 58, 59)} {
		_, ok := schedule.Evaluate(now, state, config, false)
		assert.False(t, ok, "at %s", now.Format("15:04:05"))
	}

	state.Acknowledge("14:00", at(13, 0, 0))
	selection, ok := schedule.Evaluate(at(13, 55, 0), state, config, false)
	require.True(t, ok, "acknowledged breaks do not coast")
	assert.Equal(t, schedule.KindMicroPause, selection.Kind)
}

func TestEvaluate_MinimumGap(t *testing.T) {
	config := testConfig()
	config.Breaks = []model.ScheduledBreak{{Time: "14:00", Title: "Lunch"}}
	now := at(13, 59, 30)

	for _, sinceLast := range []time.Duration{0, time.Second, 10 * time.Minute, 19*time.Minute + 59*time.Second} {
		state := schedule.NewClockState(now.Add(-90 * time.Minute))
		state.LastAnyBreak = now.Add(-sinceLast)

		_, ok := schedule.Evaluate(now, state, config, false)
		assert.False(t, ok, "since last break %s", sinceLast)
	}
}

func TestEvaluate_SleepDetection(t *testing.T) {
	config := testConfig()
	now := at(15, 0, 0)
	state := schedule.NewClockState(now.Add(-121 * time.Minute))

	_, ok := schedule.Evaluate(now, state, config, false)
	assert.False(t, ok)
	assert.Equal(t, now, state.LastEyeRest)
	assert.Equal(t, now, state.LastMicroPause)
	assert.Equal(t, now, state.LastAnyBreak)
}

func TestEvaluate_BackwardClockJump(t *testing.T) {
	config := testConfig()
	now := at(15, 0, 0)
	state := schedule.NewClockState(now.Add(-60 * time.Minute))
	state.LastAnyBreak = now.Add(time.Minute)

	_, ok := schedule.Evaluate(now, state, config, false)
	assert.False(t, ok)
	assert.Equal(t, now, state.LastAnyBreak)
	assert.Equal(t, now, state.LastMicroPause)
}

func TestEvaluate_EyeRestYieldsToImminentMicro(t *testing.T) {
	config := testConfig()
	now := at(11, 0, 0)
	state := schedule.NewClockState(now.Add(-40 * time.Minute))
	state.LastEyeRest = now.Add(-25 * time.Minute)
	state.LastAnyBreak = now.Add(-25 * time.Minute)

	_, ok := schedule.Evaluate(now, state, config, false)
	assert.False(t, ok, "micro is due within the coast margin")

	state.LastMicroPause = now.Add(-30 * time.Minute)
	selection, ok := schedule.Evaluate(now, state, config, false)
	require.True(t, ok)
	assert.Equal(t, schedule.KindEyeRest, selection.Kind)
}

func TestEvaluate_EyeRestWhenMicroSoonThresholdIsZero(t *testing.T) {
	config := testConfig()
	config.MicroPauseInterval = 10 * time.Minute
	config.EyeRestInterval = 5 * time.Minute
	config.MinimumBreakGap = time.Minute
	now := at(11, 0, 0)
	state := schedule.NewClockState(now.Add(-6 * time.Minute))

	selection, ok := schedule.Evaluate(now, state, config, false)
	require.True(t, ok)
	assert.Equal(t, schedule.KindEyeRest, selection.Kind)
}

func TestEvaluate_WorkHours(t *testing.T) {
	config := testConfig()
	config.WorkStart = "08:00"
	config.WorkEnd = "20:00"
	state := schedule.NewClockState(at(19, 0, 0))

	_, ok := schedule.Evaluate(at(20, 0, 0), state, config, false)
	assert.False(t, ok)

	config.WorkEnd = "25:00"
	selection, ok := schedule.Evaluate(at(20, 0, 0), state, config, false)
	require.True(t, ok, "a malformed window never suppresses breaks")
	assert.Equal(t, schedule.KindMicroPause, selection.Kind)
}

func TestEvaluate_SnoozeSuppressesThenClears(t *testing.T) {
	config := testConfig()
	now := at(11, 0, 0)
	state := schedule.NewClockState(now.Add(-50 * time.Minute))
	state.SnoozeUntil = now.Add(5 * time.Minute)

	_, ok := schedule.Evaluate(now, state, config, false)
	assert.False(t, ok)
	assert.False(t, state.SnoozeUntil.IsZero())

	_, ok = schedule.Evaluate(now.Add(5*time.Minute), state, config, false)
	assert.True(t, ok)
	assert.True(t, state.SnoozeUntil.IsZero())
}

func TestEvaluate_MalformedScheduledBreakSkipped(t *testing.T) {
	config := testConfig()
	config.Breaks = []model.ScheduledBreak{
		{Time: "noon", Title: "Broken"},
		{Time: "14:00", Title: "Lunch"},
	}
	now := at(13, 59, 30)
	state := schedule.NewClockState(now.Add(-30 * time.Minute))

	selection, ok := schedule.Evaluate(now, state, config, false)
	require.True(t, ok)
	assert.Equal(t, "Lunch", selection.Break.Title)
}

func TestEvaluate_AcknowledgementIsPerDay(t *testing.T) {
	config := testConfig()
	config.Breaks = []model.ScheduledBreak{{Time: "14:00", Title: "Lunch"}}
	now := at(13, 59, 30)
	state := schedule.NewClockState(now.Add(-30 * time.Minute))
	state.LastEyeRest = now.Add(-time.Minute)

	state.Acknowledge("14:00", now)
	_, ok := schedule.Evaluate(now, state, config, false)
	assert.False(t, ok)

	state.Acknowledge("14:00", now.AddDate(0, 0, -1))
	selection, ok := schedule.Evaluate(now, state, config, false)
	require.True(t, ok, "yesterday's acknowledgement counts as absent")
	assert.Equal(t, schedule.KindScheduled, selection.Kind)
}

func TestEvaluate_ConfiguredOrderWins(t *testing.T) {
	config := testConfig()
	config.Breaks = []model.ScheduledBreak{
		{Time: "14:01", Title: "Later"},
		{Time: "14:00", Title: "Earlier"},
	}
	now := at(14, 0, 10)
	state := schedule.NewClockState(now.Add(-30 * time.Minute))

	selection, ok := schedule.Evaluate(now, state, config, false)
	require.True(t, ok)
	assert.Equal(t, "Later", selection.Break.Title)
}

func TestEvaluate_LowEnergyStretchesIntervals(t *testing.T) {
	config := testConfig()
	now := at(11, 0, 0)
	state := schedule.NewClockState(now.Add(-25 * time.Minute))

	_, ok := schedule.Evaluate(now, state, config, true)
	assert.False(t, ok, "eye rest stretches to 30 minutes")

	selection, ok := schedule.Evaluate(now.Add(5*time.Minute), state, config, true)
	require.True(t, ok)
	assert.Equal(t, schedule.KindEyeRest, selection.Kind)
}

func TestNextScheduled(t *testing.T) {
	config := testConfig()
	config.Breaks = []model.ScheduledBreak{
		{Time: "09:00", Title: "Past"},
		{Time: "15:00", Title: "Afternoon"},
	}
	state := schedule.NewClockState(at(12, 0, 0))

	next, ok := schedule.NextScheduled(at(12, 0, 0), state, config, 24*time.Hour)
	require.True(t, ok)
	assert.Equal(t, "Afternoon", next.Title)

	_, ok = schedule.NextScheduled(at(12, 0, 0), state, config, time.Hour)
	assert.False(t, ok)
}
