package console

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenbreak/internal/core/model"
	"screenbreak/internal/core/schedule"
	"screenbreak/internal/core/timekeeper"
	"screenbreak/internal/logging"
	"screenbreak/internal/storage/sqlite"
)

type fakeController struct {
	status    timekeeper.Status
	config    model.Config
	paused    bool
	pausedFor time.Duration
	lowEnergy bool
	dismissed bool
	resolved  []schedule.Outcome
	forced    []schedule.BreakKind
	forceErr  error
}

func (c *fakeController) Status() timekeeper.Status { return c.status }

func (c *fakeController) Pause() bool {
	if c.paused {
		return false
	}
	c.paused = true
	return true
}

func (c *fakeController) Resume() bool {
	if !c.paused {
		return false
	}
	c.paused = false
	return true
}

func (c *fakeController) PauseFor(d time.Duration) { c.pausedFor = d }
func (c *fakeController) SetLowEnergy(on bool)     { c.lowEnergy = on }
func (c *fakeController) Config() model.Config     { return c.config }

func (c *fakeController) DismissWarning() bool {
	c.dismissed = true
	return c.status.State == timekeeper.StateWarning
}

func (c *fakeController) ResolveActive(outcome schedule.Outcome) error {
	if c.status.State != timekeeper.StateBreak {
		return timekeeper.ErrNoOverlay
	}
	c.resolved = append(c.resolved, outcome)
	return nil
}

func (c *fakeController) ForceBreak(kind schedule.BreakKind) error {
	if c.forceErr != nil {
		return c.forceErr
	}
	c.forced = append(c.forced, kind)
	return nil
}

type fakeStats struct {
	summary sqlite.Summary
	days    int
}

func (s *fakeStats) Summary(_ context.Context, _ time.Time, days int) (sqlite.Summary, error) {
	s.days = days
	return s.summary, nil
}

func newTestShell() (*Shell, *fakeController, *bytes.Buffer) {
	controller := &fakeController{config: model.DefaultConfig()}
	out := &bytes.Buffer{}
	return NewShell(controller, nil, out), controller, out
}

func TestExecute_PauseResume(t *testing.T) {
	shell, controller, out := newTestShell()

	require.NoError(t, shell.Execute("pause"))
	assert.True(t, controller.paused)
	require.NoError(t, shell.Execute("pause"))
	assert.Contains(t, out.String(), "already paused")

	require.NoError(t, shell.Execute("resume"))
	assert.False(t, controller.paused)
}

func TestExecute_PauseFor(t *testing.T) {
	shell, controller, _ := newTestShell()

	require.NoError(t, shell.Execute("pause-for 15"))
	assert.Equal(t, 15*time.Minute, controller.pausedFor)

	assert.Error(t, shell.Execute("pause-for"))
	assert.Error(t, shell.Execute("pause-for -3"))
}

func TestExecute_LowEnergy(t *testing.T) {
	shell, controller, _ := newTestShell()

	require.NoError(t, shell.Execute("low-energy on"))
	assert.True(t, controller.lowEnergy)
	require.NoError(t, shell.Execute("LOW-ENERGY off"))
	assert.False(t, controller.lowEnergy)
	assert.Error(t, shell.Execute("low-energy maybe"))
}

func TestExecute_ResolveCommands(t *testing.T) {
	shell, controller, _ := newTestShell()

	err := shell.Execute("done")
	assert.EqualError(t, err, "no break is on screen")

	controller.status.State = timekeeper.StateBreak
	require.NoError(t, shell.Execute("done"))
	require.NoError(t, shell.Execute("snooze"))
	require.NoError(t, shell.Execute("skip"))
	assert.Equal(t, []schedule.Outcome{schedule.OutcomeTaken, schedule.OutcomeSnoozed, schedule.OutcomeSkipped}, controller.resolved)
}

func TestExecute_SkipRefusedInStrictMode(t *testing.T) {
	shell, controller, _ := newTestShell()
	controller.status.State = timekeeper.StateBreak
	controller.config.StrictMode = true

	assert.Error(t, shell.Execute("skip"))
	assert.Empty(t, controller.resolved)
}

func TestExecute_GoAndForce(t *testing.T) {
	shell, controller, out := newTestShell()

	require.NoError(t, shell.Execute("go"))
	assert.True(t, controller.dismissed)
	assert.Contains(t, out.String(), "no break is counting down")

	require.NoError(t, shell.Execute("force eye"))
	require.NoError(t, shell.Execute(`force "micro"`))
	assert.Equal(t, []schedule.BreakKind{schedule.KindEyeRest, schedule.KindMicroPause}, controller.forced)

	assert.Error(t, shell.Execute("force scheduled"))

	controller.forceErr = timekeeper.ErrBusy
	err := shell.Execute("force eye")
	assert.True(t, errors.Is(err, timekeeper.ErrBusy))
}

func TestExecute_UnknownAndParseErrors(t *testing.T) {
	shell, _, _ := newTestShell()

	assert.ErrorContains(t, shell.Execute("dance"), "unknown command")
	assert.ErrorContains(t, shell.Execute(`pause "unterminated`), "parse error")
	assert.NoError(t, shell.Execute("   "))
}

func TestExecute_Exit(t *testing.T) {
	shell, _, _ := newTestShell()
	assert.True(t, errors.Is(shell.Execute("exit"), errExit))
	assert.True(t, errors.Is(shell.Execute("quit"), errExit))
}

func TestExecute_Stats(t *testing.T) {
	shell, _, out := newTestShell()
	assert.Error(t, shell.Execute("stats"))

	stats := &fakeStats{summary: sqlite.Summary{
		Today:    map[schedule.BreakKind]sqlite.Counts{schedule.KindEyeRest: {Taken: 3, Skipped: 1}},
		Lifetime: map[schedule.BreakKind]sqlite.Counts{schedule.KindEyeRest: {Taken: 40, Skipped: 2}},
		Streak:   4,
	}}
	shell.stats = stats
	require.NoError(t, shell.Execute("stats"))
	assert.Equal(t, historyDays, stats.days)
	assert.Contains(t, out.String(), "Streak: 4 day(s)")
	assert.Contains(t, out.String(), "3 / 1")
}

func TestExecute_Schedule(t *testing.T) {
	shell, controller, out := newTestShell()
	controller.status.HasNextScheduled = true
	controller.status.NextScheduled = model.ScheduledBreak{Time: "13:30", Title: "Lunch"}

	require.NoError(t, shell.Execute("schedule"))
	assert.Contains(t, out.String(), "Work hours: 8:00 AM - 8:00 PM")
	assert.Contains(t, out.String(), "Eye rest every 20 min")
	assert.Contains(t, out.String(), "Next: Lunch at 1:30 PM")
}

func TestExecute_Log(t *testing.T) {
	shell, _, out := newTestShell()
	previousLevel, previousVerbosity := logging.CurrentLevel(), logging.Verbosity()
	t.Cleanup(func() { logging.SetLevel(previousLevel, previousVerbosity) })

	require.NoError(t, shell.Execute("log -vv"))
	assert.Equal(t, 2, logging.Verbosity())
	require.NoError(t, shell.Execute("log --show"))
	assert.Contains(t, out.String(), "log level:")
	assert.Error(t, shell.Execute("log --level loud"))

	require.NoError(t, shell.Execute("log --level error"))
	assert.Equal(t, logging.LevelError, logging.CurrentLevel())
}
