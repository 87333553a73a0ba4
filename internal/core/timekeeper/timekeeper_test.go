package timekeeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenbreak/internal/core/model"
	"screenbreak/internal/core/schedule"
	"screenbreak/internal/core/warning"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Add(d time.Duration) time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(d)
	return clock.now
}

type fakeDisplay struct {
	closed  bool
	gone    bool
	onClose func()
}

func (display *fakeDisplay) Update(time.Duration, time.Duration) {}
func (display *fakeDisplay) Closed() bool                        { return display.gone }

func (display *fakeDisplay) Close() {
	display.closed = true
	if display.onClose != nil {
		display.onClose()
	}
}

type fakeWarnings struct {
	shown    []BreakRequest
	displays []*fakeDisplay
	dismiss  func()
}

func (warnings *fakeWarnings) ShowWarning(request BreakRequest, _ time.Duration, dismiss func()) warning.Display {
	display := &fakeDisplay{}
	warnings.shown = append(warnings.shown, request)
	warnings.displays = append(warnings.displays, display)
	warnings.dismiss = dismiss
	return display
}

type fakeHandle struct{ closed int }

func (handle *fakeHandle) Close() { handle.closed++ }

type fakeBreaks struct {
	shown   []BreakRequest
	handles []*fakeHandle
}

func (breaks *fakeBreaks) Show(request BreakRequest) BreakHandle {
	handle := &fakeHandle{}
	breaks.shown = append(breaks.shown, request)
	breaks.handles = append(breaks.handles, handle)
	return handle
}

func (breaks *fakeBreaks) last() BreakRequest {
	return breaks.shown[len(breaks.shown)-1]
}

type statsRecord struct {
	kind    schedule.BreakKind
	outcome schedule.Outcome
}

type fakeStats struct{ records []statsRecord }

func (stats *fakeStats) RecordBreak(_ context.Context, kind schedule.BreakKind, outcome schedule.Outcome, _ time.Time) error {
	stats.records = append(stats.records, statsRecord{kind, outcome})
	return nil
}

type fakeIdle struct {
	idle time.Duration
	err  error
}

func (idle *fakeIdle) IdleDuration() (time.Duration, error) { return idle.idle, idle.err }

type fakeFullscreen struct{ active bool }

func (fullscreen *fakeFullscreen) FullscreenActive() bool { return fullscreen.active }

type fakeNotifier struct{ titles []string }

func (notifier *fakeNotifier) Notify(title, _ string) error {
	notifier.titles = append(notifier.titles, title)
	return nil
}

type fakeStore struct {
	saved    []schedule.Snapshot
	snapshot schedule.Snapshot
	has      bool
}

func (store *fakeStore) SaveClock(_ context.Context, snapshot schedule.Snapshot) error {
	store.saved = append(store.saved, snapshot)
	return nil
}

func (store *fakeStore) LoadClock(context.Context) (schedule.Snapshot, bool, error) {
	return store.snapshot, store.has, nil
}

type harness struct {
	keeper   *TimeKeeper
	clock    *fakeClock
	timers   *warning.ManualTimers
	warnings *fakeWarnings
	breaks   *fakeBreaks
	stats    *fakeStats
}

func testConfig() model.Config {
	config := model.DefaultConfig()
	config.WorkStart = "00:00"
	config.WorkEnd = "23:59"
	config.Breaks = nil
	return config
}

func newHarness(t *testing.T, config model.Config) *harness {
	t.Helper()
	h := &harness{
		clock:    &fakeClock{now: time.Date(2026, time.March, 10, 10, 0, 0, 0, time.Local)},
		timers:   warning.NewManualTimers(),
		warnings: &fakeWarnings{},
		breaks:   &fakeBreaks{},
		stats:    &fakeStats{},
	}
	h.keeper = New(config, Options{Timers: h.timers, Now: h.clock.Now, Pick: func(int) int { return 0 }})
	h.keeper.SetPresenters(h.breaks, h.warnings)
	h.keeper.SetStatsSink(h.stats)
	return h
}

// advance moves both the wall clock and the timer clock.
func (h *harness) advance(d time.Duration) {
	h.clock.Add(d)
	h.timers.Advance(d)
}

func (h *harness) tickAfter(d time.Duration) {
	h.keeper.tick(h.clock.Add(d))
}

func TestTick_EyeRestWarningThenOverlay(t *testing.T) {
	h := newHarness(t, testConfig())

	h.tickAfter(20*time.Minute + time.Second)
	require.Len(t, h.warnings.shown, 1)
	assert.Equal(t, schedule.KindEyeRest, h.warnings.shown[0].Kind)
	assert.Equal(t, StateWarning, h.keeper.Status().State)

	h.advance(59 * time.Second)
	assert.Empty(t, h.breaks.shown)

	h.advance(time.Second)
	require.Len(t, h.breaks.shown, 1)
	request := h.breaks.last()
	assert.Equal(t, "Eye rest", request.Title)
	assert.NotEmpty(t, request.Exercise)
	assert.Equal(t, StateBreak, h.keeper.Status().State)
	assert.True(t, h.warnings.displays[0].closed)

	h.tickAfter(10 * time.Second)
	assert.Len(t, h.warnings.shown, 1, "no arbitration while a break is up")

	resolvedAt := h.clock.Add(20 * time.Second)
	request.Resolve(schedule.OutcomeTaken)
	request.Resolve(schedule.OutcomeTaken)

	assert.Equal(t, []statsRecord{{schedule.KindEyeRest, schedule.OutcomeTaken}}, h.stats.records)
	assert.Equal(t, resolvedAt, h.keeper.clock.LastEyeRest)
	assert.NotEqual(t, resolvedAt, h.keeper.clock.LastMicroPause)
	assert.Equal(t, 1, h.breaks.handles[0].closed)
	assert.Equal(t, StateWork, h.keeper.Status().State)
}

func TestTick_ScheduledBreakAcknowledged(t *testing.T) {
	config := testConfig()
	config.Breaks = []model.ScheduledBreak{{Time: "10:30", Duration: 15 * time.Minute, Title: "Stretch Break"}}
	h := newHarness(t, config)
	h.keeper.clock.LastEyeRest = h.clock.Now().Add(time.Hour)

	h.tickAfter(29*time.Minute + 30*time.Second)
	require.Len(t, h.warnings.shown, 1)
	assert.Equal(t, "Stretch Break", h.warnings.shown[0].Title)
	assert.Equal(t, model.Describe("Stretch Break", false), h.warnings.shown[0].Description)

	h.advance(30 * time.Second)
	require.Len(t, h.breaks.shown, 1)
	assert.Equal(t, 15*time.Minute, h.breaks.last().Duration)

	require.NoError(t, h.keeper.ResolveActive(schedule.OutcomeSkipped))
	assert.True(t, h.keeper.clock.Acknowledged("10:30", h.clock.Now()))
	assert.Equal(t, []statsRecord{{schedule.KindScheduled, schedule.OutcomeSkipped}}, h.stats.records)
	assert.ErrorIs(t, h.keeper.ResolveActive(schedule.OutcomeTaken), ErrNoOverlay)
}

func TestResolve_SnoozeIsNotRecorded(t *testing.T) {
	h := newHarness(t, testConfig())

	h.tickAfter(46 * time.Minute)
	h.advance(30 * time.Second)
	require.Len(t, h.breaks.shown, 1)
	assert.Equal(t, schedule.KindMicroPause, h.breaks.last().Kind)

	h.breaks.last().Resolve(schedule.OutcomeSnoozed)
	assert.Empty(t, h.stats.records)
	assert.Equal(t, h.clock.Now().Add(5*time.Minute), h.keeper.clock.SnoozeUntil)

	h.tickAfter(4 * time.Minute)
	assert.Len(t, h.warnings.shown, 1)

	h.tickAfter(time.Minute)
	assert.Len(t, h.warnings.shown, 2)
}

func TestDismissWarning_StartsBreakEarly(t *testing.T) {
	h := newHarness(t, testConfig())

	h.tickAfter(21 * time.Minute)
	require.NotNil(t, h.warnings.dismiss)

	h.warnings.dismiss()
	assert.Empty(t, h.breaks.shown)

	h.advance(warning.DismissGrace)
	require.Len(t, h.breaks.shown, 1)
	assert.False(t, h.keeper.DismissWarning())

	h.advance(2 * time.Minute)
	assert.Len(t, h.breaks.shown, 1)
}

func TestTick_NoSecondWarningDuringOverlayHandoff(t *testing.T) {
	h := newHarness(t, testConfig())

	h.tickAfter(20*time.Minute + time.Second)
	require.Len(t, h.warnings.displays, 1)
	// The countdown display closes after the session is cleared and before
	// the break is shown; a tick landing there must stay suspended.
	h.warnings.displays[0].onClose = func() {
		h.tickAfter(10 * time.Second)
	}

	h.advance(time.Minute)
	assert.Len(t, h.warnings.shown, 1)
	require.Len(t, h.breaks.shown, 1)
	assert.Equal(t, StateBreak, h.keeper.Status().State)

	h.breaks.last().Resolve(schedule.OutcomeTaken)
	assert.NoError(t, h.keeper.ForceBreak(schedule.KindMicroPause), "handoff cleared after the break")
}

func TestTick_OrphanedWarningRecovered(t *testing.T) {
	h := newHarness(t, testConfig())

	h.tickAfter(21 * time.Minute)
	require.Len(t, h.warnings.displays, 1)
	h.warnings.displays[0].gone = true

	h.tickAfter(10 * time.Second)
	assert.Len(t, h.warnings.shown, 2, "arbitration resumes on the same tick")

	h.advance(time.Hour)
	assert.Len(t, h.breaks.shown, 1, "the orphaned session never fires")
}

func TestTick_SuspendedWhilePaused(t *testing.T) {
	h := newHarness(t, testConfig())

	require.True(t, h.keeper.Pause())
	assert.False(t, h.keeper.Pause())
	h.tickAfter(3 * time.Hour)
	assert.Empty(t, h.warnings.shown)
	assert.Equal(t, StatePaused, h.keeper.Status().State)

	require.True(t, h.keeper.Resume())
	status := h.keeper.Status()
	assert.Equal(t, 20*time.Minute, status.UntilEyeRest, "pause time is invisible")
}

func TestTick_FocusModeSuppressesInFullscreen(t *testing.T) {
	h := newHarness(t, testConfig())
	fullscreen := &fakeFullscreen{active: true}
	h.keeper.SetFullscreenChecker(fullscreen)

	h.tickAfter(21 * time.Minute)
	assert.Empty(t, h.warnings.shown)
	assert.True(t, h.keeper.Status().Fullscreen)

	fullscreen.active = false
	h.tickAfter(10 * time.Second)
	assert.Len(t, h.warnings.shown, 1)
}

func TestPauseFor_ResumesAutomatically(t *testing.T) {
	h := newHarness(t, testConfig())

	h.keeper.PauseFor(15 * time.Minute)
	assert.True(t, h.keeper.Status().Paused)

	h.advance(15 * time.Minute)
	status := h.keeper.Status()
	assert.False(t, status.Paused)
	assert.Equal(t, 20*time.Minute, status.UntilEyeRest)
}

func TestHandleSleep(t *testing.T) {
	h := newHarness(t, testConfig())

	h.keeper.HandleSleep(true)
	assert.True(t, h.keeper.Status().Paused)
	h.clock.Add(8 * time.Hour)
	h.keeper.HandleSleep(false)
	assert.False(t, h.keeper.Status().Paused)

	h.keeper.Pause()
	h.keeper.HandleSleep(true)
	h.keeper.HandleSleep(false)
	assert.True(t, h.keeper.Status().Paused, "a user pause survives wake")
}

func TestCheckIdle_CreditsBreak(t *testing.T) {
	config := testConfig()
	h := newHarness(t, config)
	idle := &fakeIdle{}
	h.keeper.SetIdleChecker(idle)

	start := h.clock.Now()
	idle.idle = 5 * time.Minute
	h.keeper.checkIdle(h.clock.Add(30 * time.Minute))
	assert.Equal(t, StateIdle, h.keeper.Status().State)

	h.tickAfter(20 * time.Minute)
	assert.Empty(t, h.warnings.shown, "no arbitration while idle")

	idle.idle = 0
	back := h.clock.Add(time.Minute)
	h.keeper.checkIdle(back)

	assert.Equal(t, back, h.keeper.clock.LastEyeRest)
	assert.Equal(t, back, h.keeper.clock.LastMicroPause)
	assert.Equal(t, start.Add(21*time.Minute), h.keeper.clock.LastAnyBreak)
}

func TestCheckIdle_WhilePausedIsNotCredited(t *testing.T) {
	h := newHarness(t, testConfig())
	idle := &fakeIdle{idle: 10 * time.Minute}
	h.keeper.SetIdleChecker(idle)
	start := h.clock.Now()

	h.keeper.checkIdle(h.clock.Add(time.Minute))
	h.keeper.Pause()
	idle.idle = 0
	h.keeper.checkIdle(h.clock.Add(time.Minute))

	assert.False(t, h.keeper.clock.Idle())
	assert.Equal(t, start, h.keeper.clock.LastEyeRest)
}

func TestCheckIdle_UnsupportedDisablesPolling(t *testing.T) {
	h := newHarness(t, testConfig())
	idle := &fakeIdle{err: ErrIdleUnsupported}
	h.keeper.SetIdleChecker(idle)
	events := h.keeper.Subscribe(4)

	h.keeper.checkIdle(h.clock.Now())
	event := <-events
	assert.Equal(t, EventIdleError, event.Type)
	assert.True(t, h.keeper.idleDisabled)

	idle.err = errors.New("transient")
	idle.idle = time.Hour
	h.keeper.checkIdle(h.clock.Now())
	assert.False(t, h.keeper.clock.Idle())
}

func TestForceBreak(t *testing.T) {
	h := newHarness(t, testConfig())

	assert.ErrorIs(t, h.keeper.ForceBreak(schedule.KindScheduled), ErrUnsupportedKind)
	require.NoError(t, h.keeper.ForceBreak(schedule.KindMicroPause))
	assert.ErrorIs(t, h.keeper.ForceBreak(schedule.KindEyeRest), ErrBusy)

	h.advance(schedule.MinCountdown)
	require.Len(t, h.breaks.shown, 1)
	assert.Equal(t, schedule.KindMicroPause, h.breaks.last().Kind)
	assert.ErrorIs(t, h.keeper.ForceBreak(schedule.KindEyeRest), ErrBusy)
}

func TestLowEnergy_StretchesWithoutReset(t *testing.T) {
	h := newHarness(t, testConfig())
	h.clock.Add(10 * time.Minute)

	h.keeper.SetLowEnergy(true)
	assert.True(t, h.keeper.LowEnergy())
	assert.Equal(t, 20*time.Minute, h.keeper.Status().UntilEyeRest)

	h.tickAfter(11 * time.Minute)
	assert.Empty(t, h.warnings.shown)
}

func TestReminders(t *testing.T) {
	config := testConfig()
	config.MiniReminders = true
	config.HydrationTracking = true
	config.EyeRestInterval = 90 * time.Minute
	config.MicroPauseInterval = 90 * time.Minute
	h := newHarness(t, config)
	notifier := &fakeNotifier{}
	h.keeper.SetNotifier(notifier)

	h.tickAfter(9 * time.Minute)
	assert.Empty(t, notifier.titles)

	h.tickAfter(time.Minute)
	assert.Equal(t, []string{model.MiniReminders[0].Title}, notifier.titles)

	h.tickAfter(10 * time.Minute)
	h.tickAfter(10 * time.Minute)
	assert.Equal(t, []string{
		model.MiniReminders[0].Title,
		model.MiniReminders[1].Title,
		model.MiniReminders[2].Title,
		model.HydrationReminder.Title,
	}, notifier.titles)
}

func TestStartStop_PersistsClock(t *testing.T) {
	config := testConfig()
	config.PersistClockState = true
	h := newHarness(t, config)
	now := h.clock.Now()
	store := &fakeStore{has: true, snapshot: schedule.Snapshot{
		SavedAt:        now.Add(-time.Hour),
		LastEyeRest:    now.Add(-15 * time.Minute),
		LastMicroPause: now.Add(-40 * time.Minute),
		LastAnyBreak:   now.Add(-15 * time.Minute),
	}}
	h.keeper.SetClockStore(store)
	events := h.keeper.Subscribe(8)

	h.keeper.Start()
	status := h.keeper.Status()
	assert.Equal(t, 5*time.Minute, status.UntilEyeRest)
	assert.Equal(t, 5*time.Minute, status.UntilMicroPause)

	h.keeper.Stop()
	require.Len(t, store.saved, 1)
	assert.Equal(t, now.Add(-15*time.Minute), store.saved[0].LastEyeRest)

	for range events {
	}
}
