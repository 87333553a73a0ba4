package timekeeper

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"screenbreak/internal/core/model"
	"screenbreak/internal/core/schedule"
	"screenbreak/internal/core/warning"
	"screenbreak/internal/logging"
)

var (
	// ErrNoOverlay is returned when resolving a break that is not showing.
	ErrNoOverlay = errors.New("no break in progress")
	// ErrBusy is returned when a break is requested while another is pending.
	ErrBusy = errors.New("a break is already pending")
	// ErrUnsupportedKind is returned for breaks that cannot be forced.
	ErrUnsupportedKind = errors.New("unsupported break kind")
)

const storeTimeout = 2 * time.Second

// Options contains runtime collaborators for TimeKeeper.
type Options struct {
	// Timers drives warning countdowns and timed resumes.
	Timers warning.Timers
	// Now overrides the wall clock.
	Now func() time.Time
	// Pick returns a random index in [0, n) for exercise suggestions.
	Pick func(n int) int
}

type overlayRecord struct {
	id      uint64
	request BreakRequest
	key     string
	handle  BreakHandle
}

// TimeKeeper drives the arbitration engine from periodic ticks and owns the
// clock state. All state is guarded by mu; collaborators are always called
// with mu released.
type TimeKeeper struct {
	mu         sync.Mutex
	config     model.Config
	options    Options
	clock      *schedule.ClockState
	machine    *warning.Machine
	lowEnergy  bool
	fullscreen bool

	idleDisabled bool
	overlay      *overlayRecord
	// handoffs counts warnings begun whose break has not reached the
	// overlay yet. It stays raised across the gap between the countdown
	// ending and showBreak taking mu.
	handoffs     int
	lastOverlay  uint64
	pauseTimer   warning.Cancel
	sleepPaused  bool
	reminderSeq  int

	breaks            BreakPresenter
	warnings          WarningPresenter
	idleChecker       IdleChecker
	fullscreenChecker FullscreenChecker
	notifier          Notifier
	stats             StatsSink
	store             ClockStore

	events  []chan Event
	stopCh  chan struct{}
	running bool
}

// New creates a TimeKeeper with the provided configuration.
func New(config model.Config, options Options) *TimeKeeper {
	if options.Timers == nil {
		options.Timers = warning.RealTimers{}
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Pick == nil {
		options.Pick = rand.Intn
	}
	config = withRuntimeDefaults(config)

	return &TimeKeeper{
		config:  config,
		options: options,
		clock:   schedule.NewClockState(options.Now()),
		machine: warning.NewMachine(options.Timers),
		stopCh:  make(chan struct{}),
	}
}

func withRuntimeDefaults(config model.Config) model.Config {
	defaults := model.DefaultConfig()
	if config.TickInterval <= 0 {
		config.TickInterval = defaults.TickInterval
	}
	if config.IdleCheckInterval <= 0 {
		config.IdleCheckInterval = defaults.IdleCheckInterval
	}
	return config
}

// SetPresenters injects the break and warning presenters.
func (keeper *TimeKeeper) SetPresenters(breaks BreakPresenter, warnings WarningPresenter) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.breaks = breaks
	keeper.warnings = warnings
}

// SetIdleChecker injects an idle checker.
func (keeper *TimeKeeper) SetIdleChecker(checker IdleChecker) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.idleChecker = checker
	keeper.idleDisabled = false
}

// SetFullscreenChecker injects a fullscreen probe.
func (keeper *TimeKeeper) SetFullscreenChecker(checker FullscreenChecker) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.fullscreenChecker = checker
}

// SetNotifier injects the notifier used for reminders.
func (keeper *TimeKeeper) SetNotifier(notifier Notifier) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.notifier = notifier
}

// SetStatsSink injects the statistics sink.
func (keeper *TimeKeeper) SetStatsSink(sink StatsSink) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.stats = sink
}

// SetClockStore injects clock persistence. It is only used when the
// configuration enables it.
func (keeper *TimeKeeper) SetClockStore(store ClockStore) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.store = store
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	keeper.events = append(keeper.events, ch)
	keeper.mu.Unlock()
	return ch
}

// Start restores persisted clocks when enabled and launches the tick loop.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	if keeper.running {
		keeper.mu.Unlock()
		return
	}
	keeper.running = true
	keeper.stopCh = make(chan struct{})
	stopCh := keeper.stopCh
	keeper.mu.Unlock()

	keeper.restoreClock()

	keeper.emit(Event{
		Type:  EventStateChange,
		State: StateWork,
		At:    keeper.options.Now(),
	})

	go keeper.run(stopCh)
}

// Stop terminates the tick loop, tears down any warning or break, saves the
// clocks and closes observers.
func (keeper *TimeKeeper) Stop() {
	keeper.mu.Lock()
	if !keeper.running {
		keeper.mu.Unlock()
		return
	}
	close(keeper.stopCh)
	keeper.running = false
	if keeper.pauseTimer != nil {
		keeper.pauseTimer()
		keeper.pauseTimer = nil
	}
	var handle BreakHandle
	if keeper.overlay != nil {
		handle = keeper.overlay.handle
		keeper.overlay = nil
	}
	keeper.mu.Unlock()

	keeper.machine.Cancel()
	keeper.mu.Lock()
	keeper.handoffs = 0
	keeper.mu.Unlock()
	if handle != nil {
		handle.Close()
	}
	keeper.persistClock()

	keeper.mu.Lock()
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (keeper *TimeKeeper) run(stopCh <-chan struct{}) {
	keeper.mu.Lock()
	tickInterval := keeper.config.TickInterval
	idleInterval := keeper.config.IdleCheckInterval
	keeper.mu.Unlock()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	idleTicker := time.NewTicker(idleInterval)
	defer idleTicker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			keeper.tick(keeper.options.Now())
		case <-idleTicker.C:
			keeper.checkIdle(keeper.options.Now())
		}
	}
}

func (keeper *TimeKeeper) tick(now time.Time) {
	keeper.mu.Lock()
	probe := keeper.fullscreenChecker
	keeper.mu.Unlock()

	fullscreen := false
	if probe != nil {
		fullscreen = probe.FullscreenActive()
	}

	if keeper.machine.CheckOrphan() {
		logging.Warnf("warning window vanished; clearing pending break")
		keeper.mu.Lock()
		keeper.endHandoffLocked()
		keeper.mu.Unlock()
		keeper.emit(Event{Type: EventRecovered, State: StateWork, Message: "orphaned warning cleared", At: now})
	}

	keeper.mu.Lock()
	keeper.fullscreen = fullscreen
	if keeper.clock.Rollover(now) {
		logging.Infof("new day %s; scheduled breaks re-armed", schedule.DateOf(now))
	}
	if keeper.suspendedLocked() {
		keeper.mu.Unlock()
		return
	}

	selection, due := schedule.Evaluate(now, keeper.clock, keeper.config, keeper.lowEnergy)
	var request BreakRequest
	if due {
		request = keeper.requestLocked(selection)
	}
	reminders := keeper.dueRemindersLocked(now)
	notifier := keeper.notifier
	progress := Event{
		Type:      EventProgress,
		State:     StateWork,
		Remaining: keeper.nextBreakLocked(now),
		At:        now,
	}
	keeper.emitLocked(progress)
	keeper.mu.Unlock()

	for _, reminder := range reminders {
		keeper.deliverReminder(notifier, reminder, now)
	}
	if due {
		keeper.beginWarning(selection, request, now)
	}
}

func (keeper *TimeKeeper) suspendedLocked() bool {
	return keeper.clock.Paused() ||
		keeper.clock.Idle() ||
		keeper.overlay != nil ||
		keeper.handoffs > 0 ||
		keeper.machine.Active() ||
		(keeper.config.FocusMode && keeper.fullscreen)
}

func (keeper *TimeKeeper) requestLocked(selection schedule.Selection) BreakRequest {
	request := BreakRequest{
		Kind:       selection.Kind,
		Snooze:     keeper.config.SnoozeDuration,
		StrictMode: keeper.config.StrictMode,
		LowEnergy:  keeper.lowEnergy,
		CatchUp:    selection.CatchUp,
		Sound:      keeper.config.SoundEnabled,
	}
	switch selection.Kind {
	case schedule.KindScheduled:
		request.Title = selection.Break.Title
		request.Duration = selection.Break.Duration
		request.Description = model.Describe(selection.Break.Title, keeper.lowEnergy)
		request.Exercise = model.Exercise(model.ExerciseMove, keeper.options.Pick)
	case schedule.KindMicroPause:
		request.Title = "Micro-pause"
		request.Duration = keeper.config.MicroPauseDuration
		request.Description = "Stand up and move for a few minutes."
		request.Exercise = model.Exercise(model.ExerciseStretch, keeper.options.Pick)
	case schedule.KindEyeRest:
		request.Title = "Eye rest"
		request.Duration = keeper.config.EyeRestDuration
		request.Description = "Look at something far away."
		request.Exercise = model.Exercise(model.ExerciseEye, keeper.options.Pick)
	}
	return request
}

func (keeper *TimeKeeper) beginWarning(selection schedule.Selection, request BreakRequest, now time.Time) {
	keeper.mu.Lock()
	presenter := keeper.warnings
	keeper.handoffs++
	keeper.mu.Unlock()

	key := selection.Key()
	action := func() { keeper.showBreak(request, key) }
	open := func(dismiss func()) warning.Display {
		if presenter == nil {
			return nil
		}
		return presenter.ShowWarning(request, selection.Countdown, dismiss)
	}

	if _, err := keeper.machine.Begin(selection.Countdown, action, open); err != nil {
		logging.Debugf("skip warning for %s: %v", selection.Kind, err)
		keeper.mu.Lock()
		keeper.endHandoffLocked()
		keeper.mu.Unlock()
		return
	}
	logging.Infof("%s break in %s", selection.Kind, selection.Countdown)
	keeper.emit(Event{
		Type:      EventWarning,
		State:     StateWarning,
		Kind:      selection.Kind,
		Title:     request.Title,
		Remaining: selection.Countdown,
		At:        now,
	})
}

func (keeper *TimeKeeper) showBreak(request BreakRequest, key string) {
	keeper.mu.Lock()
	keeper.endHandoffLocked()
	if keeper.overlay != nil || keeper.stopped() {
		keeper.mu.Unlock()
		return
	}
	keeper.lastOverlay++
	record := &overlayRecord{id: keeper.lastOverlay, key: key}
	id := record.id
	request.Resolve = func(outcome schedule.Outcome) {
		if err := keeper.resolve(id, outcome); err != nil {
			logging.Debugf("resolve %s: %v", outcome, err)
		}
	}
	record.request = request
	keeper.overlay = record
	presenter := keeper.breaks
	keeper.emitLocked(Event{
		Type:      EventBreak,
		State:     StateBreak,
		Kind:      request.Kind,
		Title:     request.Title,
		Remaining: request.Duration,
		At:        keeper.options.Now(),
	})
	keeper.mu.Unlock()

	if presenter == nil {
		return
	}
	handle := presenter.Show(request)
	if handle == nil {
		return
	}

	keeper.mu.Lock()
	current := keeper.overlay == record
	if current {
		record.handle = handle
	}
	keeper.mu.Unlock()
	if !current {
		handle.Close()
	}
}

func (keeper *TimeKeeper) endHandoffLocked() {
	if keeper.handoffs > 0 {
		keeper.handoffs--
	}
}

// stopped reports whether Stop has run. Callers hold mu.
func (keeper *TimeKeeper) stopped() bool {
	select {
	case <-keeper.stopCh:
		return true
	default:
		return false
	}
}

func (keeper *TimeKeeper) resolve(id uint64, outcome schedule.Outcome) error {
	now := keeper.options.Now()

	keeper.mu.Lock()
	record := keeper.overlay
	if record == nil || record.id != id {
		keeper.mu.Unlock()
		return ErrNoOverlay
	}
	keeper.overlay = nil
	keeper.clock.Resolve(record.request.Kind, record.key, outcome, now, keeper.config.SnoozeDuration)
	stats := keeper.stats
	keeper.emitLocked(Event{
		Type:    EventResolved,
		State:   StateWork,
		Kind:    record.request.Kind,
		Outcome: outcome,
		Title:   record.request.Title,
		At:      now,
	})
	keeper.mu.Unlock()

	if record.handle != nil {
		record.handle.Close()
	}
	logging.Infof("%s break %s", record.request.Kind, outcome)

	if outcome != schedule.OutcomeSnoozed && stats != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		if err := stats.RecordBreak(ctx, record.request.Kind, outcome, now); err != nil {
			logging.Warnf("record break: %v", err)
		}
		cancel()
	}
	keeper.persistClock()
	return nil
}

// ResolveActive resolves the break currently on screen.
func (keeper *TimeKeeper) ResolveActive(outcome schedule.Outcome) error {
	keeper.mu.Lock()
	record := keeper.overlay
	keeper.mu.Unlock()
	if record == nil {
		return ErrNoOverlay
	}
	return keeper.resolve(record.id, outcome)
}

// DismissWarning starts the pending break immediately.
func (keeper *TimeKeeper) DismissWarning() bool {
	return keeper.machine.DismissCurrent()
}

func (keeper *TimeKeeper) checkIdle(now time.Time) {
	keeper.mu.Lock()
	checker := keeper.idleChecker
	enabled := keeper.config.IdleDetection && !keeper.idleDisabled && checker != nil
	keeper.mu.Unlock()
	if !enabled {
		return
	}

	idle, err := checker.IdleDuration()
	if err != nil {
		keeper.emit(Event{Type: EventIdleError, Message: err.Error(), At: now})
		if errors.Is(err, ErrIdleUnsupported) {
			logging.Warnf("idle detection disabled: %v", err)
			keeper.mu.Lock()
			keeper.idleDisabled = true
			keeper.mu.Unlock()
			return
		}
		logging.Debugf("idle probe: %v", err)
		idle = 0
	}

	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	threshold := keeper.config.IdleThreshold
	switch {
	case idle >= threshold && !keeper.clock.Idle():
		keeper.clock.BeginIdle(now)
		logging.Debugf("idle for %s", idle.Round(time.Second))
		keeper.emitLocked(Event{Type: EventStateChange, State: StateIdle, At: now})
	case idle < threshold && keeper.clock.Idle():
		if keeper.clock.Paused() {
			keeper.clock.ClearIdle()
			keeper.emitLocked(Event{Type: EventStateChange, State: StatePaused, At: now})
			return
		}
		credited := keeper.clock.EndIdle(now, threshold)
		logging.Infof("back after %s idle", credited.Round(time.Second))
		keeper.emitLocked(Event{
			Type:      EventIdleReset,
			State:     StateWork,
			Remaining: credited,
			Message:   "idle credited",
			At:        now,
		})
	}
}

func (keeper *TimeKeeper) dueRemindersLocked(now time.Time) []model.Reminder {
	if !schedule.InWorkHours(now, keeper.config.WorkStart, keeper.config.WorkEnd) {
		return nil
	}
	var due []model.Reminder
	if keeper.config.MiniReminders && keeper.config.MiniReminderInterval > 0 &&
		now.Sub(keeper.clock.LastMiniReminder) >= keeper.config.MiniReminderInterval {
		due = append(due, model.MiniReminders[keeper.reminderSeq%len(model.MiniReminders)])
		keeper.reminderSeq++
		keeper.clock.LastMiniReminder = now
	}
	if keeper.config.HydrationTracking && keeper.config.HydrationInterval > 0 &&
		now.Sub(keeper.clock.LastHydration) >= keeper.config.HydrationInterval {
		due = append(due, model.HydrationReminder)
		keeper.clock.LastHydration = now
	}
	return due
}

func (keeper *TimeKeeper) deliverReminder(notifier Notifier, reminder model.Reminder, now time.Time) {
	keeper.emit(Event{Type: EventReminder, Title: reminder.Title, Message: reminder.Body, At: now})
	if notifier == nil {
		return
	}
	if err := notifier.Notify(reminder.Title, reminder.Body); err != nil {
		logging.Debugf("notify %q: %v", reminder.Title, err)
	}
}

// nextBreakLocked returns the time until the nearer interval break.
func (keeper *TimeKeeper) nextBreakLocked(now time.Time) time.Duration {
	eye, micro := keeper.untilIntervalsLocked(now)
	if micro < eye {
		return micro
	}
	return eye
}

func (keeper *TimeKeeper) untilIntervalsLocked(now time.Time) (time.Duration, time.Duration) {
	if keeper.clock.Paused() {
		now = keeper.clock.PauseStarted
	}
	until := func(last time.Time, interval time.Duration) time.Duration {
		remaining := interval - now.Sub(last)
		if remaining < 0 {
			return 0
		}
		return remaining
	}
	eye := until(keeper.clock.LastEyeRest, schedule.EffectiveEyeInterval(keeper.config, keeper.lowEnergy))
	micro := until(keeper.clock.LastMicroPause, schedule.EffectiveMicroInterval(keeper.config, keeper.lowEnergy))
	return eye, micro
}

func (keeper *TimeKeeper) restoreClock() {
	keeper.mu.Lock()
	store := keeper.store
	enabled := keeper.config.PersistClockState
	keeper.mu.Unlock()
	if store == nil || !enabled {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	snapshot, ok, err := store.LoadClock(ctx)
	if err != nil {
		logging.Warnf("load clock state: %v", err)
		return
	}
	if !ok {
		return
	}

	keeper.mu.Lock()
	keeper.clock.Restore(snapshot, keeper.options.Now())
	keeper.mu.Unlock()
	logging.Infof("restored clock state saved %s", snapshot.SavedAt.Format(time.RFC3339))
}

func (keeper *TimeKeeper) persistClock() {
	now := keeper.options.Now()
	keeper.mu.Lock()
	store := keeper.store
	enabled := keeper.config.PersistClockState
	snapshot := keeper.clock.Snapshot(now)
	keeper.mu.Unlock()
	if store == nil || !enabled {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := store.SaveClock(ctx, snapshot); err != nil {
		logging.Warnf("save clock state: %v", err)
	}
}

func (keeper *TimeKeeper) emit(event Event) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.emitLocked(event)
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	events := append([]chan Event(nil), keeper.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}
