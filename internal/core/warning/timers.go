package warning

import (
	"sort"
	"sync"
	"time"
)

// Cancel stops a timer. It is safe to call more than once.
type Cancel func()

// Timers schedules callbacks. Callbacks run on a timer goroutine.
type Timers interface {
	Every(interval time.Duration, fn func()) Cancel
	After(delay time.Duration, fn func()) Cancel
}

// RealTimers schedules callbacks on the runtime clock.
type RealTimers struct{}

// Every runs fn once per interval until cancelled.
func (RealTimers) Every(interval time.Duration, fn func()) Cancel {
	ticker := time.NewTicker(interval)
	stop := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-stop:
				return
			}
		}
	}()

	return func() {
		once.Do(func() { close(stop) })
	}
}

// After runs fn once after delay unless cancelled first.
func (RealTimers) After(delay time.Duration, fn func()) Cancel {
	timer := time.AfterFunc(delay, fn)
	return func() { timer.Stop() }
}

// ManualTimers is a Timers whose clock only moves on Advance. Callbacks run
// synchronously on the goroutine calling Advance.
type ManualTimers struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	due      time.Duration
	interval time.Duration
	seq      int
	fn       func()
	stopped  bool
}

// NewManualTimers creates a manual clock at zero.
func NewManualTimers() *ManualTimers {
	return &ManualTimers{}
}

func (timers *ManualTimers) Every(interval time.Duration, fn func()) Cancel {
	return timers.add(interval, interval, fn)
}

func (timers *ManualTimers) After(delay time.Duration, fn func()) Cancel {
	return timers.add(delay, 0, fn)
}

func (timers *ManualTimers) add(delay, interval time.Duration, fn func()) Cancel {
	timers.mu.Lock()
	defer timers.mu.Unlock()

	timers.seq++
	entry := &manualTimer{
		due:      timers.now + delay,
		interval: interval,
		seq:      timers.seq,
		fn:       fn,
	}
	timers.pending = append(timers.pending, entry)

	return func() {
		timers.mu.Lock()
		entry.stopped = true
		timers.mu.Unlock()
	}
}

// Advance moves the clock forward by d, firing every timer that comes due in
// order of due time.
func (timers *ManualTimers) Advance(d time.Duration) {
	timers.mu.Lock()
	target := timers.now + d
	timers.mu.Unlock()

	for {
		timers.mu.Lock()
		next := timers.nextLocked(target)
		if next == nil {
			timers.now = target
			timers.mu.Unlock()
			return
		}
		timers.now = next.due
		if next.interval > 0 {
			next.due += next.interval
		} else {
			next.stopped = true
		}
		fn := next.fn
		timers.mu.Unlock()

		fn()
	}
}

// Pending returns the number of live timers.
func (timers *ManualTimers) Pending() int {
	timers.mu.Lock()
	defer timers.mu.Unlock()
	timers.pruneLocked()
	return len(timers.pending)
}

func (timers *ManualTimers) nextLocked(target time.Duration) *manualTimer {
	timers.pruneLocked()
	sort.SliceStable(timers.pending, func(i, j int) bool {
		if timers.pending[i].due != timers.pending[j].due {
			return timers.pending[i].due < timers.pending[j].due
		}
		return timers.pending[i].seq < timers.pending[j].seq
	})
	if len(timers.pending) == 0 || timers.pending[0].due > target {
		return nil
	}
	return timers.pending[0]
}

func (timers *ManualTimers) pruneLocked() {
	live := timers.pending[:0]
	for _, entry := range timers.pending {
		if !entry.stopped {
			live = append(live, entry)
		}
	}
	timers.pending = live
}
