package warning

import (
	"errors"
	"sync"
	"time"
)

const (
	// TickInterval is how often the countdown is decremented and redrawn.
	TickInterval = time.Second
	// DismissGrace delays the action after an early dismiss so the countdown
	// surface can finish tearing down.
	DismissGrace = 100 * time.Millisecond
)

// ErrActive is returned by Begin while another session is running.
var ErrActive = errors.New("warning already active")

// SessionID identifies one countdown cycle. Timer callbacks carry the ID of
// the session that armed them and do nothing once that session is gone.
type SessionID uint64

// Display renders a running countdown.
type Display interface {
	Update(remaining, total time.Duration)
	Close()
	// Closed reports whether the surface was destroyed out of band.
	Closed() bool
}

// OpenFunc creates the countdown surface. dismiss ends the countdown early
// and may be wired to a "start now" control.
type OpenFunc func(dismiss func()) Display

type phase int

const (
	phaseCounting phase = iota
	phaseDismissed
)

type session struct {
	id        SessionID
	total     time.Duration
	remaining time.Duration
	action    func()
	display   Display
	phase     phase
	stopTick  Cancel
}

// Machine runs at most one warning countdown at a time and fires each
// session's action exactly once, unless the session is cancelled or found
// orphaned.
type Machine struct {
	timers Timers

	mu      sync.Mutex
	lastID  SessionID
	current *session
}

// NewMachine creates an idle machine. A nil timers uses RealTimers.
func NewMachine(timers Timers) *Machine {
	if timers == nil {
		timers = RealTimers{}
	}
	return &Machine{timers: timers}
}

// Begin starts a countdown that invokes action when it reaches zero.
func (machine *Machine) Begin(countdown time.Duration, action func(), open OpenFunc) (SessionID, error) {
	machine.mu.Lock()
	if machine.current != nil {
		machine.mu.Unlock()
		return 0, ErrActive
	}
	machine.lastID++
	current := &session{
		id:        machine.lastID,
		total:     countdown,
		remaining: countdown,
		action:    action,
	}
	machine.current = current
	machine.mu.Unlock()

	id := current.id
	var display Display
	if open != nil {
		display = open(func() { machine.Dismiss(id) })
	}

	machine.mu.Lock()
	if machine.current != current {
		// Cancelled while the surface was opening.
		machine.mu.Unlock()
		if display != nil {
			display.Close()
		}
		return id, nil
	}
	current.display = display
	current.stopTick = machine.timers.Every(TickInterval, func() { machine.tick(id) })
	machine.mu.Unlock()

	if display != nil {
		display.Update(countdown, countdown)
	}
	return id, nil
}

func (machine *Machine) tick(id SessionID) {
	machine.mu.Lock()
	current := machine.current
	if current == nil || current.id != id || current.phase != phaseCounting {
		machine.mu.Unlock()
		return
	}

	current.remaining -= TickInterval
	if current.remaining > 0 {
		display, remaining, total := current.display, current.remaining, current.total
		machine.mu.Unlock()
		if display != nil {
			display.Update(remaining, total)
		}
		return
	}

	action, display := machine.finishLocked(current)
	machine.mu.Unlock()

	if display != nil {
		display.Close()
	}
	if action != nil {
		action()
	}
}

// Dismiss ends the countdown early. The action still fires, after
// DismissGrace. It reports false when id is not the running session or the
// session was already dismissed.
func (machine *Machine) Dismiss(id SessionID) bool {
	machine.mu.Lock()
	current := machine.current
	if current == nil || current.id != id || current.phase != phaseCounting {
		machine.mu.Unlock()
		return false
	}
	current.phase = phaseDismissed
	if current.stopTick != nil {
		current.stopTick()
	}
	display := current.display
	machine.mu.Unlock()

	if display != nil {
		display.Close()
	}
	machine.timers.After(DismissGrace, func() { machine.fireDismissed(id) })
	return true
}

func (machine *Machine) fireDismissed(id SessionID) {
	machine.mu.Lock()
	current := machine.current
	if current == nil || current.id != id || current.phase != phaseDismissed {
		machine.mu.Unlock()
		return
	}
	action, _ := machine.finishLocked(current)
	machine.mu.Unlock()

	if action != nil {
		action()
	}
}

// DismissCurrent dismisses whichever session is counting down.
func (machine *Machine) DismissCurrent() bool {
	machine.mu.Lock()
	current := machine.current
	machine.mu.Unlock()
	if current == nil {
		return false
	}
	return machine.Dismiss(current.id)
}

// CheckOrphan clears a session whose surface was destroyed out of band,
// without firing its action. It reports whether it cleared one.
func (machine *Machine) CheckOrphan() bool {
	machine.mu.Lock()
	current := machine.current
	if current == nil || current.phase != phaseCounting || current.display == nil || !current.display.Closed() {
		machine.mu.Unlock()
		return false
	}
	machine.finishLocked(current)
	machine.mu.Unlock()
	return true
}

// Cancel tears down the running session without firing it.
func (machine *Machine) Cancel() bool {
	machine.mu.Lock()
	current := machine.current
	if current == nil {
		machine.mu.Unlock()
		return false
	}
	counting := current.phase == phaseCounting
	_, display := machine.finishLocked(current)
	machine.mu.Unlock()

	if display != nil && counting {
		display.Close()
	}
	return true
}

// Active reports whether a session is running or waiting out its grace delay.
func (machine *Machine) Active() bool {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.current != nil
}

// Remaining returns the countdown left on the running session.
func (machine *Machine) Remaining() (time.Duration, bool) {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	if machine.current == nil {
		return 0, false
	}
	return machine.current.remaining, true
}

func (machine *Machine) finishLocked(current *session) (func(), Display) {
	if current.stopTick != nil {
		current.stopTick()
	}
	machine.current = nil
	action := current.action
	current.action = nil
	return action, current.display
}
