package console

import (
	"fmt"
	"io"
	"sync"
	"time"

	"screenbreak/internal/core/schedule"
	"screenbreak/internal/core/timekeeper"
	"screenbreak/internal/core/warning"
)

// Presenter prints breaks and countdowns to a terminal. It satisfies both
// timekeeper.BreakPresenter and timekeeper.WarningPresenter.
type Presenter struct {
	mu  sync.Mutex
	out io.Writer
	// after schedules the eye rest auto-completion.
	after func(d time.Duration, fn func()) func()
}

// NewPresenter creates a presenter writing to out.
func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{
		out: out,
		after: func(d time.Duration, fn func()) func() {
			timer := time.AfterFunc(d, fn)
			return func() { timer.Stop() }
		},
	}
}

func (presenter *Presenter) printf(format string, args ...any) {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	fmt.Fprintf(presenter.out, format, args...)
}

// Show prints the break. Eye rests complete on their own once the duration
// has passed; other breaks wait for done, snooze or skip.
func (presenter *Presenter) Show(request timekeeper.BreakRequest) timekeeper.BreakHandle {
	bell := ""
	if request.Sound {
		bell = "\a"
	}
	presenter.printf("%s== %s (%s) ==\n", bell, request.Title, request.Duration.Round(time.Second))
	if request.Description != "" {
		presenter.printf("   %s\n", request.Description)
	}
	if request.Exercise != "" {
		presenter.printf("   Try: %s\n", request.Exercise)
	}

	handle := &breakHandle{presenter: presenter, title: request.Title}
	if request.Kind == schedule.KindEyeRest && request.Resolve != nil {
		handle.stop = presenter.after(request.Duration, func() { request.Resolve(schedule.OutcomeTaken) })
		if !request.StrictMode {
			presenter.printf("   (skip to end early)\n")
		}
		return handle
	}
	if request.StrictMode {
		presenter.printf("   (done or snooze)\n")
	} else {
		presenter.printf("   (done, snooze or skip)\n")
	}
	return handle
}

type breakHandle struct {
	presenter *Presenter
	title     string
	stop      func()
	once      sync.Once
}

func (handle *breakHandle) Close() {
	handle.once.Do(func() {
		if handle.stop != nil {
			handle.stop()
		}
		handle.presenter.printf("== %s over ==\n", handle.title)
	})
}

// ShowWarning prints the countdown start; Update prints every ten seconds
// and each of the last five.
func (presenter *Presenter) ShowWarning(request timekeeper.BreakRequest, countdown time.Duration, dismiss func()) warning.Display {
	presenter.printf("%s in %s (go to start now)\n", request.Title, countdown.Round(time.Second))
	return &countdownDisplay{presenter: presenter, title: request.Title}
}

type countdownDisplay struct {
	presenter *Presenter
	title     string
}

func (display *countdownDisplay) Update(remaining, total time.Duration) {
	if remaining == total || remaining <= 0 {
		return
	}
	seconds := int(remaining.Round(time.Second) / time.Second)
	if seconds%10 == 0 || seconds <= 5 {
		display.presenter.printf("%s in %ds\n", display.title, seconds)
	}
}

func (display *countdownDisplay) Close() {}

// Closed is always false; a terminal line cannot be destroyed out of band.
func (display *countdownDisplay) Closed() bool {
	return false
}

// WatchEvents prints reminders and notable state changes until events is
// closed.
func (presenter *Presenter) WatchEvents(events <-chan timekeeper.Event) {
	for event := range events {
		if line := describeEvent(event); line != "" {
			presenter.printf("%s\n", line)
		}
	}
}

func describeEvent(event timekeeper.Event) string {
	switch event.Type {
	case timekeeper.EventReminder:
		return fmt.Sprintf("* %s: %s", event.Title, event.Message)
	case timekeeper.EventIdleReset:
		return fmt.Sprintf("Welcome back (%s away)", event.Remaining.Round(time.Second))
	case timekeeper.EventIdleError:
		return "Idle detection: " + event.Message
	case timekeeper.EventLowEnergy:
		return "Low-energy mode " + event.Message
	case timekeeper.EventResolved:
		return fmt.Sprintf("%s %s", event.Title, event.Outcome)
	case timekeeper.EventStateChange:
		switch event.State {
		case timekeeper.StatePaused:
			return "Paused"
		case timekeeper.StateIdle:
			return "Away"
		case timekeeper.StateWork:
			if event.Remaining > 0 {
				return fmt.Sprintf("Resumed after %s", event.Remaining.Round(time.Second))
			}
		}
	}
	return ""
}
