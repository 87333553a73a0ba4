package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"screenbreak/internal/core/timekeeper"
)

const menuTitle = "screenbreak"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnPreferences     func()
	OnTogglePause     func()
	OnPauseFor        func(time.Duration)
	OnToggleLowEnergy func()
	OnMicroNow        func()
	OnSkipBreak       func()
	OnQuit            func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	preferences *fyne.MenuItem
	pauseItem   *fyne.MenuItem
	pauseFor    *fyne.MenuItem
	lowEnergy   *fyne.MenuItem
	microNow    *fyne.MenuItem
	skipItem    *fyne.MenuItem
	quit        *fyne.MenuItem
	callbacks   Callbacks
	paused      bool
	inBreak     bool
	strict      bool
	statusLabel string
}

var pauseDurations = []time.Duration{5 * time.Minute, 15 * time.Minute, 30 * time.Minute, 60 * time.Minute}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.preferences = fyne.NewMenuItem("Preferences", func() {
		if manager.callbacks.OnPreferences != nil {
			manager.callbacks.OnPreferences()
		}
	})

	manager.pauseFor = fyne.NewMenuItem("Pause for...", nil)
	var durations []*fyne.MenuItem
	for _, duration := range pauseDurations {
		duration := duration
		durations = append(durations, fyne.NewMenuItem(fmt.Sprintf("%d minutes", int(duration.Minutes())), func() {
			if manager.callbacks.OnPauseFor != nil {
				manager.callbacks.OnPauseFor(duration)
			}
		}))
	}
	manager.pauseFor.ChildMenu = fyne.NewMenu("", durations...)

	manager.pauseItem = fyne.NewMenuItem("Pause", func() {
		if manager.callbacks.OnTogglePause != nil {
			manager.callbacks.OnTogglePause()
		}
	})

	manager.lowEnergy = fyne.NewMenuItem("Low-energy mode", func() {
		if manager.callbacks.OnToggleLowEnergy != nil {
			manager.callbacks.OnToggleLowEnergy()
		}
	})

	manager.microNow = fyne.NewMenuItem("Take a micro-pause now", func() {
		if manager.callbacks.OnMicroNow != nil {
			manager.callbacks.OnMicroNow()
		}
	})

	manager.skipItem = fyne.NewMenuItem("Skip break", func() {
		if manager.callbacks.OnSkipBreak != nil {
			manager.callbacks.OnSkipBreak()
		}
	})
	manager.skipItem.Disabled = true

	manager.quit = fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})
	manager.quit.IsQuit = true

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status line from a scheduler snapshot.
func (manager *Manager) SetStatus(status timekeeper.Status) {
	manager.statusLabel = StatusLine(status)
	manager.paused = status.Paused
	manager.inBreak = status.State == timekeeper.StateBreak
	manager.lowEnergy.Checked = status.LowEnergy
	manager.skipItem.Disabled = !manager.inBreak || manager.strict
	manager.microNow.Disabled = status.State == timekeeper.StateBreak || status.State == timekeeper.StateWarning
	if manager.paused {
		manager.pauseItem.Label = "Resume"
	} else {
		manager.pauseItem.Label = "Pause"
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", manager.statusLabel)
	manager.refreshMenu()
}

// SetStrictMode hides the skip entry while strict mode is on.
func (manager *Manager) SetStrictMode(strict bool) {
	manager.strict = strict
	manager.skipItem.Disabled = !manager.inBreak || strict
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.pauseItem,
		manager.pauseFor,
		manager.lowEnergy,
		manager.microNow,
		manager.skipItem,
		fyne.NewMenuItemSeparator(),
		manager.preferences,
		manager.quit,
	))
}

// StatusLine renders the one-line tray status.
func StatusLine(status timekeeper.Status) string {
	switch status.State {
	case timekeeper.StateBreak:
		return fmt.Sprintf("on break (%s)", status.ActiveBreak)
	case timekeeper.StateWarning:
		return fmt.Sprintf("break in %s", formatRemaining(status.WarningRemaining))
	case timekeeper.StatePaused:
		return "paused"
	case timekeeper.StateIdle:
		return "away"
	}
	if !status.InWorkHours {
		return "outside work hours"
	}
	next := status.UntilEyeRest
	if status.UntilMicroPause < next {
		next = status.UntilMicroPause
	}
	line := "next break in " + formatRemaining(next)
	if status.LowEnergy {
		line += " (low energy)"
	}
	return line
}

func formatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
