package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cobra"

	"screenbreak/internal/core/schedule"
	"screenbreak/internal/core/timekeeper"
	"screenbreak/internal/logging"
	"screenbreak/internal/platform"
	"screenbreak/internal/ui/countdown"
	"screenbreak/internal/ui/overlay"
	"screenbreak/internal/ui/preferences"
	"screenbreak/internal/ui/tray"
	"screenbreak/resources"
)

const (
	appID = "io.screenbreak.app"

	prefOverlayOpacity = "overlay_opacity"
	prefFullscreen     = "overlay_fullscreen"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the tray application",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI()
		},
	}
}

func runGUI() error {
	guard, err := platform.AcquireSingleInstance(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		logging.Infof("already running, asking the other instance to show itself")
		return platform.SignalRunningInstance(appName)
	}
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	env, err := loadEnvironment(true)
	if err != nil {
		return err
	}
	defer env.Close()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.IconActive))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform")
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("screenbreak is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	keeper := env.newKeeper()

	startAtLogin, err := env.service.AutostartEnabled(appName)
	if err != nil {
		logging.Warnf("read autostart state: %v", err)
	}
	settings := preferences.FromConfig(env.config, startAtLogin)
	settings.OverlayOpacity = fyneApp.Preferences().FloatWithFallback(prefOverlayOpacity, preferences.DefaultOverlayOpacity)
	settings.Fullscreen = fyneApp.Preferences().BoolWithFallback(prefFullscreen, preferences.DefaultFullscreen)

	overlayPresenter := overlay.New(fyneApp, overlayConfig(settings))
	keeper.SetPresenters(overlayPresenter, countdown.New(fyneApp))

	var trayManager *tray.Manager
	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) error {
		config := updated.Apply(keeper.Config())
		if err := env.saveSettings(config); err != nil {
			return err
		}
		keeper.UpdateConfig(config)
		overlayPresenter.UpdateConfig(overlayConfig(updated))
		fyneApp.Preferences().SetFloat(prefOverlayOpacity, updated.OverlayOpacity)
		fyneApp.Preferences().SetBool(prefFullscreen, updated.Fullscreen)
		trayManager.SetStrictMode(config.StrictMode)

		if updated.StartAtLogin != settings.StartAtLogin {
			if err := setAutostart(env.service, updated.StartAtLogin); err != nil {
				return err
			}
		}
		settings = updated
		return nil
	})

	guard.OnActivate(func() {
		fyne.Do(prefsWindow.Show)
	})

	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnPreferences: prefsWindow.Show,
		OnTogglePause: func() {
			if !keeper.Pause() {
				keeper.Resume()
			}
		},
		OnPauseFor: keeper.PauseFor,
		OnToggleLowEnergy: func() {
			keeper.SetLowEnergy(!keeper.LowEnergy())
		},
		OnMicroNow: func() {
			if err := keeper.ForceBreak(schedule.KindMicroPause); err != nil {
				logging.Warnf("force micro-pause: %v", err)
			}
		},
		OnSkipBreak: func() {
			go func() {
				if err := keeper.ResolveActive(schedule.OutcomeSkipped); err != nil {
					logging.Warnf("skip break: %v", err)
				}
			}()
		},
		OnQuit: func() {
			keeper.Stop()
			fyneApp.Quit()
		},
	})
	trayManager.SetStrictMode(env.config.StrictMode)
	desktopApp.SetSystemTrayIcon(resources.MustIcon(resources.IconActive))

	events := keeper.Subscribe(16)
	go followEvents(events, keeper, desktopApp, trayManager)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchSleep(ctx, keeper)

	keeper.Start()
	defer keeper.Stop()
	logging.Infof("started, settings at %s", env.settingsPath)

	fyneApp.Run()
	return nil
}

// followEvents keeps the tray in step with the scheduler until events closes.
func followEvents(events <-chan timekeeper.Event, keeper *timekeeper.TimeKeeper, desktopApp desktop.App, trayManager *tray.Manager) {
	current := resources.IconActive
	for event := range events {
		switch event.Type {
		case timekeeper.EventIdleError:
			logging.Warnf("idle detection: %s", event.Message)
		case timekeeper.EventRecovered:
			logging.Warnf("scheduler recovered: %s", event.Message)
		}

		status := keeper.Status()
		icon := iconFor(status)
		changed := icon != current
		current = icon
		fyne.Do(func() {
			trayManager.SetStatus(status)
			if changed {
				desktopApp.SetSystemTrayIcon(resources.MustIcon(icon))
			}
		})
	}
}

func iconFor(status timekeeper.Status) resources.IconState {
	switch status.State {
	case timekeeper.StateBreak, timekeeper.StateWarning:
		return resources.IconBreak
	case timekeeper.StatePaused, timekeeper.StateIdle:
		return resources.IconPaused
	default:
		return resources.IconActive
	}
}

func overlayConfig(settings preferences.Settings) overlay.Config {
	return overlay.Config{
		Opacity:    preferences.OpacityToAlpha(settings.OverlayOpacity),
		Fullscreen: settings.Fullscreen,
	}
}

func setAutostart(service platform.Service, enabled bool) error {
	if !enabled {
		return service.DisableAutostart(appName)
	}
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	return service.EnableAutostart(appName, execPath)
}
