package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"screenbreak/internal/core/model"
	"screenbreak/internal/core/timekeeper"
	"screenbreak/internal/logging"
	"screenbreak/internal/platform"
	"screenbreak/internal/storage"
	"screenbreak/internal/storage/sqlite"
)

// environment holds what every subcommand resolves before doing its work.
type environment struct {
	service      platform.Service
	settingsPath string
	config       model.Config
	store        *sqlite.Store

	// loadErr is set when the settings file exists but could not be read.
	loadErr error
}

func loadEnvironment(withStore bool) (*environment, error) {
	service := platform.NewService()
	appDir, err := platform.AppDir(service, appName)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	env := &environment{service: service, settingsPath: cfgPath}
	if env.settingsPath == "" {
		env.settingsPath = storage.SettingsPath(appDir)
	}

	config, err := storage.LoadSettings(env.settingsPath)
	if err != nil {
		logging.Warnf("using default settings: %v", err)
		env.loadErr = err
	}
	env.config = config
	logging.Debugf("settings from %s", env.settingsPath)

	if withStore {
		store := sqlite.New(sqlite.Path(appDir))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Init(ctx); err != nil {
			return nil, fmt.Errorf("open statistics: %w", err)
		}
		env.store = store
	}
	return env, nil
}

// saveSettings writes config, first moving an unreadable settings file
// aside so its contents are not lost.
func (env *environment) saveSettings(config model.Config) error {
	if env.loadErr != nil {
		backup, err := storage.BackupSettings(env.settingsPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("settings file could not be read and was not overwritten: %w", err)
		}
		if err == nil {
			logging.Warnf("unreadable settings moved to %s", backup)
		}
		env.loadErr = nil
	}
	return storage.SaveSettings(env.settingsPath, config)
}

func (env *environment) Close() {
	if env.store == nil {
		return
	}
	if err := env.store.Close(); err != nil {
		logging.Warnf("close statistics: %v", err)
	}
}

// newKeeper wires the time keeper to the platform probes and the store.
func (env *environment) newKeeper() *timekeeper.TimeKeeper {
	keeper := timekeeper.New(env.config, timekeeper.Options{})
	keeper.SetIdleChecker(platform.NewIdleProvider())
	keeper.SetFullscreenChecker(platform.NewFullscreenDetector())
	keeper.SetNotifier(platform.NewNotifier(appName))
	if env.store != nil {
		keeper.SetStatsSink(env.store)
		keeper.SetClockStore(env.store)
	}
	return keeper
}

// watchSleep pauses keeper across system suspend until ctx is done.
func watchSleep(ctx context.Context, keeper *timekeeper.TimeKeeper) {
	go func() {
		if err := platform.WatchSleep(ctx, keeper.HandleSleep); err != nil {
			logging.Debugf("suspend watcher: %v", err)
		}
	}()
}
