package storage

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"screenbreak/internal/core/model"
	"screenbreak/internal/core/schedule"
	"screenbreak/internal/logging"
)

const settingsFileName = "settings.yaml"

type fileBreak struct {
	Time     string  `yaml:"time" toml:"time"`
	Duration float64 `yaml:"duration" toml:"duration"`
	Title    string  `yaml:"title" toml:"title"`
}

// fileSettings mirrors the on-disk layout. Pointers distinguish a missing key
// from a zero value so absent keys keep their defaults.
type fileSettings struct {
	EyeRestInterval     *float64 `yaml:"eye_rest_interval,omitempty" toml:"eye_rest_interval,omitempty"`
	MicroPauseInterval  *float64 `yaml:"micro_pause_interval,omitempty" toml:"micro_pause_interval,omitempty"`
	MinimumBreakGap     *float64 `yaml:"minimum_break_gap,omitempty" toml:"minimum_break_gap,omitempty"`
	WarningSeconds      *float64 `yaml:"warning_seconds,omitempty" toml:"warning_seconds,omitempty"`
	SnoozeMinutes       *float64 `yaml:"snooze_minutes,omitempty" toml:"snooze_minutes,omitempty"`
	EyeRestDuration     *float64 `yaml:"eye_rest_duration,omitempty" toml:"eye_rest_duration,omitempty"`
	MicroPauseDuration  *float64 `yaml:"micro_pause_duration,omitempty" toml:"micro_pause_duration,omitempty"`
	LowEnergyMultiplier *float64 `yaml:"low_energy_multiplier,omitempty" toml:"low_energy_multiplier,omitempty"`
	CoastMarginMinutes  *float64 `yaml:"coast_margin_minutes,omitempty" toml:"coast_margin_minutes,omitempty"`

	WorkStart string      `yaml:"work_start,omitempty" toml:"work_start,omitempty"`
	WorkEnd   string      `yaml:"work_end,omitempty" toml:"work_end,omitempty"`
	Breaks    []fileBreak `yaml:"breaks" toml:"breaks"`

	IdleDetection *bool    `yaml:"idle_detection,omitempty" toml:"idle_detection,omitempty"`
	IdleThreshold *float64 `yaml:"idle_threshold,omitempty" toml:"idle_threshold,omitempty"`

	SoundEnabled *bool `yaml:"sound_enabled,omitempty" toml:"sound_enabled,omitempty"`
	StrictMode   *bool `yaml:"strict_mode,omitempty" toml:"strict_mode,omitempty"`
	PomodoroMode *bool `yaml:"pomodoro_mode,omitempty" toml:"pomodoro_mode,omitempty"`
	FocusMode    *bool `yaml:"focus_mode,omitempty" toml:"focus_mode,omitempty"`

	MiniReminders        *bool    `yaml:"mini_reminders,omitempty" toml:"mini_reminders,omitempty"`
	MiniReminderInterval *float64 `yaml:"mini_reminder_interval,omitempty" toml:"mini_reminder_interval,omitempty"`
	HydrationTracking    *bool    `yaml:"hydration_tracking,omitempty" toml:"hydration_tracking,omitempty"`
	HydrationInterval    *float64 `yaml:"hydration_reminder_interval,omitempty" toml:"hydration_reminder_interval,omitempty"`

	PersistClockState *bool `yaml:"persist_clock_state,omitempty" toml:"persist_clock_state,omitempty"`
}

// SettingsPath returns the settings file inside appDir.
func SettingsPath(appDir string) string {
	return filepath.Join(appDir, settingsFileName)
}

// LoadSettings reads the configuration at path. A .toml extension selects
// TOML, anything else YAML. If the file does not exist, defaults are
// returned. Out-of-range values fall back to their defaults.
func LoadSettings(path string) (model.Config, error) {
	config := model.DefaultConfig()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("read settings file: %w", err)
	}

	fileData, err := decodeSettings(rawData, codecFor(path))
	if err != nil {
		return config, err
	}

	applyFileSettings(&config, fileData)
	return config, nil
}

// BackupSettings moves an unreadable settings file aside so a later save
// does not overwrite what the user wrote. It returns the backup path.
func BackupSettings(path string) (string, error) {
	backup := path + ".broken"
	if err := os.Rename(path, backup); err != nil {
		return "", fmt.Errorf("back up settings file: %w", err)
	}
	return backup, nil
}

type codec struct {
	name      string
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

func codecFor(path string) codec {
	if isTOML(path) {
		return codec{name: "toml", marshal: toml.Marshal, unmarshal: toml.Unmarshal}
	}
	return codec{name: "yaml", marshal: yaml.Marshal, unmarshal: yaml.Unmarshal}
}

// decodeSettings decodes the document one key at a time, so a value of the
// wrong type costs only that key. Only a document that does not parse at
// all is an error.
func decodeSettings(rawData []byte, format codec) (fileSettings, error) {
	var document map[string]any
	if err := format.unmarshal(rawData, &document); err != nil {
		return fileSettings{}, fmt.Errorf("parse settings %s: %w", format.name, err)
	}

	keys := make([]string, 0, len(document))
	for key := range document {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var fileData fileSettings
	for _, key := range keys {
		if key == "breaks" {
			fileData.Breaks = decodeBreaks(document[key], format)
			continue
		}
		fragment, err := format.marshal(map[string]any{key: document[key]})
		if err != nil {
			logging.Warnf("settings: %s: %v; using default", key, err)
			continue
		}
		var scratch fileSettings
		if err := format.unmarshal(fragment, &scratch); err != nil {
			logging.Warnf("settings: %s=%v: %v; using default", key, document[key], err)
			continue
		}
		if err := format.unmarshal(fragment, &fileData); err != nil {
			logging.Warnf("settings: %s: %v; using default", key, err)
		}
	}
	return fileData, nil
}

// decodeBreaks keeps every entry that decodes and drops the rest.
func decodeBreaks(value any, format codec) []fileBreak {
	items, ok := value.([]any)
	if !ok {
		if value != nil {
			logging.Warnf("settings: breaks is not a list; using defaults")
		}
		return nil
	}

	breaks := make([]fileBreak, 0, len(items))
	for index, item := range items {
		fragment, err := format.marshal(map[string]any{"breaks": []any{item}})
		if err != nil {
			logging.Warnf("settings: dropping break #%d: %v", index+1, err)
			continue
		}
		var scratch fileSettings
		if err := format.unmarshal(fragment, &scratch); err != nil || len(scratch.Breaks) != 1 {
			logging.Warnf("settings: dropping break #%d: %v", index+1, err)
			continue
		}
		breaks = append(breaks, scratch.Breaks[0])
	}
	return breaks
}

// SaveSettings writes the configuration to path in the format its
// extension selects.
func SaveSettings(path string, config model.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := toFileSettings(config)
	var (
		serialized []byte
		err        error
	)
	if isTOML(path) {
		serialized, err = toml.Marshal(fileData)
		if err != nil {
			return fmt.Errorf("marshal settings toml: %w", err)
		}
	} else {
		serialized, err = yaml.Marshal(fileData)
		if err != nil {
			return fmt.Errorf("marshal settings yaml: %w", err)
		}
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Upper bounds, in each rule's unit. Larger values are clamped so the
// conversion to time.Duration cannot overflow.
const (
	maxMinutes    = 24 * 60
	maxSeconds    = 24 * 60 * 60
	maxMultiplier = 10.0
)

type numericRule struct {
	name   string
	value  *float64
	min    float64
	max    float64
	unit   time.Duration
	target *time.Duration
}

func finite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

func applyFileSettings(config *model.Config, fileData fileSettings) {
	rules := []numericRule{
		{"eye_rest_interval", fileData.EyeRestInterval, 1, maxMinutes, time.Minute, &config.EyeRestInterval},
		{"micro_pause_interval", fileData.MicroPauseInterval, 1, maxMinutes, time.Minute, &config.MicroPauseInterval},
		{"minimum_break_gap", fileData.MinimumBreakGap, 1, maxMinutes, time.Minute, &config.MinimumBreakGap},
		{"warning_seconds", fileData.WarningSeconds, 5, maxSeconds, time.Second, &config.WarningLead},
		{"snooze_minutes", fileData.SnoozeMinutes, 1, maxMinutes, time.Minute, &config.SnoozeDuration},
		{"eye_rest_duration", fileData.EyeRestDuration, 5, maxSeconds, time.Second, &config.EyeRestDuration},
		{"micro_pause_duration", fileData.MicroPauseDuration, 1, maxMinutes, time.Minute, &config.MicroPauseDuration},
		{"coast_margin_minutes", fileData.CoastMarginMinutes, 0, maxMinutes, time.Minute, &config.CoastMargin},
		{"idle_threshold", fileData.IdleThreshold, 1, maxSeconds, time.Second, &config.IdleThreshold},
		{"mini_reminder_interval", fileData.MiniReminderInterval, 1, maxMinutes, time.Minute, &config.MiniReminderInterval},
		{"hydration_reminder_interval", fileData.HydrationInterval, 1, maxMinutes, time.Minute, &config.HydrationInterval},
	}
	for _, rule := range rules {
		if rule.value == nil {
			continue
		}
		value := *rule.value
		if !finite(value) || value < rule.min {
			logging.Warnf("settings: %s=%v below minimum %v or not a number; using default", rule.name, value, rule.min)
			continue
		}
		if value > rule.max {
			logging.Warnf("settings: %s=%v above maximum %v; clamping", rule.name, value, rule.max)
			value = rule.max
		}
		*rule.target = time.Duration(value * float64(rule.unit))
	}

	if value := fileData.LowEnergyMultiplier; value != nil {
		switch {
		case !finite(*value) || *value < 1.0:
			logging.Warnf("settings: low_energy_multiplier=%v below 1.0 or not a number; using default", *value)
		case *value > maxMultiplier:
			logging.Warnf("settings: low_energy_multiplier=%v above %v; clamping", *value, maxMultiplier)
			config.LowEnergyMultiplier = maxMultiplier
		default:
			config.LowEnergyMultiplier = *value
		}
	}

	applyWorkHours(config, fileData.WorkStart, fileData.WorkEnd)
	if fileData.Breaks != nil {
		config.Breaks = normalizeBreaks(fileData.Breaks)
	}

	applyBool(&config.IdleDetection, fileData.IdleDetection)
	applyBool(&config.SoundEnabled, fileData.SoundEnabled)
	applyBool(&config.StrictMode, fileData.StrictMode)
	applyBool(&config.PomodoroMode, fileData.PomodoroMode)
	applyBool(&config.FocusMode, fileData.FocusMode)
	applyBool(&config.MiniReminders, fileData.MiniReminders)
	applyBool(&config.HydrationTracking, fileData.HydrationTracking)
	applyBool(&config.PersistClockState, fileData.PersistClockState)
}

func applyBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}

func applyWorkHours(config *model.Config, start, end string) {
	for _, field := range []struct {
		name   string
		value  string
		target *string
	}{
		{"work_start", start, &config.WorkStart},
		{"work_end", end, &config.WorkEnd},
	} {
		if field.value == "" {
			continue
		}
		tod, err := schedule.ParseTimeOfDay(field.value)
		if err != nil {
			logging.Warnf("settings: %s: %v; using default", field.name, err)
			continue
		}
		*field.target = tod.String()
	}
}

// normalizeBreaks drops entries with an invalid or duplicate time and
// orders the rest by time of day.
func normalizeBreaks(entries []fileBreak) []model.ScheduledBreak {
	type parsed struct {
		tod   schedule.TimeOfDay
		entry model.ScheduledBreak
	}

	seen := make(map[string]bool, len(entries))
	valid := make([]parsed, 0, len(entries))
	for _, entry := range entries {
		tod, err := schedule.ParseTimeOfDay(entry.Time)
		if err != nil {
			logging.Warnf("settings: dropping break %q: %v", entry.Title, err)
			continue
		}
		key := tod.String()
		if seen[key] {
			logging.Warnf("settings: dropping break %q: another break is already at %s", entry.Title, key)
			continue
		}
		seen[key] = true

		duration := entry.Duration
		if !finite(duration) || duration < 0 {
			duration = 0
		}
		if duration > maxMinutes {
			duration = maxMinutes
		}
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			title = "Break"
		}
		valid = append(valid, parsed{tod: tod, entry: model.ScheduledBreak{
			Time:     key,
			Duration: time.Duration(duration * float64(time.Minute)),
			Title:    title,
		}})
	}

	sort.SliceStable(valid, func(i, j int) bool {
		if valid[i].tod.Hour != valid[j].tod.Hour {
			return valid[i].tod.Hour < valid[j].tod.Hour
		}
		return valid[i].tod.Minute < valid[j].tod.Minute
	})

	breaks := make([]model.ScheduledBreak, 0, len(valid))
	for _, item := range valid {
		breaks = append(breaks, item.entry)
	}
	return breaks
}

func toFileSettings(config model.Config) fileSettings {
	number := func(d, unit time.Duration) *float64 {
		value := float64(d) / float64(unit)
		return &value
	}
	flag := func(value bool) *bool { return &value }
	multiplier := config.LowEnergyMultiplier

	breaks := make([]fileBreak, 0, len(config.Breaks))
	for _, entry := range config.Breaks {
		breaks = append(breaks, fileBreak{
			Time:     entry.Time,
			Duration: float64(entry.Duration) / float64(time.Minute),
			Title:    entry.Title,
		})
	}

	return fileSettings{
		EyeRestInterval:      number(config.EyeRestInterval, time.Minute),
		MicroPauseInterval:   number(config.MicroPauseInterval, time.Minute),
		MinimumBreakGap:      number(config.MinimumBreakGap, time.Minute),
		WarningSeconds:       number(config.WarningLead, time.Second),
		SnoozeMinutes:        number(config.SnoozeDuration, time.Minute),
		EyeRestDuration:      number(config.EyeRestDuration, time.Second),
		MicroPauseDuration:   number(config.MicroPauseDuration, time.Minute),
		LowEnergyMultiplier:  &multiplier,
		CoastMarginMinutes:   number(config.CoastMargin, time.Minute),
		WorkStart:            config.WorkStart,
		WorkEnd:              config.WorkEnd,
		Breaks:               breaks,
		IdleDetection:        flag(config.IdleDetection),
		IdleThreshold:        number(config.IdleThreshold, time.Second),
		SoundEnabled:         flag(config.SoundEnabled),
		StrictMode:           flag(config.StrictMode),
		PomodoroMode:         flag(config.PomodoroMode),
		FocusMode:            flag(config.FocusMode),
		MiniReminders:        flag(config.MiniReminders),
		MiniReminderInterval: number(config.MiniReminderInterval, time.Minute),
		HydrationTracking:    flag(config.HydrationTracking),
		HydrationInterval:    number(config.HydrationInterval, time.Minute),
		PersistClockState:    flag(config.PersistClockState),
	}
}
