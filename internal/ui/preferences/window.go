package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// durationField is one numeric entry bound to a Settings duration.
type durationField struct {
	label string
	unit  time.Duration

	// minimum is the smallest accepted value, in units.
	minimum int
	entry   *widget.Entry
	target  func(*Settings) *time.Duration
}

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	fields   []*durationField
	checks   map[string]*widget.Check
	opacity  *widget.Slider
	feedback *widget.Label
}

var checkOrder = []string{
	"Strict mode (no skipping)",
	"Pause when idle",
	"Pomodoro mode (25 min intervals)",
	"Hold breaks while a fullscreen app is focused",
	"Sound",
	"Mini reminders",
	"Hydration reminders",
	"Start at login",
	"Fullscreen overlay",
}

func checkTargets(settings *Settings) map[string]*bool {
	return map[string]*bool{
		checkOrder[0]: &settings.StrictMode,
		checkOrder[1]: &settings.IdleDetection,
		checkOrder[2]: &settings.PomodoroMode,
		checkOrder[3]: &settings.FocusMode,
		checkOrder[4]: &settings.SoundEnabled,
		checkOrder[5]: &settings.MiniReminders,
		checkOrder[6]: &settings.HydrationTracking,
		checkOrder[7]: &settings.StartAtLogin,
		checkOrder[8]: &settings.Fullscreen,
	}
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings) error) *Window {
	window := app.NewWindow("screenbreak Preferences")

	prefs := &Window{
		window:   window,
		settings: settings,
		checks:   make(map[string]*widget.Check),
		feedback: widget.NewLabel(""),
	}

	prefs.fields = []*durationField{
		{label: "Eye rest every", unit: time.Minute, minimum: 1, target: func(s *Settings) *time.Duration { return &s.EyeRestInterval }},
		{label: "Micro-pause every", unit: time.Minute, minimum: 1, target: func(s *Settings) *time.Duration { return &s.MicroPauseInterval }},
		{label: "Minimum gap between breaks", unit: time.Minute, minimum: 1, target: func(s *Settings) *time.Duration { return &s.MinimumBreakGap }},
		{label: "Warning before a break", unit: time.Second, minimum: 5, target: func(s *Settings) *time.Duration { return &s.WarningLead }},
		{label: "Snooze length", unit: time.Minute, minimum: 1, target: func(s *Settings) *time.Duration { return &s.SnoozeDuration }},
		{label: "Eye rest length", unit: time.Second, minimum: 5, target: func(s *Settings) *time.Duration { return &s.EyeRestDuration }},
		{label: "Micro-pause length", unit: time.Minute, minimum: 1, target: func(s *Settings) *time.Duration { return &s.MicroPauseDuration }},
	}

	form := container.NewVBox(widget.NewLabelWithStyle("Schedule", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	for _, field := range prefs.fields {
		field.entry = widget.NewEntry()
		form.Add(container.NewHBox(widget.NewLabel(field.label), layout.NewSpacer(), field.entry, widget.NewLabel(unitName(field.unit))))
	}

	form.Add(widget.NewLabelWithStyle("Behaviour", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	for _, name := range checkOrder {
		check := widget.NewCheck(name, nil)
		prefs.checks[name] = check
		form.Add(check)
	}

	prefs.opacity = widget.NewSlider(0.5, 0.95)
	prefs.opacity.Step = 0.01
	form.Add(widget.NewLabel("Overlay opacity"))
	form.Add(prefs.opacity)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", func() { window.Hide() })
	buttons := container.NewVBox(prefs.feedback, container.NewHBox(saveButton, layout.NewSpacer(), cancelButton))

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(form)))
	window.SetCloseIntercept(func() { window.Hide() })
	window.Resize(fyne.NewSize(460, 560))

	saveButton.OnTapped = func() {
		updated := prefs.collect()
		if onSave != nil {
			if err := onSave(updated); err != nil {
				prefs.feedback.SetText(fmt.Sprintf("Could not save: %v", err))
				return
			}
		}
		prefs.settings = updated
		prefs.feedback.SetText("")
		window.Hide()
	}

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	for _, field := range prefs.fields {
		field.entry.SetText(strconv.Itoa(int(*field.target(&settings) / field.unit)))
	}
	for name, target := range checkTargets(&settings) {
		prefs.checks[name].SetChecked(*target)
	}
	prefs.opacity.SetValue(settings.OverlayOpacity)
}

func (prefs *Window) collect() Settings {
	settings := prefs.settings
	for _, field := range prefs.fields {
		if value, ok := parseAtLeast(field.entry.Text, field.minimum); ok {
			*field.target(&settings) = time.Duration(value) * field.unit
		}
	}
	for name, target := range checkTargets(&settings) {
		*target = prefs.checks[name].Checked
	}
	settings.OverlayOpacity = prefs.opacity.Value
	return settings
}

func unitName(unit time.Duration) string {
	if unit == time.Second {
		return "sec"
	}
	return "min"
}

// parseAtLeast accepts integers no smaller than minimum; anything else keeps
// the previous value.
func parseAtLeast(value string, minimum int) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < minimum {
		return 0, false
	}
	return parsed, true
}
