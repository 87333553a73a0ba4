package countdown

import (
	"fmt"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"screenbreak/internal/core/timekeeper"
	"screenbreak/internal/core/warning"
)

// Presenter shows the pre-break countdown in a small undecorated window.
type Presenter struct {
	app fyne.App
}

// New creates a countdown presenter.
func New(app fyne.App) *Presenter {
	return &Presenter{app: app}
}

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// ShowWarning opens the countdown window for request.
func (presenter *Presenter) ShowWarning(request timekeeper.BreakRequest, countdown time.Duration, dismiss func()) warning.Display {
	display := &Window{title: headline(request)}
	fyne.Do(func() { display.open(presenter.app, countdown, dismiss) })
	return display
}

// Window is one countdown surface.
type Window struct {
	title    string
	window   fyne.Window
	seconds  *canvas.Text
	progress *widget.ProgressBar

	// closing is set when the machine asked for the close; closed is set
	// once the window is gone for any reason.
	closing atomic.Bool
	closed  atomic.Bool
}

// newWindow returns an undecorated window when the driver supports one and
// a regular window otherwise. Only one window is created per call.
func newWindow(app fyne.App, title string) fyne.Window {
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		return driver.CreateSplashWindow()
	}
	return app.NewWindow(title)
}

func (display *Window) open(app fyne.App, countdown time.Duration, dismiss func()) {
	if display.closing.Load() {
		display.closed.Store(true)
		return
	}

	window := newWindow(app, display.title)
	display.window = window

	display.seconds = canvas.NewText(formatSeconds(countdown), theme.Color(theme.ColorNamePrimary))
	display.seconds.TextSize = 32
	display.seconds.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	display.seconds.Alignment = fyne.TextAlignCenter

	display.progress = widget.NewProgressBar()
	display.progress.TextFormatter = func() string { return "" }

	goNow := widget.NewButton("Go now", dismiss)
	goNow.Importance = widget.HighImportance

	window.SetContent(container.NewPadded(container.NewVBox(
		widget.NewLabelWithStyle(display.title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		display.seconds,
		display.progress,
		goNow,
	)))
	window.SetOnClosed(func() { display.closed.Store(true) })
	window.Resize(fyne.NewSize(260, 160))
	window.CenterOnScreen()
	window.Show()
}

// Update redraws the remaining time.
func (display *Window) Update(remaining, total time.Duration) {
	fyne.Do(func() {
		if display.window == nil {
			return
		}
		display.seconds.Text = formatSeconds(remaining)
		display.seconds.Refresh()
		display.progress.SetValue(elapsedFraction(remaining, total))
	})
}

// Close removes the window.
func (display *Window) Close() {
	if display.closing.Swap(true) {
		return
	}
	fyne.Do(func() {
		if display.window != nil {
			display.window.Close()
		}
	})
}

// Closed reports whether the window vanished without Close being called.
func (display *Window) Closed() bool {
	return display.closed.Load() && !display.closing.Load()
}

func headline(request timekeeper.BreakRequest) string {
	return fmt.Sprintf("%s starting", request.Title)
}

func formatSeconds(remaining time.Duration) string {
	seconds := int(remaining.Round(time.Second) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d s", seconds)
}

func elapsedFraction(remaining, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	fraction := 1 - float64(remaining)/float64(total)
	if fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}
