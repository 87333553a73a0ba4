package overlay

import (
	"context"
	"fmt"
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"screenbreak/internal/core/schedule"
	"screenbreak/internal/core/timekeeper"
	"screenbreak/internal/ui/animation"
)

// Config defines overlay visuals.
type Config struct {
	Opacity    uint8
	Fullscreen bool
}

// Presenter opens one overlay window per break.
type Presenter struct {
	app    fyne.App
	mu     sync.Mutex
	config Config
	pacer  animation.Config
}

// New creates a break presenter.
func New(app fyne.App, config Config) *Presenter {
	return &Presenter{app: app, config: config, pacer: animation.DefaultConfig()}
}

// UpdateConfig updates overlay visuals for the next break.
func (presenter *Presenter) UpdateConfig(config Config) {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	presenter.config = config
}

// Show opens the overlay for request.
func (presenter *Presenter) Show(request timekeeper.BreakRequest) timekeeper.BreakHandle {
	presenter.mu.Lock()
	config := presenter.config
	pacer := presenter.pacer
	presenter.mu.Unlock()

	overlay := &Window{
		app:       presenter.app,
		config:    config,
		request:   request,
		remaining: request.Duration,
		engine:    animation.New(pacer),
	}
	fyne.Do(overlay.open)
	return overlay
}

// Window is a single break overlay.
type Window struct {
	app     fyne.App
	window  fyne.Window
	config  Config
	request timekeeper.BreakRequest

	background    *canvas.Rectangle
	titleLabel    *canvas.Text
	subtitleLabel *widget.Label
	exerciseLabel *widget.Label
	timerLabel    *canvas.Text
	phaseLabel    *canvas.Text
	pacer         *canvas.Circle
	doneButton    *widget.Button

	engine *animation.Engine
	cancel context.CancelFunc

	mu        sync.Mutex
	remaining time.Duration
	closed    bool

	resolveOnce sync.Once
}

const (
	overlayWidthFraction  = float32(0.45)
	overlayHeightFraction = float32(0.45)
	defaultScreenWidth    = float32(1920)
	defaultScreenHeight   = float32(1080)
	pacerMaxRadius        = float32(70)
)

var (
	textColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	accentColor = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	pacerColor  = color.NRGBA{R: 96, G: 176, B: 220, A: 200}
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// newWindow creates exactly one window: undecorated (no native frame or
// buttons) when the driver offers splash windows, regular otherwise.
func newWindow(app fyne.App, title string) fyne.Window {
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		return driver.CreateSplashWindow()
	}
	return app.NewWindow(title)
}

func (overlay *Window) open() {
	window := newWindow(overlay.app, overlay.request.Title)
	if overlay.app.Icon() != nil {
		window.SetIcon(overlay.app.Icon())
	}
	window.SetPadded(false)
	overlay.window = window

	overlay.background = canvas.NewRectangle(color.NRGBA{A: overlay.config.Opacity})

	overlay.titleLabel = canvas.NewText(overlay.request.Title, textColor)
	overlay.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	overlay.titleLabel.TextSize = 28

	overlay.subtitleLabel = widget.NewLabel(overlay.request.Description)
	overlay.subtitleLabel.Wrapping = fyne.TextWrapWord

	overlay.exerciseLabel = widget.NewLabel(overlay.request.Exercise)
	overlay.exerciseLabel.Wrapping = fyne.TextWrapWord
	overlay.exerciseLabel.TextStyle = fyne.TextStyle{Italic: true}

	overlay.timerLabel = canvas.NewText(formatDuration(overlay.request.Duration), accentColor)
	overlay.timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	overlay.timerLabel.TextSize = 36

	overlay.pacer = canvas.NewCircle(pacerColor)
	overlay.phaseLabel = canvas.NewText("", textColor)
	overlay.phaseLabel.Alignment = fyne.TextAlignCenter

	left := container.NewVBox(overlay.titleLabel, overlay.subtitleLabel, overlay.exerciseLabel, overlay.timerLabel)
	right := container.NewBorder(nil, overlay.phaseLabel, nil, nil, container.New(&pacerLayout{}, overlay.pacer))
	buttons := overlay.buildButtons()

	content := container.NewBorder(nil, buttons, nil, nil, container.NewGridWithColumns(2, left, right))
	window.SetContent(container.NewStack(overlay.background, container.NewPadded(content)))
	window.SetCloseIntercept(func() {
		if overlay.request.StrictMode {
			overlay.resolve(schedule.OutcomeSnoozed)
			return
		}
		overlay.resolve(schedule.OutcomeSkipped)
	})

	overlay.applyWindowMode()
	window.Show()
	window.RequestFocus()
	overlay.applyNativeOpacity(overlay.config.Opacity)

	ctx, cancel := context.WithCancel(context.Background())
	overlay.cancel = cancel
	overlay.startAnimation(ctx)
	go overlay.countdown(ctx)
}

func (overlay *Window) buildButtons() *fyne.Container {
	var buttons []fyne.CanvasObject
	for _, action := range actionsFor(overlay.request) {
		action := action
		button := widget.NewButton(action.label, func() { overlay.resolve(action.outcome) })
		if action.primary {
			button.Importance = widget.HighImportance
		}
		if action.afterCountdown {
			button.Hide()
			overlay.doneButton = button
		}
		buttons = append(buttons, button)
	}
	return container.NewCenter(container.NewHBox(buttons...))
}

func (overlay *Window) startAnimation(ctx context.Context) {
	switch overlay.request.Kind {
	case schedule.KindMicroPause:
		overlay.engine.SetOnStep(func(step animation.Step) {
			fyne.Do(func() { overlay.showStep(step) })
		})
		overlay.engine.StartBreathing(ctx)
	case schedule.KindScheduled:
		overlay.pacer.Hide()
		prompts := []string{overlay.request.Exercise, overlay.request.Description}
		overlay.engine.SetOnPrompt(func(prompt string) {
			fyne.Do(func() { overlay.exerciseLabel.SetText(prompt) })
		})
		overlay.engine.StartPrompts(ctx, prompts)
	default:
		overlay.pacer.Hide()
	}
}

func (overlay *Window) showStep(step animation.Step) {
	overlay.phaseLabel.Text = step.Phase.String()
	overlay.phaseLabel.Refresh()

	scale := float32(0.5)
	switch step.Phase {
	case animation.PhaseInhale, animation.PhaseHold:
		scale = 1
	}
	target := pacerMaxRadius * 2 * scale
	current := overlay.pacer.Size()
	canvas.NewSizeAnimation(current, fyne.NewSize(target, target), step.Duration, func(size fyne.Size) {
		center := overlay.pacer.Position().Add(fyne.NewPos(overlay.pacer.Size().Width/2, overlay.pacer.Size().Height/2))
		overlay.pacer.Resize(size)
		overlay.pacer.Move(center.Subtract(fyne.NewPos(size.Width/2, size.Height/2)))
		overlay.pacer.Refresh()
	}).Start()
}

func (overlay *Window) countdown(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		overlay.mu.Lock()
		overlay.remaining -= time.Second
		if overlay.remaining < 0 {
			overlay.remaining = 0
		}
		remaining := overlay.remaining
		overlay.mu.Unlock()

		fyne.Do(func() {
			overlay.timerLabel.Text = formatDuration(remaining)
			overlay.timerLabel.Refresh()
			if remaining == 0 {
				overlay.finishCountdown()
			}
		})
		if remaining == 0 {
			return
		}
	}
}

func (overlay *Window) finishCountdown() {
	if overlay.doneButton != nil {
		overlay.doneButton.Show()
		return
	}
	overlay.subtitleLabel.SetText("Break complete. Come back when you are ready.")
}

func (overlay *Window) resolve(outcome schedule.Outcome) {
	overlay.resolveOnce.Do(func() {
		if overlay.request.Resolve != nil {
			go overlay.request.Resolve(outcome)
		}
	})
}

// Close tears the overlay down. Repeated calls are ignored.
func (overlay *Window) Close() {
	overlay.mu.Lock()
	if overlay.closed {
		overlay.mu.Unlock()
		return
	}
	overlay.closed = true
	overlay.mu.Unlock()

	overlay.engine.Stop()
	fyne.Do(func() {
		if overlay.cancel != nil {
			overlay.cancel()
		}
		if overlay.window != nil {
			overlay.window.Close()
		}
	})
}

func (overlay *Window) applyWindowMode() {
	if overlay.config.Fullscreen {
		overlay.window.SetFullScreen(true)
		return
	}
	overlay.window.SetFullScreen(false)
	overlay.resizeToScreenFraction()
}

func (overlay *Window) resizeToScreenFraction() {
	screenSize := fyne.NewSize(defaultScreenWidth, defaultScreenHeight)
	canvasSize := overlay.window.Canvas().Size()
	// Canvas size can be reused as a proxy for monitor size when it is clearly screen-like.
	if canvasSize.Width >= 1024 && canvasSize.Height >= 720 {
		screenSize = canvasSize
	}

	width := screenSize.Width * overlayWidthFraction
	height := screenSize.Height * overlayHeightFraction
	minSize := overlay.window.Content().MinSize()
	if width < minSize.Width {
		width = minSize.Width
	}
	if height < minSize.Height {
		height = minSize.Height
	}

	overlay.window.Resize(fyne.NewSize(width, height))
	overlay.window.CenterOnScreen()
}

type breakAction struct {
	label          string
	outcome        schedule.Outcome
	primary        bool
	afterCountdown bool
}

// actionsFor lists the overlay buttons for request. Eye rests only offer a
// Done button once the countdown ends; strict mode never offers Skip.
func actionsFor(request timekeeper.BreakRequest) []breakAction {
	var actions []breakAction
	if request.Kind == schedule.KindEyeRest {
		actions = append(actions, breakAction{label: "Done", outcome: schedule.OutcomeTaken, primary: true, afterCountdown: true})
	} else {
		actions = append(actions,
			breakAction{label: "Back from break", outcome: schedule.OutcomeTaken, primary: true},
			breakAction{label: snoozeLabel(request.Snooze), outcome: schedule.OutcomeSnoozed},
		)
	}
	if !request.StrictMode {
		actions = append(actions, breakAction{label: "Skip", outcome: schedule.OutcomeSkipped})
	}
	return actions
}

func snoozeLabel(snooze time.Duration) string {
	minutes := int(snooze.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d more min", minutes)
}

func formatDuration(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

type pacerLayout struct{}

func (layout *pacerLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) == 0 {
		return
	}
	side := pacerMaxRadius
	objects[0].Resize(fyne.NewSize(side, side))
	objects[0].Move(fyne.NewPos((size.Width-side)/2, (size.Height-side)/2))
}

func (layout *pacerLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(pacerMaxRadius*2, pacerMaxRadius*2)
}
