package popup

import (
	"fmt"
	"image/color"

	"popuptimer/internal/core/model"
	"popuptimer/internal/core/stopwatch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	playLabel  = "Play"
	pauseLabel = "Pause"
	resetLabel = "Reset"

	timeTextSize = 30
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window is the small stopwatch popup.
type Window struct {
	window       fyne.Window
	watch        *stopwatch.Stopwatch
	config       model.WindowConfig
	background   *canvas.Rectangle
	timeLabel    *canvas.Text
	playButton   *widget.Button
	resetButton  *widget.Button
	subscription *stopwatch.Subscription
	onClose      func()
}

// New builds the popup and subscribes it to watch.
func New(app fyne.App, watch *stopwatch.Stopwatch, config model.WindowConfig) *Window {
	window := app.NewWindow(config.Title)
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash windows have no native frame, like the transparent title bar popup.
		window = driver.CreateSplashWindow()
		window.SetTitle(config.Title)
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(backgroundColor(config.Opacity))

	timeLabel := canvas.NewText(FormatElapsed(0), color.White)
	timeLabel.Alignment = fyne.TextAlignCenter
	timeLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timeLabel.TextSize = timeTextSize

	popup := &Window{
		window:     window,
		watch:      watch,
		config:     config,
		background: background,
		timeLabel:  timeLabel,
	}

	popup.playButton = widget.NewButton(playLabel, func() {
		popup.watch.Toggle()
	})
	popup.resetButton = widget.NewButton(resetLabel, func() {
		popup.watch.Reset()
	})

	controls := container.NewHBox(popup.playButton, popup.resetButton)
	content := container.NewCenter(container.NewVBox(
		container.NewCenter(timeLabel),
		container.NewCenter(controls),
	))
	window.SetContent(container.NewStack(background, content))
	window.SetCloseIntercept(func() {
		if popup.onClose != nil {
			popup.onClose()
			return
		}
		popup.window.Hide()
	})

	popup.render()
	popup.applySize()
	popup.subscription = watch.Subscribe(func(stopwatch.TickEvent) {
		fyne.Do(popup.render)
	})

	return popup
}

// Show displays the popup and focuses it.
func (popup *Window) Show() {
	popup.window.Show()
	popup.window.RequestFocus()
}

// Hide hides the popup without stopping the stopwatch.
func (popup *Window) Hide() {
	popup.window.Hide()
}

// SetOnClose replaces the default hide-on-close behaviour.
func (popup *Window) SetOnClose(handler func()) {
	popup.onClose = handler
}

// UpdateConfig applies new window settings.
func (popup *Window) UpdateConfig(config model.WindowConfig) {
	popup.config = config
	popup.window.SetTitle(config.Title)
	popup.background.FillColor = backgroundColor(config.Opacity)
	canvas.Refresh(popup.background)
	popup.applySize()
}

// Close stops listening to the stopwatch and closes the window.
func (popup *Window) Close() {
	popup.subscription.Cancel()
	popup.window.Close()
}

// Text returns what the popup currently shows, for the tray and tests.
func (popup *Window) Text() (elapsed string, toggle string) {
	return popup.timeLabel.Text, popup.playButton.Text
}

// render redraws from the current stopwatch state. Must run on the UI thread.
func (popup *Window) render() {
	state := popup.watch.Snapshot()

	popup.timeLabel.Text = FormatElapsed(state.ElapsedSeconds)
	popup.timeLabel.Refresh()

	popup.playButton.SetText(PlayLabel(state.Running))
}

func (popup *Window) applySize() {
	size := fyne.NewSize(popup.config.Width, popup.config.Height)
	minSize := popup.window.Content().MinSize()
	if size.Width < minSize.Width {
		size.Width = minSize.Width
	}
	if size.Height < minSize.Height {
		size.Height = minSize.Height
	}
	popup.window.Resize(size)
	popup.window.CenterOnScreen()
}

// FormatElapsed renders whole seconds as MM:SS. Minutes are not wrapped.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// PlayLabel is the toggle button caption for the given running state.
func PlayLabel(running bool) string {
	if running {
		return pauseLabel
	}
	return playLabel
}

func backgroundColor(alpha uint8) color.NRGBA {
	return color.NRGBA{R: 0x27, G: 0x27, B: 0x2a, A: alpha}
}
