package preferences

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings)
	title    *widget.Entry
	width    *widget.Entry
	height   *widget.Entry
	opacity  *widget.Slider
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Timer Settings")

	title := widget.NewEntry()
	width := widget.NewEntry()
	height := widget.NewEntry()

	opacity := widget.NewSlider(MinOpacity, MaxOpacity)
	opacity.Step = 0.05

	form := container.NewVBox(
		widget.NewLabelWithStyle("Window", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Title"), title),
		container.NewHBox(widget.NewLabel("Width"), width, widget.NewLabel("px")),
		container.NewHBox(widget.NewLabel("Height"), height, widget.NewLabel("px")),
		widget.NewLabel("Background opacity"),
		opacity,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(320, 260))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs := &Window{
		window:  window,
		onSave:  onSave,
		title:   title,
		width:   width,
		height:  height,
		opacity: opacity,
	}
	prefs.UpdateSettings(settings)
	saveButton.OnTapped = prefs.handleSave

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
	prefs.title.SetText(settings.Title)
	prefs.width.SetText(fmt.Sprintf("%d", int(settings.WindowWidth)))
	prefs.height.SetText(fmt.Sprintf("%d", int(settings.WindowHeight)))
	prefs.opacity.Value = settings.Opacity
	prefs.opacity.Refresh()
}

func (prefs *Window) handleSave() {
	prefs.settings = prefs.collect()
	if prefs.onSave != nil {
		prefs.onSave(prefs.settings)
	}
	prefs.window.Hide()
}

// collect merges valid form values over the current settings.
func (prefs *Window) collect() Settings {
	settings := prefs.settings

	if title := strings.TrimSpace(prefs.title.Text); title != "" {
		settings.Title = title
	}
	if width, ok := parseWindowSide(prefs.width.Text); ok {
		settings.WindowWidth = width
	}
	if height, ok := parseWindowSide(prefs.height.Text); ok {
		settings.WindowHeight = height
	}
	if ValidOpacity(prefs.opacity.Value) {
		settings.Opacity = prefs.opacity.Value
	}
	return settings
}

func parseWindowSide(value string) (float64, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || !ValidWindowSide(float64(parsed)) {
		return 0, false
	}
	return float64(parsed), true
}
