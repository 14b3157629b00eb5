package main

import (
	"context"
	"errors"

	"popuptimer/internal/core/stopwatch"
	"popuptimer/internal/core/tickloop"
	"popuptimer/internal/platform"
	"popuptimer/internal/storage"
	"popuptimer/internal/ui/popup"
	"popuptimer/internal/ui/preferences"
	"popuptimer/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"
)

const appName = "PopupTimer"

func main() {
	logger := logrus.WithField("app", appName)

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if activateErr := platform.ActivateRunning(appName); activateErr != nil {
				logger.WithError(activateErr).Warn("could not reach running instance")
			}
		}
		logger.WithError(err).Info("single instance")
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.WithError(err).Warn("load settings, using defaults")
	}

	fyneApp := app.NewWithID("com.popuptimer.app")
	fyneApp.SetIcon(theme.MediaPlayIcon())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watch := stopwatch.New()
	popupWindow := popup.New(fyneApp, watch, settings.WindowConfig())

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		popupWindow.UpdateConfig(settings.WindowConfig())
		if err := storage.SaveSettings(appName, settings); err != nil {
			logger.WithError(err).Warn("save settings")
		}
	})

	quit := func() {
		cancel()
		fyneApp.Quit()
	}

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		tray.New(desktopApp, watch, tray.Callbacks{
			OnShow:        popupWindow.Show,
			OnPreferences: prefsWindow.Show,
			OnQuit:        quit,
		})
	} else {
		// Without a tray the popup is the only way back in, so closing it quits.
		popupWindow.SetOnClose(quit)
	}

	go guard.Serve(func() {
		fyne.Do(popupWindow.Show)
	})

	loop := tickloop.New(watch,
		tickloop.WithInterval(settings.StopwatchConfig().TickInterval),
		tickloop.WithLogger(logger.WithField("component", "tickloop")),
	)
	loopDone := loop.Start(ctx)
	go func() {
		if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("stopwatch no longer advancing")
		}
	}()

	logger.WithField("config", settings.WindowConfig()).Info("starting")
	popupWindow.Show()
	fyneApp.Run()
}
