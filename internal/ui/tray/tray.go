package tray

import (
	"fmt"

	"popuptimer/internal/core/stopwatch"
	"popuptimer/internal/ui/popup"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

const menuTitle = "Timer"

// Host is the part of desktop.App the tray needs.
type Host interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	host         Host
	watch        *stopwatch.Stopwatch
	callbacks    Callbacks
	statusItem   *fyne.MenuItem
	toggleItem   *fyne.MenuItem
	resetItem    *fyne.MenuItem
	subscription *stopwatch.Subscription
	running      bool
	iconSet      bool
}

// New creates a tray manager mirroring watch.
func New(host Host, watch *stopwatch.Stopwatch, callbacks Callbacks) *Manager {
	manager := &Manager{
		host:      host,
		watch:     watch,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.toggleItem = fyne.NewMenuItem(popup.PlayLabel(false), func() {
		manager.watch.Toggle()
	})
	manager.resetItem = fyne.NewMenuItem("Reset", func() {
		manager.watch.Reset()
	})

	manager.apply(watch.Snapshot())
	manager.subscription = watch.Subscribe(func(stopwatch.TickEvent) {
		fyne.Do(func() {
			manager.apply(manager.watch.Snapshot())
		})
	})

	return manager
}

// Close stops mirroring the stopwatch.
func (manager *Manager) Close() {
	manager.subscription.Cancel()
}

// Status returns the status line and the toggle caption.
func (manager *Manager) Status() (string, string) {
	return manager.statusItem.Label, manager.toggleItem.Label
}

func (manager *Manager) apply(state stopwatch.State) {
	manager.statusItem.Label = statusLabel(state)
	manager.toggleItem.Label = popup.PlayLabel(state.Running)
	manager.resetItem.Disabled = state.ElapsedSeconds == 0 && !state.Running

	if !manager.iconSet || manager.running != state.Running {
		manager.running = state.Running
		manager.iconSet = true
		manager.refreshIcon()
	}
	manager.refreshMenu()
}

func (manager *Manager) refreshIcon() {
	if manager.host == nil {
		return
	}
	if manager.running {
		manager.host.SetSystemTrayIcon(theme.MediaPlayIcon())
		return
	}
	manager.host.SetSystemTrayIcon(theme.MediaPauseIcon())
}

func (manager *Manager) refreshMenu() {
	if manager.host == nil {
		return
	}
	manager.host.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show", func() {
			if manager.callbacks.OnShow != nil {
				manager.callbacks.OnShow()
			}
		}),
		manager.toggleItem,
		manager.resetItem,
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}

func statusLabel(state stopwatch.State) string {
	status := fmt.Sprintf("Elapsed %s", popup.FormatElapsed(state.ElapsedSeconds))
	if !state.Running && state.ElapsedSeconds > 0 {
		status += " (paused)"
	}
	return status
}
