package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggleWindow   func()
	OnToggleTracking func()
	OnEndBreak       func()
	OnPreferences    func()
	OnQuit           func()
}

// Manager handles system tray state.
type Manager struct {
	app          desktop.App
	statusItem   *fyne.MenuItem
	windowItem   *fyne.MenuItem
	trackingItem *fyne.MenuItem
	endBreakItem *fyne.MenuItem
	callbacks    Callbacks
	inBreak      bool
	statusLabel  string
}

// New creates a tray manager with the provided callbacks. app may be nil when the
// platform has no tray; the menu state is still tracked.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.windowItem = fyne.NewMenuItem("Show/Hide ClickBreak", func() {
		if manager.callbacks.OnToggleWindow != nil {
			manager.callbacks.OnToggleWindow()
		}
	})

	manager.trackingItem = fyne.NewMenuItem("Count clicks system-wide", func() {
		if manager.callbacks.OnToggleTracking != nil {
			manager.callbacks.OnToggleTracking()
		}
	})

	manager.endBreakItem = fyne.NewMenuItem("End break now", func() {
		if manager.callbacks.OnEndBreak != nil {
			manager.callbacks.OnEndBreak()
		}
	})
	manager.endBreakItem.Disabled = true

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetInBreak toggles break-related menu items.
func (manager *Manager) SetInBreak(inBreak bool) {
	manager.inBreak = inBreak
	manager.endBreakItem.Disabled = !inBreak
	manager.refreshStatus()
}

// SetTracking reflects whether system-wide capture is enabled and whether it can
// be offered at all.
func (manager *Manager) SetTracking(enabled, available bool) {
	manager.trackingItem.Checked = enabled
	manager.trackingItem.Disabled = !available
	manager.refreshMenu()
}

// Menu returns the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return fyne.NewMenu("ClickBreak",
		manager.statusItem,
		manager.windowItem,
		fyne.NewMenuItemSeparator(),
		manager.trackingItem,
		manager.endBreakItem,
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
	)
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if manager.inBreak {
		status = fmt.Sprintf("%s (on break)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.Menu())
	}
}
