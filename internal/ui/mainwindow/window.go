// Package mainwindow is the desktop window where in-window clicks are counted.
package mainwindow

import (
	"fmt"

	"clickbreak/internal/clicksource"
	"clickbreak/internal/core/breakcycle"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// ToggleShortcut shows or hides the window (Ctrl+Shift+C, Cmd+Shift+C on macOS)
// while it has focus. Used when the system-wide hotkey cannot be registered.
var ToggleShortcut = &desktop.CustomShortcut{
	KeyName:  fyne.KeyC,
	Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift,
}

// Callbacks defines main window action handlers.
type Callbacks struct {
	OnClick    func(x, y float64, button clicksource.Button)
	OnSettings func()
}

// Window is the main click-counting window.
type Window struct {
	window        fyne.Window
	callbacks     Callbacks
	greeting      *widget.Label
	clickArea     *clickArea
	progressLabel *widget.Label
	progressBar   *widget.ProgressBar
	trackingLabel *widget.Label
	settings      *widget.Button
	visible       bool
}

// New builds the main window. It stays hidden until Show.
func New(app fyne.App, callbacks Callbacks) *Window {
	window := app.NewWindow("ClickBreak")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	mainWindow := &Window{
		window:        window,
		callbacks:     callbacks,
		greeting:      widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		progressLabel: widget.NewLabelWithStyle("0 / 0", fyne.TextAlignCenter, fyne.TextStyle{Monospace: true}),
		progressBar:   widget.NewProgressBar(),
		trackingLabel: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
	}
	mainWindow.progressBar.TextFormatter = func() string { return "" }
	mainWindow.clickArea = newClickArea(mainWindow.handlePress)
	mainWindow.settings = widget.NewButton("Settings", func() {
		if mainWindow.callbacks.OnSettings != nil {
			mainWindow.callbacks.OnSettings()
		}
	})

	header := container.NewVBox(mainWindow.greeting, mainWindow.trackingLabel)
	footer := container.NewVBox(
		mainWindow.progressLabel,
		mainWindow.progressBar,
		container.NewCenter(mainWindow.settings),
	)
	window.SetContent(container.NewBorder(header, footer, nil, nil, mainWindow.clickArea))
	window.Resize(fyne.NewSize(480, 420))

	window.SetCloseIntercept(mainWindow.Hide)

	mainWindow.SetGreeting("")
	return mainWindow
}

// UseWindowShortcut binds ToggleShortcut on the window canvas.
func (mainWindow *Window) UseWindowShortcut() {
	mainWindow.window.Canvas().AddShortcut(ToggleShortcut, func(fyne.Shortcut) {
		mainWindow.Toggle()
	})
}

// SetGreeting shows the display name in the header.
func (mainWindow *Window) SetGreeting(name string) {
	mainWindow.greeting.SetText(Greeting(name))
}

// Greeting formats the header text.
func Greeting(name string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hey %s, let's track those clicks!", name)
}

// SetProgress renders the click count against the goal.
func (mainWindow *Window) SetProgress(snapshot breakcycle.Snapshot) {
	mainWindow.progressLabel.SetText(fmt.Sprintf("%d / %d", snapshot.ClickCount, snapshot.ClickGoal))
	mainWindow.progressBar.SetValue(snapshot.Progress())
}

// SetTracking describes which clicks are counted.
func (mainWindow *Window) SetTracking(description string) {
	mainWindow.trackingLabel.SetText(description)
}

// Show displays the window.
func (mainWindow *Window) Show() {
	mainWindow.window.Show()
	mainWindow.window.RequestFocus()
	mainWindow.visible = true
}

// Hide hides the window; the application keeps running in the tray.
func (mainWindow *Window) Hide() {
	mainWindow.window.Hide()
	mainWindow.visible = false
}

// Toggle flips visibility.
func (mainWindow *Window) Toggle() {
	if mainWindow.visible {
		mainWindow.Hide()
		return
	}
	mainWindow.Show()
}

// Visible reports whether the window is showing.
func (mainWindow *Window) Visible() bool {
	return mainWindow.visible
}

// Window exposes the underlying fyne window.
func (mainWindow *Window) Window() fyne.Window {
	return mainWindow.window
}

func (mainWindow *Window) handlePress(x, y float64, button clicksource.Button) {
	if mainWindow.callbacks.OnClick != nil {
		mainWindow.callbacks.OnClick(x, y, button)
	}
}
