package overlay

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Config defines overlay visuals.
type Config struct {
	Opacity    uint8
	Fullscreen bool
	Title      string
}

// DefaultConfig is a dimmed full-screen overlay.
func DefaultConfig() Config {
	return Config{
		Opacity:    235,
		Fullscreen: true,
		Title:      "Time for a break!",
	}
}

// Window is the break overlay: countdown, a message and an early exit button.
type Window struct {
	window       fyne.Window
	config       Config
	background   *canvas.Rectangle
	titleLabel   *canvas.Text
	timerLabel   *canvas.Text
	messageLabel *widget.Label
	endButton    *widget.Button
	onEnd        func()
	visible      bool
}

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the overlay window. It stays hidden until Show.
func New(app fyne.App, config Config) *Window {
	window := app.NewWindow("ClickBreak")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{R: 15, G: 23, B: 42, A: config.Opacity})

	titleLabel := canvas.NewText(config.Title, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	titleLabel.Alignment = fyne.TextAlignCenter
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 40

	timerLabel := canvas.NewText("--:--", color.NRGBA{R: 236, G: 72, B: 153, A: 255})
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 72

	messageLabel := widget.NewLabel("")
	messageLabel.Alignment = fyne.TextAlignCenter
	messageLabel.Wrapping = fyne.TextWrapWord

	endButton := widget.NewButton("End Break Now", nil)
	endButton.Importance = widget.HighImportance

	panel := container.New(&breakPanelLayout{}, titleLabel, timerLabel, messageLabel, endButton)
	root := container.NewStack(background, container.NewCenter(panel))
	window.SetContent(root)

	overlay := &Window{
		window:       window,
		config:       config,
		background:   background,
		titleLabel:   titleLabel,
		timerLabel:   timerLabel,
		messageLabel: messageLabel,
		endButton:    endButton,
	}
	endButton.OnTapped = overlay.handleEnd
	window.SetCloseIntercept(overlay.handleEnd)

	return overlay
}

// Show displays the overlay with the remaining time and a break message.
func (overlay *Window) Show(remaining time.Duration, message string) {
	overlay.setRemainingUnsafe(remaining)
	overlay.messageLabel.SetText(message)
	overlay.endButton.Enable()
	overlay.applyWindowMode()
	overlay.window.Show()
	overlay.window.RequestFocus()
	overlay.applyNativeOpacity(overlay.config.Opacity)
	overlay.visible = true
}

// Hide closes the overlay.
func (overlay *Window) Hide() {
	if overlay.config.Fullscreen {
		overlay.window.SetFullScreen(false)
	}
	overlay.window.Hide()
	overlay.visible = false
}

// Visible reports whether the overlay is showing.
func (overlay *Window) Visible() bool {
	return overlay.visible
}

// SetRemaining updates the timer label.
func (overlay *Window) SetRemaining(remaining time.Duration) {
	overlay.setRemainingUnsafe(remaining)
}

// SetOnEndBreak sets the "End Break Now" handler.
func (overlay *Window) SetOnEndBreak(handler func()) {
	overlay.onEnd = handler
}

// UpdateConfig updates overlay visuals.
func (overlay *Window) UpdateConfig(config Config) {
	overlay.config = config
	overlay.background.FillColor = color.NRGBA{R: 15, G: 23, B: 42, A: config.Opacity}
	overlay.titleLabel.Text = config.Title
	overlay.applyWindowMode()
	canvas.Refresh(overlay.background)
	overlay.titleLabel.Refresh()
}

func (overlay *Window) handleEnd() {
	// Disabled until the next Show so a double tap ends only one break.
	overlay.endButton.Disable()
	if overlay.onEnd != nil {
		overlay.onEnd()
	}
}

func (overlay *Window) setRemainingUnsafe(remaining time.Duration) {
	overlay.timerLabel.Text = formatDuration(remaining)
	overlay.timerLabel.Refresh()
}

func (overlay *Window) applyWindowMode() {
	if overlay.config.Fullscreen {
		overlay.window.SetFullScreen(true)
		return
	}
	overlay.window.SetFullScreen(false)
	overlay.window.Resize(fyne.NewSize(720, 480))
	overlay.window.CenterOnScreen()
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

// breakPanelLayout stacks title, timer, message and button in a centred column.
type breakPanelLayout struct{}

const (
	panelWidth   = float32(520)
	panelSpacing = float32(18)
)

func (layout *breakPanelLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 4 {
		return
	}
	title := objects[0]
	timer := objects[1]
	message := objects[2]
	button := objects[3]

	width := size.Width
	y := float32(0)

	titleSize := title.MinSize()
	title.Move(fyne.NewPos(0, y))
	title.Resize(fyne.NewSize(width, titleSize.Height))
	y += titleSize.Height + panelSpacing

	timerSize := timer.MinSize()
	timer.Move(fyne.NewPos(0, y))
	timer.Resize(fyne.NewSize(width, timerSize.Height))
	y += timerSize.Height + panelSpacing

	message.Resize(fyne.NewSize(width, message.MinSize().Height))
	messageHeight := message.MinSize().Height
	message.Move(fyne.NewPos(0, y))
	message.Resize(fyne.NewSize(width, messageHeight))
	y += messageHeight + panelSpacing*2

	buttonSize := button.MinSize()
	buttonWidth := buttonSize.Width * 1.4
	if buttonWidth > width {
		buttonWidth = width
	}
	button.Move(fyne.NewPos((width-buttonWidth)/2, y))
	button.Resize(fyne.NewSize(buttonWidth, buttonSize.Height))
}

func (layout *breakPanelLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 4 {
		return fyne.NewSize(0, 0)
	}
	width := panelWidth
	height := panelSpacing * 4
	for _, object := range objects {
		minSize := object.MinSize()
		if minSize.Width > width {
			width = minSize.Width
		}
		height += minSize.Height
	}
	return fyne.NewSize(width, height)
}
