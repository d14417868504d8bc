package mainwindow

import (
	"image/color"

	"clickbreak/internal/clicksource"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// clickArea reports every pointer-down inside its bounds.
type clickArea struct {
	widget.BaseWidget
	onPress func(x, y float64, button clicksource.Button)
}

var _ desktop.Mouseable = (*clickArea)(nil)

func newClickArea(onPress func(x, y float64, button clicksource.Button)) *clickArea {
	area := &clickArea{onPress: onPress}
	area.ExtendBaseWidget(area)
	return area
}

// MouseDown reports the press. clickArea is not Tappable, so each physical click
// arrives exactly once.
func (area *clickArea) MouseDown(event *desktop.MouseEvent) {
	button, ok := mouseButton(event.Button)
	if !ok || area.onPress == nil {
		return
	}
	area.onPress(float64(event.Position.X), float64(event.Position.Y), button)
}

func (area *clickArea) MouseUp(*desktop.MouseEvent) {}

func (area *clickArea) CreateRenderer() fyne.WidgetRenderer {
	background := canvas.NewRectangle(color.NRGBA{R: 168, G: 85, B: 247, A: 40})
	background.StrokeColor = color.NRGBA{R: 168, G: 85, B: 247, A: 160}
	background.StrokeWidth = 2
	background.CornerRadius = 12

	hint := canvas.NewText("Click anywhere in this area", color.NRGBA{R: 148, G: 163, B: 184, A: 255})
	hint.Alignment = fyne.TextAlignCenter

	return &clickAreaRenderer{background: background, hint: hint}
}

func mouseButton(button desktop.MouseButton) (clicksource.Button, bool) {
	switch button {
	case desktop.MouseButtonPrimary:
		return clicksource.ButtonLeft, true
	case desktop.MouseButtonSecondary:
		return clicksource.ButtonRight, true
	case desktop.MouseButtonTertiary:
		return clicksource.ButtonMiddle, true
	default:
		return clicksource.ButtonLeft, false
	}
}

type clickAreaRenderer struct {
	background *canvas.Rectangle
	hint       *canvas.Text
}

func (renderer *clickAreaRenderer) Layout(size fyne.Size) {
	renderer.background.Resize(size)
	hintSize := renderer.hint.MinSize()
	renderer.hint.Move(fyne.NewPos(0, (size.Height-hintSize.Height)/2))
	renderer.hint.Resize(fyne.NewSize(size.Width, hintSize.Height))
}

func (renderer *clickAreaRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 200)
}

func (renderer *clickAreaRenderer) Refresh() {
	renderer.background.Refresh()
	renderer.hint.Refresh()
}

func (renderer *clickAreaRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{renderer.background, renderer.hint}
}

func (renderer *clickAreaRenderer) Destroy() {}
