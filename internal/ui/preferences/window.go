package preferences

import (
	"errors"
	"strconv"

	"clickbreak/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   model.Settings
	onSave     func(model.Settings) error
	nameEntry  *widget.Entry
	goalEntry  *widget.Entry
	errorLabel *widget.Label
	saveButton *widget.Button
}

// New creates a preferences window. onSave returns an error to keep the window
// open with the message shown.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings) error) *Window {
	window := app.NewWindow("ClickBreak Settings")

	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder(model.DefaultDisplayName)

	goalEntry := widget.NewEntry()
	goalEntry.SetPlaceHolder(strconv.Itoa(model.DefaultClickGoal))

	errorLabel := widget.NewLabel("")
	errorLabel.Importance = widget.DangerImportance
	errorLabel.Wrapping = fyne.TextWrapWord
	errorLabel.Hide()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Settings", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Your name"),
		nameEntry,
		widget.NewLabel("Clicks before a break"),
		goalEntry,
		errorLabel,
	)

	saveButton := widget.NewButton("Save Settings", nil)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(layout.NewSpacer(), cancelButton, saveButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(360, 280))
	window.SetCloseIntercept(window.Hide)

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		nameEntry:  nameEntry,
		goalEntry:  goalEntry,
		errorLabel: errorLabel,
		saveButton: saveButton,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	goalEntry.OnSubmitted = func(string) { prefs.handleSave() }
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.nameEntry.SetText(settings.DisplayName)
	prefs.goalEntry.SetText(strconv.Itoa(settings.ClickGoal))
	prefs.clearError()
}

func (prefs *Window) handleSave() {
	settings, err := parseForm(prefs.nameEntry.Text, prefs.goalEntry.Text)
	if err != nil {
		prefs.showError(err)
		return
	}

	if prefs.onSave != nil {
		if err := prefs.onSave(settings); err != nil {
			prefs.showError(err)
			return
		}
	}

	prefs.UpdateSettings(settings)
	prefs.window.Hide()
}

func (prefs *Window) showError(err error) {
	message := "Could not save settings: " + err.Error()
	if errors.Is(err, model.ErrInvalidClickGoal) {
		message = "Clicks before a break must be a whole number greater than zero."
	}
	prefs.errorLabel.SetText(message)
	prefs.errorLabel.Show()
}

func (prefs *Window) clearError() {
	prefs.errorLabel.SetText("")
	prefs.errorLabel.Hide()
}
