package cli

import (
	"errors"
	"fmt"

	"clickbreak/internal/app"
	"clickbreak/internal/clicksource"
	"clickbreak/internal/core/breakcycle"
	"clickbreak/internal/core/model"
	"clickbreak/internal/platform"
	"clickbreak/internal/quotes"
	"clickbreak/internal/ui/mainwindow"
	"clickbreak/internal/ui/overlay"
	"clickbreak/internal/ui/preferences"
	"clickbreak/internal/ui/tray"
	"clickbreak/resources"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/cobra"
)

func runDesktop(cmd *cobra.Command, opts *options) error {
	cfg, logger, err := setup(cmd, opts)
	if err != nil {
		return err
	}

	activations := make(chan struct{}, 1)
	guard, err := platform.AcquireSingleInstance(appName, func() {
		select {
		case activations <- struct{}{}:
		default:
		}
	})
	if errors.Is(err, platform.ErrAlreadyRunning) {
		logger.Info().Err(err).Msg("ClickBreak is already running, asked it to show its window")
		return nil
	}
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	rt, err := newRuntime(cfg, logger, opts)
	if err != nil {
		return err
	}
	defer rt.close()
	session := rt.session

	fyneApp := fyneapp.NewWithID("com.clickbreak.app")
	fyneApp.SetIcon(resources.MustLogo(resources.LogoActive))
	activeIcon := resources.MustLogo(resources.LogoActive)
	breakIcon := resources.MustLogo(resources.LogoBreak)
	picker := quotes.NewPicker(nil)

	overlayWindow := overlay.New(fyneApp, overlay.DefaultConfig())
	overlayWindow.SetOnEndBreak(session.EndBreakNow)

	var prefsWindow *preferences.Window
	mainWindow := mainwindow.New(fyneApp, mainwindow.Callbacks{
		OnClick: func(x, y float64, button clicksource.Button) {
			session.Windowed().Emit(x, y, button)
		},
		OnSettings: func() {
			prefsWindow.Show()
		},
	})
	prefsWindow = preferences.New(fyneApp, session.Settings(), func(updated model.Settings) error {
		if err := session.SaveSettings(updated); err != nil {
			return err
		}
		mainWindow.SetGreeting(session.Settings().DisplayName)
		return nil
	})

	desktopApp, hasTray := fyneApp.(desktop.App)
	var trayApp desktop.App
	if hasTray {
		trayApp = desktopApp
	} else {
		logger.Warn().Msg("System tray unsupported on this platform")
		mainWindow.Window().SetCloseIntercept(fyneApp.Quit)
	}

	var trayManager *tray.Manager
	refreshTracking := func() {
		mainWindow.SetTracking(trackingDescription(session))
		trayManager.SetTracking(session.SystemWideEnabled(), session.SystemWideAvailable())
	}
	trayManager = tray.New(trayApp, tray.Callbacks{
		OnToggleWindow: mainWindow.Toggle,
		OnToggleTracking: func() {
			if session.SystemWideEnabled() {
				session.DisableSystemWide()
			} else if err := session.EnableSystemWide(); err != nil {
				logger.Warn().Err(err).Msg("System-wide tracking unavailable, counting window clicks only")
			}
			refreshTracking()
		},
		OnEndBreak:    session.EndBreakNow,
		OnPreferences: prefsWindow.Show,
		OnQuit:        fyneApp.Quit,
	})
	if hasTray {
		desktopApp.SetSystemTrayIcon(activeIcon)
	}

	render := func(snapshot breakcycle.Snapshot) {
		mainWindow.SetProgress(snapshot)
		trayManager.SetStatus(statusText(snapshot))
	}

	events := session.Subscribe(16)
	go func() {
		for event := range events {
			fyne.Do(func() {
				handleEvent(event, overlayWindow, trayManager, picker)
				if event.Type == breakcycle.EventStateChange {
					icon := activeIcon
					if event.State == breakcycle.StateBreak {
						icon = breakIcon
					}
					if hasTray {
						desktopApp.SetSystemTrayIcon(icon)
					}
					refreshTracking()
				}
				render(event.Snapshot)
			})
		}
	}()

	go func() {
		for range activations {
			fyne.Do(mainWindow.Show)
		}
	}()

	hotkey, err := platform.RegisterToggleHotkey(func() {
		fyne.Do(mainWindow.Toggle)
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Global show/hide shortcut unavailable, binding it to the window only")
		mainWindow.UseWindowShortcut()
	} else {
		defer func() {
			if err := hotkey.Close(); err != nil {
				logger.Warn().Err(err).Msg("Failed to release global shortcut")
			}
		}()
	}

	session.Start()
	mainWindow.SetGreeting(session.Settings().DisplayName)
	render(session.Snapshot())
	refreshTracking()

	mainWindow.Show()
	fyneApp.Run()
	return nil
}

func handleEvent(event breakcycle.Event, overlayWindow *overlay.Window, trayManager *tray.Manager, picker *quotes.Picker) {
	switch event.Type {
	case breakcycle.EventStateChange:
		switch event.State {
		case breakcycle.StateBreak:
			trayManager.SetInBreak(true)
			overlayWindow.Show(event.Snapshot.Remaining(), picker.Next())
		case breakcycle.StateActive:
			trayManager.SetInBreak(false)
			overlayWindow.Hide()
		}
	case breakcycle.EventProgress:
		if event.State == breakcycle.StateBreak {
			overlayWindow.SetRemaining(event.Snapshot.Remaining())
		}
	}
}

func statusText(snapshot breakcycle.Snapshot) string {
	if snapshot.BreakActive {
		return formatRemaining(snapshot.BreakRemainingSeconds) + " left"
	}
	return fmt.Sprintf("%d / %d clicks", snapshot.ClickCount, snapshot.ClickGoal)
}

func trackingDescription(session *app.Context) string {
	switch {
	case session.SystemWideActive():
		return "Counting clicks system-wide"
	case session.SystemWideEnabled():
		return "System-wide counting paused for the break"
	default:
		return "Counting clicks in this window"
	}
}

func formatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
