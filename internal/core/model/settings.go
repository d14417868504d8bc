package model

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultDisplayName is used when no name has been saved yet.
	DefaultDisplayName = "Friend"
	// DefaultClickGoal is the number of clicks before the first break.
	DefaultClickGoal = 1000
)

// ErrInvalidClickGoal indicates a click goal that is not a positive integer.
var ErrInvalidClickGoal = errors.New("click goal must be a positive integer")

// Settings defines the user preferences that persist across sessions.
type Settings struct {
	DisplayName string
	ClickGoal   int
}

// DefaultSettings returns settings used on first launch or when loading fails.
func DefaultSettings() Settings {
	return Settings{
		DisplayName: DefaultDisplayName,
		ClickGoal:   DefaultClickGoal,
	}
}

// Validate checks settings at the save boundary.
func (settings Settings) Validate() error {
	if settings.ClickGoal <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidClickGoal, settings.ClickGoal)
	}
	return nil
}

// Normalized trims the display name and falls back to the default name when empty.
func (settings Settings) Normalized() Settings {
	settings.DisplayName = strings.TrimSpace(settings.DisplayName)
	if settings.DisplayName == "" {
		settings.DisplayName = DefaultDisplayName
	}
	return settings
}
