package preferences

import (
	"fmt"
	"strconv"
	"strings"

	"clickbreak/internal/core/model"
)

// parseForm converts the raw form fields into settings. An empty name falls back
// to the default; the goal must be a positive whole number.
func parseForm(name, goal string) (model.Settings, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(goal))
	if err != nil {
		return model.Settings{}, fmt.Errorf("%w: %q is not a number", model.ErrInvalidClickGoal, goal)
	}

	settings := model.Settings{DisplayName: name, ClickGoal: parsed}.Normalized()
	if err := settings.Validate(); err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}
