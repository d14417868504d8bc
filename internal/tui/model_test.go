package tui

import (
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"clickbreak/internal/app"
	"clickbreak/internal/clicksource"
	"clickbreak/internal/core/model"
	"clickbreak/internal/quotes"
	"clickbreak/internal/storage"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

func newSession(t *testing.T, goal int) *app.Context {
	t.Helper()
	store := storage.NewStoreAt(filepath.Join(t.TempDir(), "settings.yaml"))
	if err := store.Save(model.Settings{DisplayName: "Ada", ClickGoal: goal}); err != nil {
		t.Fatal(err)
	}
	session := app.New(app.Options{Store: store, Logger: zerolog.Nop()})
	t.Cleanup(session.Shutdown)
	return session
}

func press(m Model, button tea.MouseButton) Model {
	updated, _ := m.Update(tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: button})
	return updated.(Model)
}

func keyPress(m Model, r rune) (Model, tea.Cmd) {
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return updated.(Model), cmd
}

func TestMousePressesCount(t *testing.T) {
	session := newSession(t, 10)
	m := NewModel(session, quotes.NewPicker(rand.New(rand.NewSource(1))))

	m = press(m, tea.MouseButtonLeft)
	m = press(m, tea.MouseButtonRight)
	m = press(m, tea.MouseButtonWheelUp)

	released, _ := m.Update(tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = released.(Model)

	if m.snapshot.ClickCount != 2 {
		t.Errorf("ClickCount = %d, want 2", m.snapshot.ClickCount)
	}
	if !strings.Contains(m.View(), "2 / 10") {
		t.Errorf("view should show progress, got:\n%s", m.View())
	}
	if !strings.Contains(m.View(), "Hey Ada") {
		t.Error("view should greet the user")
	}
}

func TestBreakViewAndEndKey(t *testing.T) {
	session := newSession(t, 2)
	m := NewModel(session, quotes.NewPicker(rand.New(rand.NewSource(1))))

	m = press(m, tea.MouseButtonLeft)
	m = press(m, tea.MouseButtonLeft)
	if !m.snapshot.BreakActive {
		t.Fatal("goal reached, expected a break")
	}

	view := m.View()
	if !strings.Contains(view, "Time for a break!") || !strings.Contains(view, "15:00") {
		t.Errorf("break view missing countdown:\n%s", view)
	}
	if m.message == "" {
		t.Error("a break message should be chosen")
	}

	m = press(m, tea.MouseButtonLeft)
	if session.Snapshot().ClickCount != 2 {
		t.Error("clicks during a break must be ignored")
	}

	m, _ = keyPress(m, 'e')
	if m.snapshot.BreakActive || m.snapshot.ClickCount != 0 {
		t.Errorf("snapshot after end = %+v", m.snapshot)
	}
	if m.message != "" {
		t.Error("message should clear after the break")
	}
}

func TestEventMessagesUpdateSnapshot(t *testing.T) {
	session := newSession(t, 5)
	m := NewModel(session, nil)

	session.HandleClick(eventClick())
	msg := m.Init()()
	updated, cmd := m.Update(msg)
	m = updated.(Model)

	if m.snapshot.ClickCount != 1 {
		t.Errorf("ClickCount = %d, want 1", m.snapshot.ClickCount)
	}
	if cmd == nil {
		t.Error("model should keep listening for events")
	}
}

func TestSystemWideToggleUnavailable(t *testing.T) {
	session := newSession(t, 5)
	m := NewModel(session, nil)

	m, _ = keyPress(m, 's')
	if m.statusOK || !strings.Contains(m.status, "not available") {
		t.Errorf("status = %q", m.status)
	}
}

func TestQuitKey(t *testing.T) {
	session := newSession(t, 5)
	m := NewModel(session, nil)

	_, cmd := keyPress(m, 'q')
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{900, "15:00"},
		{61, "01:01"},
		{0, "00:00"},
		{-1, "00:00"},
	}
	for _, tt := range tests {
		if got := formatCountdown(tt.seconds); got != tt.want {
			t.Errorf("formatCountdown(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func eventClick() clicksource.ClickEvent {
	return clicksource.ClickEvent{Button: clicksource.ButtonLeft}
}
