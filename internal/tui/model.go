// Package tui is the terminal front end: mouse presses in the terminal count as
// in-window clicks.
package tui

import (
	"fmt"
	"strings"
	"time"

	"clickbreak/internal/clicksource"
	"clickbreak/internal/core/breakcycle"
	"clickbreak/internal/core/model"
	"clickbreak/internal/quotes"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Session is the application state the terminal UI drives.
type Session interface {
	HandleClick(event clicksource.ClickEvent) bool
	EndBreakNow()
	Snapshot() breakcycle.Snapshot
	Settings() model.Settings
	Subscribe(buffer int) <-chan breakcycle.Event
	SystemWideAvailable() bool
	SystemWideEnabled() bool
	EnableSystemWide() error
	DisableSystemWide()
}

type eventMsg breakcycle.Event

type eventsClosedMsg struct{}

// Model is the bubbletea model.
type Model struct {
	session  Session
	events   <-chan breakcycle.Event
	keys     KeyMap
	progress progress.Model
	picker   *quotes.Picker
	snapshot breakcycle.Snapshot
	message  string
	status   string
	statusOK bool
}

// NewModel creates the terminal UI model.
func NewModel(session Session, picker *quotes.Picker) Model {
	if picker == nil {
		picker = quotes.NewPicker(nil)
	}
	m := Model{
		session:  session,
		events:   session.Subscribe(32),
		keys:     DefaultKeyMap(),
		progress: progress.New(progress.WithGradient("#A855F7", "#EC4899")),
		picker:   picker,
		snapshot: session.Snapshot(),
	}
	if m.snapshot.BreakActive {
		m.message = picker.Next()
	}
	return m
}

// Init starts listening for controller events.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func waitForEvent(events <-chan breakcycle.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(event)
	}
}

// Update handles terminal input and controller events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = clamp(msg.Width-8, 10, 60)
		return m, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		button, ok := mouseButton(msg.Button)
		if !ok {
			return m, nil
		}
		m.session.HandleClick(clicksource.ClickEvent{
			Timestamp: time.Now(),
			X:         float64(msg.X),
			Y:         float64(msg.Y),
			Button:    button,
		})
		m = m.applySnapshot(m.session.Snapshot())
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.EndBreak):
			m.session.EndBreakNow()
			m = m.applySnapshot(m.session.Snapshot())
		case key.Matches(msg, m.keys.SystemWide):
			m = m.toggleSystemWide()
		}
		return m, nil

	case eventMsg:
		m = m.applySnapshot(msg.Snapshot)
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		return m, nil
	}

	return m, nil
}

func (m Model) applySnapshot(snapshot breakcycle.Snapshot) Model {
	if snapshot.BreakActive && !m.snapshot.BreakActive {
		m.message = m.picker.Next()
	}
	if !snapshot.BreakActive {
		m.message = ""
	}
	m.snapshot = snapshot
	return m
}

func (m Model) toggleSystemWide() Model {
	if !m.session.SystemWideAvailable() {
		m.status, m.statusOK = "System-wide tracking is not available here", false
		return m
	}
	if m.session.SystemWideEnabled() {
		m.session.DisableSystemWide()
		m.status, m.statusOK = "System-wide tracking off", true
		return m
	}
	if err := m.session.EnableSystemWide(); err != nil {
		m.status, m.statusOK = fmt.Sprintf("System-wide tracking unavailable: %v", err), false
		return m
	}
	m.status, m.statusOK = "System-wide tracking on", true
	return m
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("ClickBreak"))
	b.WriteString("\n")
	b.WriteString(GreetingStyle.Render(fmt.Sprintf("Hey %s, let's track those clicks!", m.session.Settings().DisplayName)))
	b.WriteString("\n\n")

	if m.snapshot.BreakActive {
		body := lipgloss.JoinVertical(lipgloss.Center,
			"Time for a break!",
			"",
			CountdownStyle.Render(formatCountdown(m.snapshot.BreakRemainingSeconds)),
			"",
			m.message,
		)
		b.WriteString(BreakPanelStyle.Render(body))
	} else {
		body := lipgloss.JoinVertical(lipgloss.Left,
			"Click anywhere in this terminal",
			"",
			m.progress.ViewAs(m.snapshot.Progress()),
			fmt.Sprintf("%d / %d", m.snapshot.ClickCount, m.snapshot.ClickGoal),
		)
		b.WriteString(PanelStyle.Render(body))
	}
	b.WriteString("\n")

	tracking := "Tracking: this terminal only"
	if m.session.SystemWideEnabled() {
		tracking = "Tracking: system-wide"
	}
	b.WriteString(MutedStyle.Render(tracking))
	b.WriteString("\n")

	if m.status != "" {
		style := ErrorStyle
		if m.statusOK {
			style = ActiveStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(MutedStyle.Render(helpLine(m.keys)))
	b.WriteString("\n")
	return b.String()
}

func helpLine(keys KeyMap) string {
	parts := make([]string, 0, len(keys.ShortHelp()))
	for _, binding := range keys.ShortHelp() {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, " • ")
}

func mouseButton(button tea.MouseButton) (clicksource.Button, bool) {
	switch button {
	case tea.MouseButtonLeft:
		return clicksource.ButtonLeft, true
	case tea.MouseButtonRight:
		return clicksource.ButtonRight, true
	case tea.MouseButtonMiddle:
		return clicksource.ButtonMiddle, true
	default:
		return clicksource.ButtonLeft, false
	}
}

func formatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// Run starts the program on the alternate screen with mouse capture.
func Run(session Session, picker *quotes.Picker) error {
	program := tea.NewProgram(
		NewModel(session, picker),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := program.Run()
	return err
}
