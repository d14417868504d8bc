package clicksource

import (
	"strconv"
	"strings"
	"time"
)

// xinputParser turns `xinput test-xi2 --root` output into click events.
//
// Each event is a block starting with "EVENT type N (Name)" followed by indented
// fields. Only raw presses are counted: a regular ButtonPress reaches the root
// window only when no client under the pointer selected button events, while
// RawButtonPress is delivered for every press. Raw events carry no screen
// position, so clicks are reported at 0,0.
//
// A raw block lists "time:" before "detail:". The same press reported twice
// (same server time and button) is emitted once.
type xinputParser struct {
	clock      func() time.Time
	inPress    bool
	time       string
	lastTime   string
	lastButton Button
	emitted    bool
}

func newXInputParser(clock func() time.Time) *xinputParser {
	if clock == nil {
		clock = time.Now
	}
	return &xinputParser{clock: clock}
}

// Feed consumes one line and returns a click when the line completes a press.
func (parser *xinputParser) Feed(line string) (ClickEvent, bool) {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, "EVENT type") {
		parser.inPress = strings.HasSuffix(trimmed, "(RawButtonPress)")
		parser.time = ""
		return ClickEvent{}, false
	}
	if !parser.inPress {
		return ClickEvent{}, false
	}

	switch {
	case strings.HasPrefix(trimmed, "time:"):
		parser.time = strings.TrimSpace(strings.TrimPrefix(trimmed, "time:"))
	case strings.HasPrefix(trimmed, "detail:"):
		parser.inPress = false
		value, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(trimmed, "detail:")))
		if err != nil {
			return ClickEvent{}, false
		}
		button, ok := xinputButton(value)
		if !ok {
			return ClickEvent{}, false
		}
		if parser.time != "" && parser.emitted && parser.time == parser.lastTime && button == parser.lastButton {
			return ClickEvent{}, false
		}
		parser.lastTime = parser.time
		parser.lastButton = button
		parser.emitted = true
		return ClickEvent{Timestamp: parser.clock(), Button: button}, true
	}
	return ClickEvent{}, false
}

// xinputButton maps X11 button numbers; 4-7 are wheel steps and 8+ are side buttons.
func xinputButton(detail int) (Button, bool) {
	switch detail {
	case 1:
		return ButtonLeft, true
	case 2:
		return ButtonMiddle, true
	case 3:
		return ButtonRight, true
	default:
		return ButtonLeft, false
	}
}
