// Package quotes supplies the message shown on the break overlay.
package quotes

import (
	"math/rand"
	"sync"
	"time"
)

var messages = []string{
	"Remember to stretch and hydrate. You're doing great!",
	"Take a deep breath and enjoy this moment of calm.",
	"Rest your eyes and give your mind a moment to recharge.",
	"Time to reset - you've earned this break!",
	"Step away from the screen and refresh your focus.",
	"Your productivity will thank you for this break.",
	"Taking breaks improves your overall performance.",
	"A short break now means better focus later.",
}

// All returns a copy of the break messages.
func All() []string {
	return append([]string(nil), messages...)
}

// Picker chooses break messages at random. It is safe for concurrent use.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker creates a picker. A nil rng is seeded from the clock.
func NewPicker(rng *rand.Rand) *Picker {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Picker{rng: rng}
}

// Next returns a random break message.
func (picker *Picker) Next() string {
	picker.mu.Lock()
	defer picker.mu.Unlock()
	return messages[picker.rng.Intn(len(messages))]
}
