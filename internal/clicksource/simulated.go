package clicksource

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

const (
	simulatedScreenWidth  = 1920
	simulatedScreenHeight = 1080
)

// simulatedHook emits synthetic left clicks on a fixed interval with a fixed probability.
type simulatedHook struct {
	interval    time.Duration
	probability float64
	rng         *rand.Rand
	clock       func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func newSimulatedHook(options Options) *simulatedHook {
	interval := options.SimulatedInterval
	if interval <= 0 {
		interval = DefaultSimulatedInterval
	}
	probability := options.SimulatedProbability
	if probability <= 0 {
		probability = DefaultSimulatedProbability
	}
	rng := options.Random
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	clock := options.Clock
	if clock == nil {
		clock = time.Now
	}
	return &simulatedHook{
		interval:    interval,
		probability: probability,
		rng:         rng,
		clock:       clock,
	}
}

func (hook *simulatedHook) Name() string {
	return "simulated"
}

func (hook *simulatedHook) Install(emit func(ClickEvent), _ func(error)) error {
	hook.mu.Lock()
	defer hook.mu.Unlock()
	if hook.cancel != nil {
		return errors.New("simulated hook already installed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	hook.cancel = cancel
	hook.done = done
	go hook.run(ctx, done, emit)
	return nil
}

func (hook *simulatedHook) Uninstall() error {
	hook.mu.Lock()
	cancel := hook.cancel
	done := hook.done
	hook.cancel = nil
	hook.done = nil
	hook.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

func (hook *simulatedHook) run(ctx context.Context, done chan struct{}, emit func(ClickEvent)) {
	defer close(done)
	ticker := time.NewTicker(hook.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if hook.rng.Float64() >= hook.probability {
				continue
			}
			emit(ClickEvent{
				Timestamp: hook.clock(),
				X:         float64(hook.rng.Intn(simulatedScreenWidth)),
				Y:         float64(hook.rng.Intn(simulatedScreenHeight)),
				Button:    ButtonLeft,
			})
		}
	}
}
