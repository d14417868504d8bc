package clicksource

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSimulatedModeEmitsClicks(t *testing.T) {
	source := NewSystemWide(Options{
		Mode:                 ModeSimulated,
		SimulatedInterval:    time.Millisecond,
		SimulatedProbability: 1,
		Random:               rand.New(rand.NewSource(1)),
		Logger:               zerolog.Nop(),
	})
	if source.Mechanism() != "simulated" {
		t.Fatalf("Mechanism = %q, want simulated", source.Mechanism())
	}

	clicks := make(chan ClickEvent, 16)
	source.OnClick(func(event ClickEvent) {
		select {
		case clicks <- event:
		default:
		}
	})

	if !source.Start() {
		t.Fatalf("Start failed: %v", source.LastError())
	}

	select {
	case event := <-clicks:
		if event.Button != ButtonLeft {
			t.Errorf("Button = %s, want left", event.Button)
		}
		if event.X < 0 || event.X >= simulatedScreenWidth || event.Y < 0 || event.Y >= simulatedScreenHeight {
			t.Errorf("position out of range: %v,%v", event.X, event.Y)
		}
	case <-time.After(time.Second):
		t.Fatal("no simulated click within a second")
	}

	if !source.Stop() {
		t.Fatal("Stop failed")
	}
	for len(clicks) > 0 {
		<-clicks
	}
	time.Sleep(10 * time.Millisecond)
	if len(clicks) != 0 {
		t.Error("clicks delivered after Stop")
	}
}

func TestSimulatedHookDefaults(t *testing.T) {
	hook := newSimulatedHook(Options{})
	if hook.interval != DefaultSimulatedInterval {
		t.Errorf("interval = %v, want %v", hook.interval, DefaultSimulatedInterval)
	}
	if hook.probability != DefaultSimulatedProbability {
		t.Errorf("probability = %v, want %v", hook.probability, DefaultSimulatedProbability)
	}
}

func TestSimulatedHookDoubleInstall(t *testing.T) {
	hook := newSimulatedHook(Options{SimulatedInterval: time.Hour})
	if err := hook.Install(func(ClickEvent) {}, nil); err != nil {
		t.Fatalf("Install: %v", err)
	}
	defer hook.Uninstall()

	if err := hook.Install(func(ClickEvent) {}, nil); err == nil {
		t.Error("second Install should fail")
	}
}
