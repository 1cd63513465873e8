package health

import (
	"testing"
	"time"

	"github.com/synheart/calmband/internal/scenario"
)

func newTestSimulator(s *scenario.Scenario, seed int64) *Simulator {
	return NewSimulator(scenario.NewEngine(s), SimConfig{Seed: seed})
}

func TestSimulatorTracksBaseline(t *testing.T) {
	// Zero noise makes the output deterministic
	s := &scenario.Scenario{
		Name:      "flat",
		Duration:  "unlimited",
		HeartRate: scenario.HeartRate{Baseline: 70, Noise: 0},
	}
	sim := newTestSimulator(s, 42)

	sample := sim.next(time.Now())
	if sample.Value != 70 {
		t.Errorf("expected exact baseline 70 with zero noise, got %v", sample.Value)
	}
}

func TestSimulatorClampsRange(t *testing.T) {
	s := &scenario.Scenario{
		Name:      "extreme",
		Duration:  "unlimited",
		HeartRate: scenario.HeartRate{Baseline: 500, Noise: 0},
	}
	sim := newTestSimulator(s, 42)

	if sample := sim.next(time.Now()); sample.Value != 200 {
		t.Errorf("expected value clamped to 200, got %v", sample.Value)
	}

	low := &scenario.Scenario{
		Name:      "flatline",
		Duration:  "unlimited",
		HeartRate: scenario.HeartRate{Baseline: 10, Noise: 0},
	}
	sim = newTestSimulator(low, 42)
	if sample := sim.next(time.Now()); sample.Value != 40 {
		t.Errorf("expected value clamped to 40, got %v", sample.Value)
	}
}

func TestSimulatorActivityFollowsPhase(t *testing.T) {
	s := &scenario.Scenario{
		Name:      "workout",
		Duration:  "unlimited",
		HeartRate: scenario.HeartRate{Baseline: 70, Noise: 0},
		Phases: []scenario.Phase{
			{Name: "run", Duration: "unlimited", Multiply: 2, Active: true},
		},
	}
	sim := newTestSimulator(s, 42)

	sample := sim.next(time.Now())
	if sample.Value != 140 {
		t.Errorf("expected multiplied baseline 140, got %v", sample.Value)
	}
	if !sim.ActivityInProgress() {
		t.Error("expected activity to be in progress during the workout phase")
	}
}

func TestSimulatorAverageRate(t *testing.T) {
	s := &scenario.Scenario{
		Name:      "flat",
		Duration:  "unlimited",
		HeartRate: scenario.HeartRate{Baseline: 80, Noise: 0},
	}
	sim := newTestSimulator(s, 42)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		sim.next(base.Add(time.Duration(i) * time.Second))
	}

	avg, ok := sim.AverageRate(base, base.Add(10*time.Second))
	if !ok {
		t.Fatal("expected samples inside the range")
	}
	if avg != 80 {
		t.Errorf("expected average 80, got %v", avg)
	}

	// Window with no samples
	if _, ok := sim.AverageRate(base.Add(time.Hour), base.Add(2*time.Hour)); ok {
		t.Error("expected ok=false for an empty window")
	}
}

func TestSimulatorSeedIsDeterministic(t *testing.T) {
	s := &scenario.Scenario{
		Name:      "noisy",
		Duration:  "unlimited",
		HeartRate: scenario.HeartRate{Baseline: 70, Noise: 5},
	}

	now := time.Now()
	a := newTestSimulator(s, 7)
	b := newTestSimulator(s, 7)
	for i := 0; i < 10; i++ {
		if av, bv := a.next(now).Value, b.next(now).Value; av != bv {
			t.Fatalf("same seed diverged at sample %d: %v vs %v", i, av, bv)
		}
	}
}
