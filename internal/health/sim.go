package health

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/synheart/calmband/internal/models"
	"github.com/synheart/calmband/internal/scenario"
)

// historyCap bounds the sample history kept for average queries
const historyCap = 10000

// Simulator generates heart-rate samples from a scenario. Values
// follow the phase-adjusted baseline with gaussian noise, clamped to a
// realistic range.
type Simulator struct {
	engine *scenario.Engine
	rng    *rand.Rand
	rate   time.Duration

	mu      sync.Mutex
	history []models.Sample
	active  bool
}

// SimConfig holds simulator configuration
type SimConfig struct {
	Seed int64
	Rate time.Duration // sample period, defaults to 1s
}

// NewSimulator creates a seeded simulator over a scenario engine
func NewSimulator(engine *scenario.Engine, config SimConfig) *Simulator {
	rate := config.Rate
	if rate <= 0 {
		rate = time.Second
	}
	return &Simulator{
		engine: engine,
		rng:    rand.New(rand.NewSource(config.Seed)),
		rate:   rate,
	}
}

// Run emits samples at the configured rate until the scenario
// completes or ctx is cancelled
func (s *Simulator) Run(ctx context.Context, out chan<- models.Sample) error {
	ticker := time.NewTicker(s.rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if s.engine.IsComplete() {
				return nil
			}
			sample := s.next(now)
			select {
			case out <- sample:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (s *Simulator) next(now time.Time) models.Sample {
	eff := s.engine.Current()

	value := eff.Baseline + s.rng.NormFloat64()*eff.Noise
	value = clamp(value, 40, 200)

	sample := models.Sample{Value: value, Timestamp: now}

	s.mu.Lock()
	s.active = eff.Active
	s.history = append(s.history, sample)
	if len(s.history) > historyCap {
		s.history = s.history[1:]
	}
	s.mu.Unlock()

	return sample
}

// AverageRate averages the retained history over the given range
func (s *Simulator) AverageRate(from, to time.Time) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum float64
	n := 0
	for _, sample := range s.history {
		if sample.Timestamp.Before(from) || sample.Timestamp.After(to) {
			continue
		}
		sum += sample.Value
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// ActivityInProgress reports the current phase's workout flag
func (s *Simulator) ActivityInProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
