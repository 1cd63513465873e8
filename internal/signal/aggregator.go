// Package signal converts the raw heart-rate stream into a rolling
// stress estimate. The aggregator keeps a short sample window plus a
// slowly-moving baseline and blends heart-rate elevation with low
// variability into a single [0,1] score.
package signal

import (
	"github.com/synheart/calmband/internal/models"
)

const (
	// windowSize bounds the recent-sample window
	windowSize = 10

	// minSamples is the window length below which stress stays neutral
	minSamples = 3

	// neutralStress is reported until enough samples arrive
	neutralStress = 0.5
)

// StressFunc computes a stress score from the current heart rate, the
// long-window baseline and the sample variance of the recent window.
// Implementations must return a value in [0,1]; the aggregator clamps
// the result regardless.
type StressFunc func(hr, baseline, variance float64) float64

// DefaultStress is the builtin stress formula: 70% heart-rate
// elevation over baseline, 30% suppressed variability.
func DefaultStress(hr, baseline, variance float64) float64 {
	hrStress := clamp((hr-baseline)/30.0, 0, 1)
	hrvStress := clamp((20.0-variance)/20.0, 0, 1)
	return 0.7*hrStress + 0.3*hrvStress
}

// Aggregator maintains the sliding sample window and current stress.
// It is not safe for concurrent use; the monitor serializes access.
type Aggregator struct {
	recent   []float64
	baseline float64
	stress   float64
	score    StressFunc
}

// NewAggregator creates an aggregator with the given resting baseline
func NewAggregator(baseline float64) *Aggregator {
	return &Aggregator{
		recent:   make([]float64, 0, windowSize),
		baseline: baseline,
		stress:   neutralStress,
		score:    DefaultStress,
	}
}

// SetStressFunc replaces the builtin formula, e.g. with a wasm model
func (a *Aggregator) SetStressFunc(fn StressFunc) {
	if fn != nil {
		a.score = fn
	}
}

// Ingest appends a sample, evicting the oldest once the window is
// full, and recomputes the stress score.
func (a *Aggregator) Ingest(s models.Sample) {
	a.recent = append(a.recent, s.Value)
	if len(a.recent) > windowSize {
		a.recent = a.recent[1:]
	}
	a.recompute()
}

// Stress returns the current stress score in [0,1]
func (a *Aggregator) Stress() float64 {
	return a.stress
}

// Baseline returns the long-window resting heart rate
func (a *Aggregator) Baseline() float64 {
	return a.baseline
}

// RecomputeBaseline replaces the baseline with a long-window average
// computed by the health source (typically a 7-day query).
func (a *Aggregator) RecomputeBaseline(longWindowAverage float64) {
	a.baseline = longWindowAverage
	a.recompute()
}

// WindowLen returns the number of samples currently held
func (a *Aggregator) WindowLen() int {
	return len(a.recent)
}

// Window returns a copy of the recent values, oldest first
func (a *Aggregator) Window() []float64 {
	out := make([]float64, len(a.recent))
	copy(out, a.recent)
	return out
}

func (a *Aggregator) recompute() {
	if len(a.recent) < minSamples {
		a.stress = neutralStress
		return
	}
	current := a.recent[len(a.recent)-1]
	a.stress = clamp(a.score(current, a.baseline, sampleVariance(a.recent)), 0, 1)
}

// sampleVariance divides by n-1; zero when fewer than two values
func sampleVariance(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return ss / float64(n-1)
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
