package health

import (
	"context"
	"sync"
	"time"

	"github.com/synheart/calmband/internal/models"
)

// FakeSource is a test double that emits scripted samples.
type FakeSource struct {
	// Samples are emitted in order by Run, back to back
	Samples []models.Sample

	// Average is returned by AverageRate when HasAverage is set
	Average    float64
	HasAverage bool

	mu     sync.Mutex
	active bool
}

// NewFakeSource creates a fake emitting the given samples
func NewFakeSource(samples []models.Sample) *FakeSource {
	return &FakeSource{Samples: samples}
}

// Run emits every scripted sample, then returns
func (f *FakeSource) Run(ctx context.Context, out chan<- models.Sample) error {
	for _, s := range f.Samples {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- s:
		}
	}
	return nil
}

// AverageRate returns the scripted average
func (f *FakeSource) AverageRate(from, to time.Time) (float64, bool) {
	return f.Average, f.HasAverage
}

// ActivityInProgress reports the scripted workout state
func (f *FakeSource) ActivityInProgress() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// SetActive scripts the workout state
func (f *FakeSource) SetActive(active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = active
}
