package health

import (
	"context"
	"sync"
	"time"

	"github.com/synheart/calmband/internal/models"
	"github.com/synheart/calmband/internal/recorder"
)

// ReplaySource feeds the monitor from a recorded sample file. It
// tracks emitted samples so average queries work during replay; no
// workout state is recorded, so ActivityInProgress is always false.
type ReplaySource struct {
	replayer *recorder.Replayer

	mu      sync.Mutex
	history []models.Sample
}

// NewReplaySource creates a source over a recording
func NewReplaySource(filename string, speed float64, loop bool) *ReplaySource {
	return &ReplaySource{
		replayer: recorder.NewReplayer(filename, speed, loop),
	}
}

// Count returns the number of samples in the recording
func (r *ReplaySource) Count() (int, error) {
	return r.replayer.Count()
}

// Run replays the recording into out
func (r *ReplaySource) Run(ctx context.Context, out chan<- models.Sample) error {
	tap := make(chan models.Sample, 100)
	done := make(chan error, 1)

	go func() {
		done <- r.replayer.Replay(ctx, tap)
		close(tap)
	}()

	for sample := range tap {
		r.mu.Lock()
		r.history = append(r.history, sample)
		if len(r.history) > historyCap {
			r.history = r.history[1:]
		}
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- sample:
		}
	}
	return <-done
}

// AverageRate averages replayed samples over the given range
func (r *ReplaySource) AverageRate(from, to time.Time) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sum float64
	n := 0
	for _, sample := range r.history {
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

// ActivityInProgress always reports false for recordings
func (r *ReplaySource) ActivityInProgress() bool {
	return false
}
