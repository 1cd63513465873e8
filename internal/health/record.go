package health

import (
	"context"
	"log"
	"time"

	"github.com/synheart/calmband/internal/models"
	"github.com/synheart/calmband/internal/recorder"
)

// RecordingSource decorates a source, writing every emitted sample to
// a recorder for later replay. Recording failures are logged, never
// propagated; losing the capture must not stop monitoring.
type RecordingSource struct {
	src Source
	rec *recorder.Recorder
}

// NewRecordingSource wraps src with a recorder tap
func NewRecordingSource(src Source, rec *recorder.Recorder) *RecordingSource {
	return &RecordingSource{src: src, rec: rec}
}

// Run passes samples through, recording each one
func (r *RecordingSource) Run(ctx context.Context, out chan<- models.Sample) error {
	tap := make(chan models.Sample, 100)
	done := make(chan error, 1)

	go func() {
		done <- r.src.Run(ctx, tap)
		close(tap)
	}()

	for sample := range tap {
		if err := r.rec.Record(sample); err != nil {
			log.Printf("health: failed to record sample: %v", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- sample:
		}
	}
	return <-done
}

// AverageRate delegates to the wrapped source
func (r *RecordingSource) AverageRate(from, to time.Time) (float64, bool) {
	return r.src.AverageRate(from, to)
}

// ActivityInProgress delegates to the wrapped source
func (r *RecordingSource) ActivityInProgress() bool {
	return r.src.ActivityInProgress()
}
