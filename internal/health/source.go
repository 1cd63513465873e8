// Package health abstracts the platform health-data subscription. A
// source pushes heart-rate samples, answers average-over-range queries
// for baseline recomputes, and reports whether a workout is underway.
package health

import (
	"context"
	"time"

	"github.com/synheart/calmband/internal/models"
)

// Source delivers heart-rate data to the monitor
type Source interface {
	// Run pushes samples into out until ctx is cancelled or the
	// source is exhausted. It must not close out.
	Run(ctx context.Context, out chan<- models.Sample) error

	// AverageRate returns the mean heart rate over the range.
	// ok is false when no samples fall inside it.
	AverageRate(from, to time.Time) (avg float64, ok bool)

	// ActivityInProgress reports whether a workout is underway
	ActivityInProgress() bool
}
