// Package policy holds the status classifier and the stateful trigger
// decision that turns snapshots into haptic nudges.
package policy

import "github.com/synheart/calmband/internal/models"

// Classify maps a stress score and heart rate to a discrete status.
// The NeedToRelax rule is checked first and short-circuits: a high
// heart rate alone forces NeedToRelax even with low stress.
func Classify(stress, heartRate float64) models.Status {
	if stress > 0.7 || heartRate > 100 {
		return models.StatusNeedToRelax
	}
	if stress < 0.3 && heartRate < 80 {
		return models.StatusSafe
	}
	return models.StatusCalm
}

// StatusOf classifies a snapshot
func StatusOf(snap models.HealthSnapshot) models.Status {
	return Classify(snap.StressLevel, snap.HeartRate)
}
