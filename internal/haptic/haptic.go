// Package haptic abstracts the vibration motor. The core only selects
// a symbolic pulse pattern; the device waveform is a driver concern.
// The log driver stands in for real hardware during local runs and the
// fake driver records pulses for tests.
package haptic

import (
	"time"

	"github.com/synheart/calmband/internal/models"
)

// Driver fires a single pulse. Fire-and-forget: the core never
// observes a result.
type Driver interface {
	Pulse()
}

// Pulse is one tactile pulse within a pattern, offset from pattern start
type Pulse struct {
	Offset time.Duration `json:"offset"`
}

// Pattern is an ordered list of pulses executed by the scheduler
type Pattern []Pulse

// PatternFor maps an event kind and sensitivity to its pulse pattern.
// Stress patterns get longer as sensitivity deepens.
func PatternFor(kind models.HapticKind, mode models.SensitivityMode) Pattern {
	switch kind {
	case models.HapticStress:
		switch mode {
		case models.SensitivityLight:
			return Pattern{{Offset: 0}}
		case models.SensitivityDeep:
			return Pattern{{Offset: 0}, {Offset: 300 * time.Millisecond}, {Offset: 600 * time.Millisecond}}
		default:
			return Pattern{{Offset: 0}, {Offset: 200 * time.Millisecond}}
		}
	case models.HapticMindfulness:
		return Pattern{{Offset: 0}, {Offset: 500 * time.Millisecond}}
	default:
		return Pattern{{Offset: 0}}
	}
}
