package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sample is a single heart-rate measurement pushed by a health source
type Sample struct {
	Value     float64   `json:"value"` // beats per minute
	Timestamp time.Time `json:"ts"`
}

// Status is the discrete user state derived from a snapshot
type Status string

const (
	StatusSafe        Status = "safe"
	StatusCalm        Status = "calm"
	StatusNeedToRelax Status = "need_to_relax"
)

// HealthSnapshot is an immutable view of the user's state at one instant
type HealthSnapshot struct {
	HeartRate   float64   `json:"heart_rate"`
	StressLevel float64   `json:"stress_level"`
	IsActive    bool      `json:"is_active"`
	Timestamp   time.Time `json:"ts"`
}

// HapticKind identifies the tactile pattern family of a nudge
type HapticKind string

const (
	HapticSafe        HapticKind = "safe"
	HapticStress      HapticKind = "stress"
	HapticMindfulness HapticKind = "mindfulness"
)

// HapticEvent records a single tactile nudge and its acknowledgment state.
// Acknowledgment is the only mutation an event ever receives.
type HapticEvent struct {
	ID           string     `json:"id"`
	Timestamp    time.Time  `json:"ts"`
	Kind         HapticKind `json:"kind"`
	Acknowledged bool       `json:"acknowledged"`
	ResponseTime *float64   `json:"response_time_s,omitempty"` // seconds from fire to acknowledgment
	HeartRate    float64    `json:"heart_rate"`
	StressLevel  float64    `json:"stress_level"`
}

// NewHapticEvent creates an event capturing the snapshot at trigger time
func NewHapticEvent(kind HapticKind, snap HealthSnapshot) HapticEvent {
	return HapticEvent{
		ID:          uuid.New().String(),
		Timestamp:   snap.Timestamp,
		Kind:        kind,
		HeartRate:   snap.HeartRate,
		StressLevel: snap.StressLevel,
	}
}

// InsightKind categorizes a generated insight
type InsightKind string

const (
	InsightTiming         InsightKind = "timing"
	InsightResponse       InsightKind = "response"
	InsightStress         InsightKind = "stress"
	InsightRecommendation InsightKind = "recommendation"
)

// Insight is a confidence-scored observation mined from the event log
type Insight struct {
	ID         string      `json:"id"`
	Message    string      `json:"message"`
	Confidence float64     `json:"confidence"` // 0..1
	Timestamp  time.Time   `json:"ts"`
	Kind       InsightKind `json:"kind"`
}

// NewInsight creates an insight with a generated id
func NewInsight(kind InsightKind, message string, confidence float64, now time.Time) Insight {
	return Insight{
		ID:         uuid.New().String(),
		Message:    message,
		Confidence: confidence,
		Timestamp:  now,
		Kind:       kind,
	}
}

// SensitivityMode controls how easily stress nudges fire
type SensitivityMode string

const (
	SensitivityLight  SensitivityMode = "light"
	SensitivityMedium SensitivityMode = "medium"
	SensitivityDeep   SensitivityMode = "deep"
)

// Threshold returns the stress level above which a nudge fires.
// Deeper sensitivity means a lower threshold, so it triggers more easily.
func (m SensitivityMode) Threshold() float64 {
	switch m {
	case SensitivityLight:
		return 0.8
	case SensitivityDeep:
		return 0.4
	default:
		return 0.6
	}
}

// ParseSensitivity parses a user-supplied sensitivity name
func ParseSensitivity(s string) (SensitivityMode, error) {
	switch SensitivityMode(s) {
	case SensitivityLight, SensitivityMedium, SensitivityDeep:
		return SensitivityMode(s), nil
	}
	return "", fmt.Errorf("unknown sensitivity %q (want light, medium or deep)", s)
}

// Reminder interval bounds in seconds
const (
	MinReminderInterval = 300.0
	MaxReminderInterval = 3600.0
)

// Config holds the user-tunable monitoring settings
type Config struct {
	Sensitivity       SensitivityMode `json:"sensitivity_mode"`
	MonitoringEnabled bool            `json:"monitoring_enabled"`
	ReminderInterval  float64         `json:"reminder_interval_s"`
	LastAcknowledged  *time.Time      `json:"last_acknowledged,omitempty"`
}

// DefaultConfig returns the settings used when nothing is persisted
func DefaultConfig() Config {
	return Config{
		Sensitivity:       SensitivityMedium,
		MonitoringEnabled: true,
		ReminderInterval:  MaxReminderInterval,
	}
}

// ClampReminderInterval bounds an interval to the allowed range
func ClampReminderInterval(seconds float64) float64 {
	if seconds < MinReminderInterval {
		return MinReminderInterval
	}
	if seconds > MaxReminderInterval {
		return MaxReminderInterval
	}
	return seconds
}
