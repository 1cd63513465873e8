package scenario

import "time"

// Scenario defines a simulated heart-rate session with phases
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Duration    string    `yaml:"duration"` // e.g. "30m", "unlimited"
	SampleRate  string    `yaml:"sample_rate"`
	HeartRate   HeartRate `yaml:"heart_rate"`
	Phases      []Phase   `yaml:"phases"`
}

// HeartRate is the base signal configuration
type HeartRate struct {
	Baseline float64 `yaml:"baseline"` // resting bpm
	Noise    float64 `yaml:"noise"`    // gaussian noise stddev
}

// Phase is a time-bounded stage with modifiers over the base signal
type Phase struct {
	Name     string  `yaml:"name"`
	Duration string  `yaml:"duration"`
	Add      float64 `yaml:"add,omitempty"`
	Multiply float64 `yaml:"multiply,omitempty"`
	Active   bool    `yaml:"active,omitempty"` // workout in progress
}

// Effective is the resolved signal configuration at a point in time
type Effective struct {
	Baseline float64
	Noise    float64
	Active   bool
}

// ParseDuration parses duration strings like "8m", "30s", "unlimited"
func ParseDuration(s string) (time.Duration, bool) {
	if s == "unlimited" || s == "" {
		return 0, true // 0 means unlimited
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, false
	}
	return d, false
}

// At resolves the effective heart-rate configuration at elapsed time,
// applying the current phase's modifiers over the base signal.
func (s *Scenario) At(elapsed time.Duration) Effective {
	eff := Effective{
		Baseline: s.HeartRate.Baseline,
		Noise:    s.HeartRate.Noise,
	}

	phase := s.phaseAt(elapsed)
	if phase == nil {
		return eff
	}

	if phase.Add != 0 {
		eff.Baseline += phase.Add
	}
	if phase.Multiply != 0 {
		eff.Baseline *= phase.Multiply
	}
	eff.Active = phase.Active
	return eff
}

func (s *Scenario) phaseAt(elapsed time.Duration) *Phase {
	if len(s.Phases) == 0 {
		return nil
	}

	var currentTime time.Duration
	for i := range s.Phases {
		phaseDuration, unlimited := ParseDuration(s.Phases[i].Duration)
		if unlimited {
			return &s.Phases[i]
		}

		if elapsed < currentTime+phaseDuration {
			return &s.Phases[i]
		}
		currentTime += phaseDuration
	}

	// Return last phase if we've exceeded total duration
	return &s.Phases[len(s.Phases)-1]
}
