package haptic

import "log"

// LogDriver prints pulses instead of driving a motor. Used for local
// runs where no wearable hardware is attached.
type LogDriver struct{}

// NewLogDriver creates a logging driver
func NewLogDriver() *LogDriver {
	return &LogDriver{}
}

// Pulse logs a single pulse
func (d *LogDriver) Pulse() {
	log.Printf("haptic: pulse")
}
