package haptic

import (
	"sync"
	"time"
)

// FakeDriver is a test double that records every pulse.
type FakeDriver struct {
	mu     sync.Mutex
	pulses []time.Time
}

// NewFakeDriver creates an empty fake driver
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

// Pulse records the pulse time
func (d *FakeDriver) Pulse() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pulses = append(d.pulses, time.Now())
}

// Count returns the number of pulses fired so far
func (d *FakeDriver) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pulses)
}

// Reset clears recorded pulses
func (d *FakeDriver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pulses = nil
}
