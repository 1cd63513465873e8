package haptic

import (
	"sync"
	"time"
)

// Scheduler executes pulse patterns as staggered timer callbacks.
// Pending timers only touch the driver, never shared monitor state,
// but Stop cancels them so tests stay deterministic.
type Scheduler struct {
	driver Driver
	mu     sync.Mutex
	timers map[*time.Timer]struct{}
}

// NewScheduler creates a scheduler over the given driver
func NewScheduler(driver Driver) *Scheduler {
	return &Scheduler{
		driver: driver,
		timers: make(map[*time.Timer]struct{}),
	}
}

// Play schedules every pulse of the pattern relative to now
func (s *Scheduler) Play(p Pattern) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pulse := range p {
		if pulse.Offset <= 0 {
			s.driver.Pulse()
			continue
		}
		var t *time.Timer
		t = time.AfterFunc(pulse.Offset, func() {
			s.driver.Pulse()
			s.forget(t)
		})
		s.timers[t] = struct{}{}
	}
}

// Stop cancels all pending pulse timers
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for t := range s.timers {
		t.Stop()
	}
	s.timers = make(map[*time.Timer]struct{})
}

func (s *Scheduler) forget(t *time.Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, t)
}
