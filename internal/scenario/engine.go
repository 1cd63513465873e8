package scenario

import (
	"sync"
	"time"
)

// Engine executes a scenario and tracks progression through phases
type Engine struct {
	scenario  *Scenario
	startTime time.Time
	mu        sync.RWMutex
}

// NewEngine creates a new scenario engine
func NewEngine(scenario *Scenario) *Engine {
	return &Engine{
		scenario:  scenario,
		startTime: time.Now(),
	}
}

// Elapsed returns the time elapsed since scenario start
func (e *Engine) Elapsed() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return time.Since(e.startTime)
}

// Current resolves the effective signal configuration right now
func (e *Engine) Current() Effective {
	return e.scenario.At(e.Elapsed())
}

// CurrentPhase returns the current phase based on elapsed time
func (e *Engine) CurrentPhase() *Phase {
	return e.scenario.phaseAt(e.Elapsed())
}

// IsComplete returns true if the scenario has finished
func (e *Engine) IsComplete() bool {
	duration, unlimited := ParseDuration(e.scenario.Duration)
	if unlimited {
		return false
	}
	return e.Elapsed() >= duration
}

// Scenario returns the underlying scenario
func (e *Engine) Scenario() *Scenario {
	return e.scenario
}

// Reset resets the scenario to the beginning
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startTime = time.Now()
}
