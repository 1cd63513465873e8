package policy

import (
	"math/rand"
	"time"

	"github.com/synheart/calmband/internal/models"
)

const (
	// Cooldown is the minimum gap between consecutive nudges
	Cooldown = 300 * time.Second

	// safeRewardOdds gives a 1-in-10 chance of a positive nudge
	safeRewardOdds = 10
)

// TriggerPolicy decides whether a snapshot warrants a haptic nudge.
// The random source is injected so tests can fix the seed.
type TriggerPolicy struct {
	rng *rand.Rand
}

// NewTriggerPolicy creates a policy with the given random source
func NewTriggerPolicy(rng *rand.Rand) *TriggerPolicy {
	return &TriggerPolicy{rng: rng}
}

// Decide returns the kind of nudge to fire, if any.
// Order matters: cooldown and activity suppression are checked before
// any stress evaluation, and the stress threshold wins over the
// randomized positive reinforcement.
func (p *TriggerPolicy) Decide(snap models.HealthSnapshot, last *models.HapticEvent, mode models.SensitivityMode, now time.Time) (models.HapticKind, bool) {
	if last != nil && now.Sub(last.Timestamp) < Cooldown {
		return "", false
	}
	if snap.IsActive {
		return "", false
	}
	if snap.StressLevel > mode.Threshold() {
		return models.HapticStress, true
	}
	if StatusOf(snap) == models.StatusSafe && snap.StressLevel < 0.3 {
		if p.rng.Intn(safeRewardOdds) == 0 {
			return models.HapticSafe, true
		}
	}
	return "", false
}
