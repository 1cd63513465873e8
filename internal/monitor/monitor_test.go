package monitor

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/synheart/calmband/internal/haptic"
	"github.com/synheart/calmband/internal/health"
	"github.com/synheart/calmband/internal/models"
	"github.com/synheart/calmband/internal/policy"
	"github.com/synheart/calmband/internal/store"
)

type testClock struct {
	now time.Time
}

func (c *testClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// newTestMonitor wires a monitor with fakes and a controllable clock
func newTestMonitor(t *testing.T) (*Monitor, *health.FakeSource, *haptic.FakeDriver, *testClock) {
	t.Helper()

	source := health.NewFakeSource(nil)
	driver := haptic.NewFakeDriver()
	clock := &testClock{now: time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)}

	m := New(Options{
		Source: source,
		Driver: driver,
		Blob:   store.NewMemStore(),
		Seed:   1,
	})
	m.now = func() time.Time { return clock.now }
	return m, source, driver, clock
}

// feed ingests n identical samples so the aggregator window is warm
func feed(m *Monitor, clock *testClock, bpm float64, n int) {
	for i := 0; i < n; i++ {
		m.ingest(models.Sample{Value: bpm, Timestamp: clock.now})
	}
}

func drain(m *Monitor) []models.Update {
	var out []models.Update
	for {
		select {
		case u := <-m.updates:
			out = append(out, u)
		default:
			return out
		}
	}
}

func TestEvaluateTriggersOnHighStress(t *testing.T) {
	m, _, driver, clock := newTestMonitor(t)

	// Sustained 120bpm over a 70bpm baseline saturates the stress score
	feed(m, clock, 120, 5)
	m.evaluate()

	events := m.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 triggered event, got %d", len(events))
	}
	if events[0].Kind != models.HapticStress {
		t.Errorf("expected a stress nudge, got %v", events[0].Kind)
	}
	if events[0].HeartRate != 120 {
		t.Errorf("expected the snapshot heart rate captured, got %v", events[0].HeartRate)
	}
	if driver.Count() == 0 {
		t.Error("expected the haptic driver to pulse")
	}

	updates := drain(m)
	var kinds []string
	for _, u := range updates {
		kinds = append(kinds, u.Kind)
	}
	if len(kinds) != 2 || kinds[0] != models.UpdateSnapshot || kinds[1] != models.UpdateEvent {
		t.Errorf("expected [snapshot event] updates, got %v", kinds)
	}
}

func TestEvaluateRespectsCooldown(t *testing.T) {
	m, _, _, clock := newTestMonitor(t)

	feed(m, clock, 120, 5)
	m.evaluate()
	if len(m.Events()) != 1 {
		t.Fatalf("expected the first evaluation to trigger")
	}

	// Still inside the cooldown window
	clock.advance(100 * time.Second)
	m.evaluate()
	if len(m.Events()) != 1 {
		t.Error("expected the cooldown to suppress a second trigger")
	}

	clock.advance(policy.Cooldown)
	m.evaluate()
	if len(m.Events()) != 2 {
		t.Error("expected a trigger once the cooldown expired")
	}
}

func TestEvaluateSuppressedDuringWorkout(t *testing.T) {
	m, source, _, clock := newTestMonitor(t)

	source.SetActive(true)
	feed(m, clock, 150, 5)
	m.evaluate()

	if len(m.Events()) != 0 {
		t.Error("expected no nudges while a workout is in progress")
	}
}

func TestEvaluateSkippedWhenDisabled(t *testing.T) {
	m, _, _, clock := newTestMonitor(t)
	m.SetMonitoringEnabled(false)

	feed(m, clock, 120, 5)
	m.evaluate()

	if len(m.Events()) != 0 {
		t.Error("expected no triggers while monitoring is disabled")
	}

	// The snapshot is still published for the UI
	updates := drain(m)
	if len(updates) != 1 || updates[0].Kind != models.UpdateSnapshot {
		t.Errorf("expected only a snapshot update, got %v", updates)
	}
}

func TestEvaluateCalmBandDoesNotTrigger(t *testing.T) {
	m, _, _, clock := newTestMonitor(t)

	// 80bpm over a 70 baseline sits below the medium threshold and
	// outside the safe band
	feed(m, clock, 80, 5)
	for i := 0; i < 50; i++ {
		m.evaluate()
		clock.advance(evalInterval)
	}

	if len(m.Events()) != 0 {
		t.Errorf("expected no triggers in the calm band, got %d", len(m.Events()))
	}
}

func TestAcknowledge(t *testing.T) {
	m, _, _, clock := newTestMonitor(t)

	feed(m, clock, 120, 5)
	m.evaluate()
	drain(m)

	ev := m.Events()[0]
	clock.advance(3 * time.Second)
	if err := m.Acknowledge(ev.ID); err != nil {
		t.Fatalf("acknowledge failed: %v", err)
	}

	acked := m.Events()[0]
	if !acked.Acknowledged {
		t.Error("expected the event to be acknowledged")
	}
	if acked.ResponseTime == nil || *acked.ResponseTime != 3.0 {
		t.Errorf("expected response time 3.0s, got %v", acked.ResponseTime)
	}

	cfg := m.Config()
	if cfg.LastAcknowledged == nil || !cfg.LastAcknowledged.Equal(clock.now) {
		t.Errorf("expected last-acknowledged stamp %v, got %v", clock.now, cfg.LastAcknowledged)
	}

	updates := drain(m)
	if len(updates) != 1 || updates[0].Kind != models.UpdateAck {
		t.Errorf("expected an ack update, got %v", updates)
	}
}

func TestAcknowledgeUnknownID(t *testing.T) {
	m, _, _, _ := newTestMonitor(t)

	err := m.Acknowledge("no-such-event")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReminderFiresMindfulness(t *testing.T) {
	m, _, driver, clock := newTestMonitor(t)

	feed(m, clock, 72, 5)
	m.reminder()

	events := m.Events()
	if len(events) != 1 || events[0].Kind != models.HapticMindfulness {
		t.Fatalf("expected a mindfulness nudge, got %v", events)
	}
	if driver.Count() == 0 {
		t.Error("expected the reminder to pulse the driver")
	}
}

func TestReminderGatedByResponsiveHours(t *testing.T) {
	m, _, _, clock := newTestMonitor(t)

	// The user has only ever acknowledged nudges at 08:00; the clock
	// sits at 10:00
	rt := 2.0
	for i := 0; i < 6; i++ {
		m.events.Append(models.HapticEvent{
			ID:           fmt.Sprintf("morning-%d", i),
			Timestamp:    time.Date(2024, 3, 4, 8, i, 0, 0, time.UTC),
			Kind:         models.HapticMindfulness,
			Acknowledged: true,
			ResponseTime: &rt,
		})
	}

	// A recent acknowledgment suppresses off-hour reminders
	recent := clock.now.Add(-10 * time.Minute)
	m.cfg.LastAcknowledged = &recent
	before := len(m.Events())
	m.reminder()
	if len(m.Events()) != before {
		t.Error("expected the off-hour reminder to be suppressed")
	}

	// Once the grace period lapses the reminder goes through
	stale := clock.now.Add(-reminderAckGrace - time.Minute)
	m.cfg.LastAcknowledged = &stale
	m.reminder()
	if len(m.Events()) != before+1 {
		t.Error("expected a reminder once the acknowledgment went stale")
	}
}

func TestReminderSkippedWhenDisabled(t *testing.T) {
	m, _, _, _ := newTestMonitor(t)
	m.SetMonitoringEnabled(false)

	m.reminder()
	if len(m.Events()) != 0 {
		t.Error("expected no reminder while monitoring is disabled")
	}
}

func TestBaselineRecompute(t *testing.T) {
	m, source, _, clock := newTestMonitor(t)

	source.Average = 85
	source.HasAverage = true
	m.recomputeBaseline()

	// A 115bpm reading over the new 85 baseline scores exactly 0.7 on
	// the rate component with zero variance adding 0.3
	feed(m, clock, 115, 5)
	m.evaluate()
	if len(m.Events()) != 1 {
		t.Error("expected the recomputed baseline to feed the stress score")
	}
}

func TestSettersPersist(t *testing.T) {
	mem := store.NewMemStore()
	source := health.NewFakeSource(nil)

	m := New(Options{Source: source, Driver: haptic.NewFakeDriver(), Blob: mem, Seed: 1})
	m.SetSensitivity(models.SensitivityDeep)
	m.SetReminderInterval(99999)
	m.SetMonitoringEnabled(false)

	if m.Config().ReminderInterval != models.MaxReminderInterval {
		t.Errorf("expected the interval clamped, got %v", m.Config().ReminderInterval)
	}

	// A fresh monitor over the same store sees the persisted settings
	reloaded := New(Options{Source: source, Driver: haptic.NewFakeDriver(), Blob: mem, Seed: 1})
	cfg := reloaded.Config()
	if cfg.Sensitivity != models.SensitivityDeep {
		t.Errorf("expected deep sensitivity after reload, got %v", cfg.Sensitivity)
	}
	if cfg.MonitoringEnabled {
		t.Error("expected monitoring disabled after reload")
	}
	if cfg.LastAcknowledged != nil {
		t.Error("the last-acknowledged stamp must not be persisted")
	}
}

func TestConnected(t *testing.T) {
	m, _, _, clock := newTestMonitor(t)

	if m.Connected() {
		t.Error("expected disconnected before any sample")
	}
	feed(m, clock, 70, 1)
	if !m.Connected() {
		t.Error("expected connected after the first sample")
	}
}
