// Package monitor owns the live monitoring loop: it feeds heart-rate
// samples into the aggregator, evaluates the trigger policy on a fixed
// tick, schedules proactive mindfulness reminders, and publishes every
// observable change as an update for the transport layer.
package monitor

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/synheart/calmband/internal/haptic"
	"github.com/synheart/calmband/internal/health"
	"github.com/synheart/calmband/internal/insight"
	"github.com/synheart/calmband/internal/models"
	"github.com/synheart/calmband/internal/policy"
	"github.com/synheart/calmband/internal/signal"
	"github.com/synheart/calmband/internal/store"
)

const (
	// evalInterval is the fixed snapshot/trigger evaluation period
	evalInterval = 5 * time.Second

	// analysisDelay defers post-trigger insight mining off the
	// trigger path
	analysisDelay = time.Second

	// baselineInterval is how often the resting baseline recomputes
	baselineInterval = 24 * time.Hour

	// baselineWindow is the long average window behind the baseline
	baselineWindow = 7 * 24 * time.Hour

	// reminderAckGrace re-allows off-hour reminders once the last
	// acknowledgment is this old
	reminderAckGrace = 1800 * time.Second

	// DefaultBaseline is the resting heart rate assumed before the
	// first long-window recompute
	DefaultBaseline = 70.0
)

// Options configures a Monitor
type Options struct {
	Source   health.Source
	Driver   haptic.Driver
	Blob     store.Blob
	Seed     int64
	Baseline float64           // starting resting heart rate; DefaultBaseline if zero
	Stress   signal.StressFunc // optional replacement stress formula
}

// Monitor is the single owner of all mutable monitoring state. Every
// mutation path (sample ingestion, evaluation tick, reminder tick,
// acknowledgment, config setters) serializes through one mutex.
type Monitor struct {
	mu        sync.Mutex
	agg       *signal.Aggregator
	events    *store.EventLog
	insights  *store.InsightLog
	cfg       models.Config
	blob      store.Blob
	policy    *policy.TriggerPolicy
	engine    *insight.Engine
	scheduler *haptic.Scheduler
	source    health.Source

	lastSample models.Sample
	connected  bool

	updates  chan models.Update
	deferred map[*time.Timer]struct{}

	now func() time.Time
}

// New builds a monitor, loading persisted events, insights and config
// from the blob store
func New(opts Options) *Monitor {
	baseline := opts.Baseline
	if baseline == 0 {
		baseline = DefaultBaseline
	}

	agg := signal.NewAggregator(baseline)
	if opts.Stress != nil {
		agg.SetStressFunc(opts.Stress)
	}

	return &Monitor{
		agg:       agg,
		events:    store.NewEventLog(opts.Blob),
		insights:  store.NewInsightLog(opts.Blob),
		cfg:       store.LoadConfig(opts.Blob),
		blob:      opts.Blob,
		policy:    policy.NewTriggerPolicy(rand.New(rand.NewSource(opts.Seed))),
		engine:    insight.NewEngine(),
		scheduler: haptic.NewScheduler(opts.Driver),
		source:    opts.Source,
		updates:   make(chan models.Update, 100),
		deferred:  make(map[*time.Timer]struct{}),
		now:       time.Now,
	}
}

// Updates returns the channel of published monitor updates. It is
// closed when Run returns.
func (m *Monitor) Updates() <-chan models.Update {
	return m.updates
}

// Run drives the monitoring loops until ctx is cancelled. The source
// goroutine, the evaluation tick, the reminder tick and the baseline
// recompute all funnel through the monitor's mutex.
func (m *Monitor) Run(ctx context.Context) error {
	defer close(m.updates)
	defer m.stopTimers()

	samples := make(chan models.Sample, 100)
	go func() {
		if err := m.source.Run(ctx, samples); err != nil && err != context.Canceled {
			log.Printf("monitor: health source stopped: %v", err)
		}
	}()

	evalTicker := time.NewTicker(evalInterval)
	defer evalTicker.Stop()

	baselineTicker := time.NewTicker(baselineInterval)
	defer baselineTicker.Stop()

	reminderTimer := time.NewTimer(m.reminderInterval())
	defer reminderTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sample := <-samples:
			m.ingest(sample)
		case <-evalTicker.C:
			m.evaluate()
		case <-reminderTimer.C:
			m.reminder()
			reminderTimer.Reset(m.reminderInterval())
		case <-baselineTicker.C:
			m.recomputeBaseline()
		}
	}
}

// ingest feeds one sample into the aggregator
func (m *Monitor) ingest(sample models.Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.agg.Ingest(sample)
	m.lastSample = sample
	m.connected = true
}

// Snapshot returns the current immutable health view
func (m *Monitor) Snapshot() models.HealthSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(m.now())
}

func (m *Monitor) snapshotLocked(now time.Time) models.HealthSnapshot {
	return models.HealthSnapshot{
		HeartRate:   m.lastSample.Value,
		StressLevel: m.agg.Stress(),
		IsActive:    m.source.ActivityInProgress(),
		Timestamp:   now,
	}
}

// Connected reports whether any sample has arrived yet
func (m *Monitor) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// evaluate publishes a snapshot and runs the trigger policy
func (m *Monitor) evaluate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	snap := m.snapshotLocked(now)
	m.publish(models.Update{Kind: models.UpdateSnapshot, Timestamp: now, Connected: m.connected, Snapshot: &snap})

	if !m.cfg.MonitoringEnabled {
		return
	}

	kind, ok := m.policy.Decide(snap, m.events.Latest(), m.cfg.Sensitivity, now)
	if !ok {
		return
	}
	m.triggerLocked(kind, snap, now)
}

// triggerLocked appends the event, fires the haptic pattern and
// schedules the deferred insight analysis. Caller holds the lock.
func (m *Monitor) triggerLocked(kind models.HapticKind, snap models.HealthSnapshot, now time.Time) {
	ev := models.NewHapticEvent(kind, snap)
	if err := m.events.Append(ev); err != nil {
		log.Printf("monitor: failed to persist event: %v", err)
	}

	m.scheduler.Play(haptic.PatternFor(kind, m.cfg.Sensitivity))
	m.publish(models.Update{Kind: models.UpdateEvent, Timestamp: now, Connected: m.connected, Event: &ev})

	var t *time.Timer
	t = time.AfterFunc(analysisDelay, func() {
		m.analyze()
		m.forgetTimer(t)
	})
	m.deferred[t] = struct{}{}
}

// analyze runs the throttled insight engine over the event log
func (m *Monitor) analyze() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for _, in := range m.engine.Analyze(m.events.Events(), now) {
		insightCopy := in
		if err := m.insights.Append(in); err != nil {
			log.Printf("monitor: failed to persist insight: %v", err)
		}
		m.publish(models.Update{Kind: models.UpdateInsight, Timestamp: now, Connected: m.connected, Insight: &insightCopy})
	}
}

// reminder fires a proactive mindfulness nudge, gated by the user's
// historically responsive hours
func (m *Monitor) reminder() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cfg.MonitoringEnabled {
		return
	}

	now := m.now()
	hours := m.engine.OptimalReminderHours(m.events.Events())
	if len(hours) > 0 && !containsHour(hours, now.Hour()) {
		// Off-hours: only remind if the user hasn't acknowledged
		// anything recently
		if m.cfg.LastAcknowledged != nil && now.Sub(*m.cfg.LastAcknowledged) <= reminderAckGrace {
			return
		}
	}

	snap := m.snapshotLocked(now)
	m.triggerLocked(models.HapticMindfulness, snap, now)
}

// recomputeBaseline queries the long-window average from the source
func (m *Monitor) recomputeBaseline() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	avg, ok := m.source.AverageRate(now.Add(-baselineWindow), now)
	if !ok {
		return
	}
	m.agg.RecomputeBaseline(avg)
}

// Acknowledge records the user's response to a nudge. Unknown ids
// return store.ErrNotFound wrapped; the loop is never aborted.
func (m *Monitor) Acknowledge(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	ev, err := m.events.Acknowledge(id, now)
	if err != nil {
		return err
	}

	ack := now
	m.cfg.LastAcknowledged = &ack
	m.publish(models.Update{Kind: models.UpdateAck, Timestamp: now, Connected: m.connected, Event: &ev})
	return nil
}

// Config returns a copy of the current settings
func (m *Monitor) Config() models.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// SetSensitivity changes the trigger sensitivity and persists it
func (m *Monitor) SetSensitivity(mode models.SensitivityMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.Sensitivity = mode
	m.persistConfigLocked()
}

// SetMonitoringEnabled toggles monitoring and persists the setting
func (m *Monitor) SetMonitoringEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.MonitoringEnabled = enabled
	m.persistConfigLocked()
}

// SetReminderInterval sets the reminder period, clamped to bounds,
// and persists it. The running timer picks it up on its next cycle.
func (m *Monitor) SetReminderInterval(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.ReminderInterval = models.ClampReminderInterval(seconds)
	m.persistConfigLocked()
}

// Events returns a copy of the event log, newest first
func (m *Monitor) Events() []models.HapticEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events.Events()
}

// Insights returns a copy of the insight list, newest first
func (m *Monitor) Insights() []models.Insight {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insights.Insights()
}

func (m *Monitor) persistConfigLocked() {
	if err := store.SaveConfig(m.blob, m.cfg); err != nil {
		log.Printf("monitor: failed to persist config: %v", err)
	}
}

func (m *Monitor) reminderInterval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Duration(m.cfg.ReminderInterval * float64(time.Second))
}

// publish sends an update without ever blocking the monitor
func (m *Monitor) publish(update models.Update) {
	select {
	case m.updates <- update:
	default:
	}
}

func (m *Monitor) forgetTimer(t *time.Timer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.deferred, t)
}

func (m *Monitor) stopTimers() {
	m.scheduler.Stop()

	m.mu.Lock()
	defer m.mu.Unlock()
	for t := range m.deferred {
		t.Stop()
	}
	m.deferred = make(map[*time.Timer]struct{})
}

func containsHour(hours []int, hour int) bool {
	for _, h := range hours {
		if h == hour {
			return true
		}
	}
	return false
}
