package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/synheart/calmband/internal/models"
)

func eventAt(id string, ts time.Time, kind models.HapticKind) models.HapticEvent {
	return models.HapticEvent{
		ID:          id,
		Timestamp:   ts,
		Kind:        kind,
		HeartRate:   80,
		StressLevel: 0.6,
	}
}

func TestEventLogCapacity(t *testing.T) {
	log := NewEventLog(NewMemStore())
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 55; i++ {
		ev := eventAt(fmt.Sprintf("ev-%d", i), base.Add(time.Duration(i)*time.Minute), models.HapticStress)
		if err := log.Append(ev); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	if log.Len() != 50 {
		t.Fatalf("expected 50 events after 55 appends, got %d", log.Len())
	}

	events := log.Events()
	// Newest first: the most recent append leads
	if events[0].ID != "ev-54" {
		t.Errorf("expected newest event ev-54 first, got %s", events[0].ID)
	}
	// The 5 oldest were evicted
	if events[len(events)-1].ID != "ev-5" {
		t.Errorf("expected oldest retained event ev-5, got %s", events[len(events)-1].ID)
	}
}

func TestAcknowledge(t *testing.T) {
	log := NewEventLog(NewMemStore())
	fired := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	log.Append(eventAt("a", fired, models.HapticStress))
	log.Append(eventAt("b", fired.Add(time.Minute), models.HapticSafe))

	ackTime := fired.Add(4 * time.Second)
	ev, err := log.Acknowledge("a", ackTime)
	if err != nil {
		t.Fatalf("acknowledge failed: %v", err)
	}

	if !ev.Acknowledged {
		t.Error("expected event to be acknowledged")
	}
	if ev.ResponseTime == nil || *ev.ResponseTime != 4.0 {
		t.Errorf("expected response time 4.0s, got %v", ev.ResponseTime)
	}

	// Other event untouched
	for _, other := range log.Events() {
		if other.ID == "b" && other.Acknowledged {
			t.Error("expected event b to remain unacknowledged")
		}
	}
}

func TestAcknowledgeClampsNegativeResponseTime(t *testing.T) {
	log := NewEventLog(NewMemStore())
	fired := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	log.Append(eventAt("a", fired, models.HapticStress))

	ev, err := log.Acknowledge("a", fired.Add(-time.Second))
	if err != nil {
		t.Fatalf("acknowledge failed: %v", err)
	}
	if ev.ResponseTime == nil || *ev.ResponseTime != 0 {
		t.Errorf("expected clamped response time 0, got %v", ev.ResponseTime)
	}
}

func TestAcknowledgeUnknownID(t *testing.T) {
	log := NewEventLog(NewMemStore())

	_, err := log.Acknowledge("missing", time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEventLogRoundTrip(t *testing.T) {
	mem := NewMemStore()
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	log := NewEventLog(mem)
	log.Append(eventAt("a", base, models.HapticStress))
	log.Append(eventAt("b", base.Add(time.Minute), models.HapticMindfulness))
	log.Acknowledge("b", base.Add(2*time.Minute))

	reloaded := NewEventLog(mem)
	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 events after reload, got %d", reloaded.Len())
	}

	events := reloaded.Events()
	if events[0].ID != "b" || events[1].ID != "a" {
		t.Errorf("expected order [b a] after reload, got [%s %s]", events[0].ID, events[1].ID)
	}
	if !events[0].Acknowledged || events[0].ResponseTime == nil {
		t.Error("expected acknowledgment to survive reload")
	}
	if events[0].Kind != models.HapticMindfulness {
		t.Errorf("expected mindfulness kind, got %v", events[0].Kind)
	}
}

func TestCorruptEventBlobStartsEmpty(t *testing.T) {
	mem := NewMemStore()
	mem.Put(KeyEvents, []byte("{not valid json"))

	log := NewEventLog(mem)
	if log.Len() != 0 {
		t.Errorf("expected empty log from corrupt blob, got %d events", log.Len())
	}
}

func TestLatest(t *testing.T) {
	log := NewEventLog(NewMemStore())
	if log.Latest() != nil {
		t.Error("expected nil latest on empty log")
	}

	base := time.Now()
	log.Append(eventAt("a", base, models.HapticStress))
	log.Append(eventAt("b", base.Add(time.Minute), models.HapticSafe))

	latest := log.Latest()
	if latest == nil || latest.ID != "b" {
		t.Errorf("expected latest event b, got %v", latest)
	}
}
