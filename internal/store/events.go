package store

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/synheart/calmband/internal/models"
)

// eventCapacity bounds the log; oldest events are evicted first
const eventCapacity = 50

// EventLog is the ordered (newest-first) haptic event log. Events are
// mutable exactly once, to record acknowledgment. The log persists to
// its blob store on every mutation. Not safe for concurrent use; the
// monitor serializes access.
type EventLog struct {
	blob   Blob
	events []models.HapticEvent // newest first
}

// NewEventLog loads the persisted log. A missing or corrupt blob
// yields an empty log, never an error.
func NewEventLog(blob Blob) *EventLog {
	l := &EventLog{blob: blob}

	data, ok, err := blob.Load(KeyEvents)
	if err != nil {
		log.Printf("store: failed to load events, starting empty: %v", err)
		return l
	}
	if !ok {
		return l
	}
	if err := json.Unmarshal(data, &l.events); err != nil {
		log.Printf("store: corrupt event blob, starting empty: %v", err)
		l.events = nil
	}
	if len(l.events) > eventCapacity {
		l.events = l.events[:eventCapacity]
	}
	return l
}

// Append inserts the event at the front and truncates to capacity
func (l *EventLog) Append(ev models.HapticEvent) error {
	l.events = append([]models.HapticEvent{ev}, l.events...)
	if len(l.events) > eventCapacity {
		l.events = l.events[:eventCapacity]
	}
	return l.persist()
}

// Acknowledge marks the event acknowledged and records the response
// time measured from its fire time. Returns ErrNotFound for an
// unknown id.
func (l *EventLog) Acknowledge(id string, now time.Time) (models.HapticEvent, error) {
	for i := range l.events {
		if l.events[i].ID != id {
			continue
		}
		responseTime := now.Sub(l.events[i].Timestamp).Seconds()
		if responseTime < 0 {
			responseTime = 0
		}
		l.events[i].Acknowledged = true
		l.events[i].ResponseTime = &responseTime
		if err := l.persist(); err != nil {
			return l.events[i], err
		}
		return l.events[i], nil
	}
	return models.HapticEvent{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Latest returns the most recent event, or nil if the log is empty
func (l *EventLog) Latest() *models.HapticEvent {
	if len(l.events) == 0 {
		return nil
	}
	ev := l.events[0]
	return &ev
}

// Events returns a copy of the log, newest first
func (l *EventLog) Events() []models.HapticEvent {
	out := make([]models.HapticEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of stored events
func (l *EventLog) Len() int {
	return len(l.events)
}

func (l *EventLog) persist() error {
	data, err := json.Marshal(l.events)
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}
	if err := l.blob.Save(KeyEvents, data); err != nil {
		return fmt.Errorf("failed to persist events: %w", err)
	}
	return nil
}
