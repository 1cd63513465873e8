package models

import "time"

// Update is the envelope broadcast to presentation clients whenever
// the monitor's observable state changes
type Update struct {
	Kind      string          `json:"kind"` // "snapshot", "event", "ack" or "insight"
	Timestamp time.Time       `json:"ts"`
	Connected bool            `json:"connected"`
	Snapshot  *HealthSnapshot `json:"snapshot,omitempty"`
	Event     *HapticEvent    `json:"event,omitempty"`
	Insight   *Insight        `json:"insight,omitempty"`
}

// Update kinds
const (
	UpdateSnapshot = "snapshot"
	UpdateEvent    = "event"
	UpdateAck      = "ack"
	UpdateInsight  = "insight"
)
