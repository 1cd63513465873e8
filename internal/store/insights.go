package store

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/synheart/calmband/internal/models"
)

// insightCapacity bounds the insight list
const insightCapacity = 10

// InsightLog is the ordered (newest-first) list of generated insights,
// persisted on every append. Not safe for concurrent use.
type InsightLog struct {
	blob     Blob
	insights []models.Insight // newest first
}

// NewInsightLog loads the persisted insight list, falling back to
// empty on a missing or corrupt blob.
func NewInsightLog(blob Blob) *InsightLog {
	l := &InsightLog{blob: blob}

	data, ok, err := blob.Load(KeyInsights)
	if err != nil {
		log.Printf("store: failed to load insights, starting empty: %v", err)
		return l
	}
	if !ok {
		return l
	}
	if err := json.Unmarshal(data, &l.insights); err != nil {
		log.Printf("store: corrupt insight blob, starting empty: %v", err)
		l.insights = nil
	}
	if len(l.insights) > insightCapacity {
		l.insights = l.insights[:insightCapacity]
	}
	return l
}

// Append inserts the insight at the front and truncates to capacity
func (l *InsightLog) Append(in models.Insight) error {
	l.insights = append([]models.Insight{in}, l.insights...)
	if len(l.insights) > insightCapacity {
		l.insights = l.insights[:insightCapacity]
	}

	data, err := json.Marshal(l.insights)
	if err != nil {
		return fmt.Errorf("failed to marshal insights: %w", err)
	}
	if err := l.blob.Save(KeyInsights, data); err != nil {
		return fmt.Errorf("failed to persist insights: %w", err)
	}
	return nil
}

// Insights returns a copy of the list, newest first
func (l *InsightLog) Insights() []models.Insight {
	out := make([]models.Insight, len(l.insights))
	copy(out, l.insights)
	return out
}

// Len returns the number of stored insights
func (l *InsightLog) Len() int {
	return len(l.insights)
}
