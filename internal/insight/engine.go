// Package insight mines the bounded haptic event log for behavioral
// patterns: best response hours, engagement trends, weekday stress
// skew and sensitivity recommendations. Each sub-analysis guards its
// own preconditions; failing a guard just means no insight this round.
package insight

import (
	"fmt"
	"sort"
	"time"

	"github.com/synheart/calmband/internal/models"
)

// AnalysisInterval throttles full analysis runs
const AnalysisInterval = 3600 * time.Second

// Engine runs the batch analyses over an event log snapshot.
// Not safe for concurrent use; the monitor serializes access.
type Engine struct {
	lastRun time.Time
}

// NewEngine creates an engine that has never run
func NewEngine() *Engine {
	return &Engine{}
}

// Analyze runs every sub-analysis over the log (newest first) and
// returns the generated insights. It is a no-op unless the analysis
// interval has elapsed since the previous run; the last-run stamp is
// taken on entry so re-entrant bursts cannot slip through even when
// nothing is generated.
func (e *Engine) Analyze(events []models.HapticEvent, now time.Time) []models.Insight {
	if !e.lastRun.IsZero() && now.Sub(e.lastRun) < AnalysisInterval {
		return nil
	}
	e.lastRun = now

	var out []models.Insight
	if in, ok := e.analyzeTiming(events, now); ok {
		out = append(out, in)
	}
	if in, ok := e.analyzeResponse(events, now); ok {
		out = append(out, in)
	}
	out = append(out, e.analyzeStress(events, now)...)
	if in, ok := e.analyzeRecommendation(events, now); ok {
		out = append(out, in)
	}
	return out
}

// analyzeTiming finds the hour of day the user acknowledges most
func (e *Engine) analyzeTiming(events []models.HapticEvent, now time.Time) (models.Insight, bool) {
	acked := acknowledged(events)
	if len(acked) <= 5 {
		return models.Insight{}, false
	}

	counts := hourCounts(acked)
	hour, count := bestHour(counts)

	confidence := float64(count)/float64(len(acked)) + 0.3
	if confidence > 0.9 {
		confidence = 0.9
	}
	msg := fmt.Sprintf("You respond to nudges most reliably around %02d:00.", hour)
	return models.NewInsight(models.InsightTiming, msg, confidence, now), true
}

// analyzeResponse looks at engagement over the 20 most recent events
func (e *Engine) analyzeResponse(events []models.HapticEvent, now time.Time) (models.Insight, bool) {
	recent := head(events, 20)
	if len(recent) < 10 {
		return models.Insight{}, false
	}

	rate := float64(len(acknowledged(recent))) / float64(len(recent))
	avg := averageResponseTime(recent)

	if rate < 0.3 {
		msg := fmt.Sprintf("You've responded to %.0f%% of recent nudges. A lighter sensitivity might fit better.", rate*100)
		return models.NewInsight(models.InsightResponse, msg, 0.8, now), true
	}
	if rate > 0.8 && avg < 5.0 {
		msg := fmt.Sprintf("You respond to nearly every nudge within %.1fs. The nudges seem well tuned.", avg)
		return models.NewInsight(models.InsightResponse, msg, 0.9, now), true
	}
	return models.Insight{}, false
}

// analyzeStress inspects stress-kind events. Its two findings are
// independently guarded and may both fire in the same run.
func (e *Engine) analyzeStress(events []models.HapticEvent, now time.Time) []models.Insight {
	var stress []models.HapticEvent
	for _, ev := range events {
		if ev.Kind == models.HapticStress {
			stress = append(stress, ev)
		}
	}
	if len(stress) <= 5 {
		return nil
	}

	var out []models.Insight

	weekday := 0
	for _, ev := range stress {
		switch ev.Timestamp.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			weekday++
		}
	}
	if float64(weekday)/float64(len(stress)) > 0.7 {
		msg := "Most of your stress moments happen on weekdays. Consider a short mid-week wind-down routine."
		out = append(out, models.NewInsight(models.InsightStress, msg, 0.75, now))
	}

	highHR := 0
	for _, ev := range stress {
		if ev.HeartRate > 90 {
			highHR++
		}
	}
	if float64(highHR)/float64(len(stress)) > 0.6 {
		msg := "Your stress nudges usually coincide with an elevated heart rate. Breathing exercises may help bring it down."
		out = append(out, models.NewInsight(models.InsightStress, msg, 0.8, now))
	}

	return out
}

// analyzeRecommendation suggests sensitivity adjustments from response
// speed over the 30 most recent events
func (e *Engine) analyzeRecommendation(events []models.HapticEvent, now time.Time) (models.Insight, bool) {
	recent := head(events, 30)
	if len(recent) < 10 {
		return models.Insight{}, false
	}

	var sum float64
	withResponse := 0
	for _, ev := range recent {
		if ev.Acknowledged && ev.ResponseTime != nil {
			sum += *ev.ResponseTime
			withResponse++
		}
	}
	if withResponse < 5 {
		return models.Insight{}, false
	}
	avg := sum / float64(withResponse)

	if avg > 10.0 {
		msg := "You take a while to notice nudges. A slower, gentler reminder cadence could work better."
		return models.NewInsight(models.InsightRecommendation, msg, 0.7, now), true
	}
	if avg < 2.0 {
		msg := "You notice nudges almost immediately. You could handle more frequent reminders."
		return models.NewInsight(models.InsightRecommendation, msg, 0.8, now), true
	}
	return models.Insight{}, false
}

// OptimalReminderHours returns the top three hours of day ranked by
// acknowledged-event count, descending. Ties break toward the smaller
// hour. Independent of the analysis throttle; callable anytime.
func (e *Engine) OptimalReminderHours(events []models.HapticEvent) []int {
	counts := hourCounts(acknowledged(events))
	if len(counts) == 0 {
		return nil
	}

	hours := make([]int, 0, len(counts))
	for h := range counts {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool {
		if counts[hours[i]] != counts[hours[j]] {
			return counts[hours[i]] > counts[hours[j]]
		}
		return hours[i] < hours[j]
	})

	if len(hours) > 3 {
		hours = hours[:3]
	}
	return hours
}

func acknowledged(events []models.HapticEvent) []models.HapticEvent {
	var out []models.HapticEvent
	for _, ev := range events {
		if ev.Acknowledged {
			out = append(out, ev)
		}
	}
	return out
}

func hourCounts(events []models.HapticEvent) map[int]int {
	counts := make(map[int]int)
	for _, ev := range events {
		counts[ev.Timestamp.Hour()]++
	}
	return counts
}

// bestHour picks the hour with the highest count, smallest hour on ties
func bestHour(counts map[int]int) (int, int) {
	best, bestCount := -1, -1
	for h := 0; h < 24; h++ {
		if c, ok := counts[h]; ok && c > bestCount {
			best, bestCount = h, c
		}
	}
	return best, bestCount
}

// averageResponseTime averages over events that carry a response time
func averageResponseTime(events []models.HapticEvent) float64 {
	var sum float64
	n := 0
	for _, ev := range events {
		if ev.ResponseTime != nil {
			sum += *ev.ResponseTime
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// head returns at most n leading events
func head(events []models.HapticEvent, n int) []models.HapticEvent {
	if len(events) > n {
		return events[:n]
	}
	return events
}
