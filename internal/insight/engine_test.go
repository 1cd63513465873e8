package insight

import (
	"testing"
	"time"

	"github.com/synheart/calmband/internal/models"
)

// 2024-03-04 is a Monday
var monday = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func ackedEvent(hour int, kind models.HapticKind, responseTime float64) models.HapticEvent {
	rt := responseTime
	return models.HapticEvent{
		ID:           "ev",
		Timestamp:    time.Date(2024, 3, 4, hour, 0, 0, 0, time.UTC),
		Kind:         kind,
		Acknowledged: true,
		ResponseTime: &rt,
		HeartRate:    85,
	}
}

func plainEvent(hour int, kind models.HapticKind) models.HapticEvent {
	return models.HapticEvent{
		ID:        "ev",
		Timestamp: time.Date(2024, 3, 4, hour, 0, 0, 0, time.UTC),
		Kind:      kind,
		HeartRate: 85,
	}
}

func TestAnalyzeThrottle(t *testing.T) {
	e := NewEngine()

	// Enough acknowledged events for the timing analysis
	var events []models.HapticEvent
	for i := 0; i < 8; i++ {
		events = append(events, ackedEvent(9, models.HapticStress, 3))
	}

	now := monday
	first := e.Analyze(events, now)
	if len(first) == 0 {
		t.Fatal("expected insights from the first analysis run")
	}

	// Second run within the interval is a no-op
	second := e.Analyze(events, now.Add(30*time.Minute))
	if second != nil {
		t.Errorf("expected no insights within the analysis interval, got %d", len(second))
	}

	// After the interval elapses the engine runs again
	third := e.Analyze(events, now.Add(AnalysisInterval))
	if len(third) == 0 {
		t.Error("expected insights once the analysis interval elapsed")
	}
}

func TestTimingInsight(t *testing.T) {
	e := NewEngine()

	var events []models.HapticEvent
	for i := 0; i < 4; i++ {
		events = append(events, ackedEvent(9, models.HapticStress, 3))
	}
	events = append(events, ackedEvent(14, models.HapticStress, 3))
	events = append(events, ackedEvent(20, models.HapticStress, 3))

	in, ok := e.analyzeTiming(events, monday)
	if !ok {
		t.Fatal("expected a timing insight with 6 acknowledged events")
	}
	if in.Kind != models.InsightTiming {
		t.Errorf("expected timing kind, got %v", in.Kind)
	}
	// 4/6 + 0.3 exceeds the cap
	if in.Confidence != 0.9 {
		t.Errorf("expected capped confidence 0.9, got %v", in.Confidence)
	}
}

func TestTimingInsightRequiresEnoughAcks(t *testing.T) {
	e := NewEngine()

	var events []models.HapticEvent
	for i := 0; i < 5; i++ {
		events = append(events, ackedEvent(9, models.HapticStress, 3))
	}
	for i := 0; i < 10; i++ {
		events = append(events, plainEvent(9, models.HapticStress))
	}

	if _, ok := e.analyzeTiming(events, monday); ok {
		t.Error("expected no timing insight with only 5 acknowledged events")
	}
}

func TestResponseInsightLowEngagement(t *testing.T) {
	e := NewEngine()

	var events []models.HapticEvent
	events = append(events, ackedEvent(9, models.HapticStress, 3))
	events = append(events, ackedEvent(10, models.HapticStress, 3))
	for i := 0; i < 10; i++ {
		events = append(events, plainEvent(11, models.HapticStress))
	}

	in, ok := e.analyzeResponse(events, monday)
	if !ok {
		t.Fatal("expected a low-engagement insight at rate 2/12")
	}
	if in.Kind != models.InsightResponse || in.Confidence != 0.8 {
		t.Errorf("expected response insight with confidence 0.8, got %v/%v", in.Kind, in.Confidence)
	}
}

func TestResponseInsightHighEngagement(t *testing.T) {
	e := NewEngine()

	var events []models.HapticEvent
	for i := 0; i < 11; i++ {
		events = append(events, ackedEvent(9, models.HapticStress, 2.0))
	}
	events = append(events, plainEvent(10, models.HapticStress))

	in, ok := e.analyzeResponse(events, monday)
	if !ok {
		t.Fatal("expected a high-engagement insight at rate 11/12")
	}
	if in.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %v", in.Confidence)
	}
}

func TestResponseInsightMiddleGround(t *testing.T) {
	e := NewEngine()

	var events []models.HapticEvent
	for i := 0; i < 6; i++ {
		events = append(events, ackedEvent(9, models.HapticStress, 4))
	}
	for i := 0; i < 6; i++ {
		events = append(events, plainEvent(10, models.HapticStress))
	}

	// Rate 0.5: neither low nor high engagement
	if _, ok := e.analyzeResponse(events, monday); ok {
		t.Error("expected no response insight at a middling rate")
	}
}

func TestStressInsightsBothFire(t *testing.T) {
	e := NewEngine()

	// 10 stress events, all weekday, 8 with elevated heart rate
	var events []models.HapticEvent
	for i := 0; i < 10; i++ {
		ev := plainEvent(9+i%3, models.HapticStress)
		if i < 8 {
			ev.HeartRate = 95
		} else {
			ev.HeartRate = 75
		}
		events = append(events, ev)
	}

	insights := e.analyzeStress(events, monday)
	if len(insights) != 2 {
		t.Fatalf("expected weekday and high-HR insights to both fire, got %d", len(insights))
	}
	if insights[0].Confidence != 0.75 || insights[1].Confidence != 0.8 {
		t.Errorf("unexpected confidences: %v, %v", insights[0].Confidence, insights[1].Confidence)
	}
}

func TestStressInsightWeekendSkewSuppressed(t *testing.T) {
	e := NewEngine()

	// 2024-03-09 is a Saturday
	saturday := time.Date(2024, 3, 9, 9, 0, 0, 0, time.UTC)
	var events []models.HapticEvent
	for i := 0; i < 8; i++ {
		events = append(events, models.HapticEvent{
			Timestamp: saturday.Add(time.Duration(i) * time.Hour),
			Kind:      models.HapticStress,
			HeartRate: 75,
		})
	}

	if insights := e.analyzeStress(events, monday); len(insights) != 0 {
		t.Errorf("expected no stress insights for weekend events with normal HR, got %d", len(insights))
	}
}

func TestRecommendationInsights(t *testing.T) {
	tests := []struct {
		name         string
		responseTime float64
		confidence   float64
		expect       bool
	}{
		{"slow responder", 12.0, 0.7, true},
		{"fast responder", 1.0, 0.8, true},
		{"middle responder", 5.0, 0, false},
	}

	for _, test := range tests {
		e := NewEngine()
		var events []models.HapticEvent
		for i := 0; i < 6; i++ {
			events = append(events, ackedEvent(9, models.HapticStress, test.responseTime))
		}
		for i := 0; i < 6; i++ {
			events = append(events, plainEvent(10, models.HapticStress))
		}

		in, ok := e.analyzeRecommendation(events, monday)
		if ok != test.expect {
			t.Errorf("%s: expected ok=%v, got %v", test.name, test.expect, ok)
			continue
		}
		if ok && in.Confidence != test.confidence {
			t.Errorf("%s: expected confidence %v, got %v", test.name, test.confidence, in.Confidence)
		}
	}
}

func TestOptimalReminderHours(t *testing.T) {
	e := NewEngine()

	var events []models.HapticEvent
	for _, hour := range []int{9, 9, 9, 14, 14, 20} {
		events = append(events, ackedEvent(hour, models.HapticMindfulness, 3))
	}
	// Unacknowledged events must not count
	events = append(events, plainEvent(23, models.HapticStress))

	hours := e.OptimalReminderHours(events)
	want := []int{9, 14, 20}
	if len(hours) != len(want) {
		t.Fatalf("expected %v, got %v", want, hours)
	}
	for i := range want {
		if hours[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, hours)
		}
	}
}

func TestOptimalReminderHoursTieBreak(t *testing.T) {
	e := NewEngine()

	var events []models.HapticEvent
	for _, hour := range []int{17, 8, 12, 8, 17, 12} {
		events = append(events, ackedEvent(hour, models.HapticMindfulness, 3))
	}

	hours := e.OptimalReminderHours(events)
	want := []int{8, 12, 17} // equal counts break toward the smaller hour
	for i := range want {
		if hours[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, hours)
		}
	}
}

func TestOptimalReminderHoursEmpty(t *testing.T) {
	e := NewEngine()
	if hours := e.OptimalReminderHours(nil); hours != nil {
		t.Errorf("expected nil for an empty log, got %v", hours)
	}
}
