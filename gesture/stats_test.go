package gesture

import (
	"encoding/json"
	"testing"
	"time"
)

func TestStatistics_Empty(t *testing.T) {
	st := computeStatistics(nil)
	if st.TotalDetections != 0 || st.AverageConfidence != 0 || st.DetectionRate != 0 {
		t.Fatalf("unexpected empty statistics: %+v", st)
	}
	if st.MostCommon != LabelIdle {
		t.Fatalf("empty history should report idle, got %s", st.MostCommon)
	}
}

func TestStatistics_Aggregates(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	history := []Reading{
		{Label: LabelHit, Confidence: 0.8, At: t0},
		{Label: LabelStand, Confidence: 0.9, At: t0.Add(30 * time.Second)},
		{Label: LabelHit, Confidence: 0.7, At: t0.Add(60 * time.Second)},
	}
	st := computeStatistics(history)
	if st.TotalDetections != 3 {
		t.Fatalf("expected 3 detections, got %d", st.TotalDetections)
	}
	if st.AverageConfidence != 0.8 {
		t.Fatalf("expected average 0.8, got %v", st.AverageConfidence)
	}
	if st.MostCommon != LabelHit {
		t.Fatalf("expected hit most common, got %s", st.MostCommon)
	}
	if st.DetectionRate != 3.0 {
		t.Fatalf("expected 3.0 per minute, got %v", st.DetectionRate)
	}
	if st.Distribution[LabelHit] != 2 || st.Distribution[LabelStand] != 1 {
		t.Fatalf("unexpected distribution: %v", st.Distribution)
	}
}

func TestStatistics_TiesAndShortSpans(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st := computeStatistics([]Reading{
		{Label: LabelStand, Confidence: 0.71, At: t0},
		{Label: LabelHit, Confidence: 0.72, At: t0.Add(100 * time.Millisecond)},
	})
	if st.MostCommon != LabelStand {
		t.Fatalf("tie should go to the first seen label, got %s", st.MostCommon)
	}
	if st.DetectionRate != 120.0 {
		t.Fatalf("span under a second counts as one second, got %v", st.DetectionRate)
	}

	single := computeStatistics([]Reading{{Label: LabelHit, Confidence: 0.9, At: t0}})
	if single.DetectionRate != 0 {
		t.Fatalf("single reading has no rate, got %v", single.DetectionRate)
	}
}

func TestStatistics_JSONUsesLabelNames(t *testing.T) {
	st := computeStatistics([]Reading{{Label: LabelHit, Confidence: 0.9}})
	raw, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["most_common_gesture"] != "hit" {
		t.Fatalf("expected label name in JSON, got %v", decoded["most_common_gesture"])
	}
	dist, ok := decoded["gesture_distribution"].(map[string]any)
	if !ok || dist["hit"] != float64(1) {
		t.Fatalf("unexpected distribution JSON: %s", raw)
	}
}
