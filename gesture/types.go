package gesture

import (
	"fmt"
	"time"
)

// Label is a detected hand signal.
type Label byte

const (
	LabelIdle  Label = 0
	LabelHit   Label = 1
	LabelStand Label = 2
)

var LabelTypeDictionary = map[Label]string{
	LabelIdle:  "idle",
	LabelHit:   "hit",
	LabelStand: "stand",
}

func (l Label) String() string {
	if s, ok := LabelTypeDictionary[l]; ok {
		return s
	}
	return "unknown"
}

func (l Label) MarshalText() ([]byte, error) {
	if _, ok := LabelTypeDictionary[l]; !ok {
		return nil, fmt.Errorf("unknown gesture label %d", l)
	}
	return []byte(l.String()), nil
}

func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func ParseLabel(raw string) (Label, error) {
	for l, s := range LabelTypeDictionary {
		if s == raw {
			return l, nil
		}
	}
	return LabelIdle, fmt.Errorf("invalid gesture: %q", raw)
}

// Quality buckets a confidence value for display.
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
)

func QualityOf(confidence float64) Quality {
	switch {
	case confidence >= 0.9:
		return QualityExcellent
	case confidence >= 0.8:
		return QualityGood
	case confidence >= 0.6:
		return QualityFair
	default:
		return QualityPoor
	}
}

// Reading is one detector output.
type Reading struct {
	Label      Label     `json:"gesture"`
	Confidence float64   `json:"confidence"`
	At         time.Time `json:"timestamp"`
}

// Sample is a reading enriched for clients.
type Sample struct {
	Label        Label     `json:"gesture"`
	Confidence   float64   `json:"confidence"`
	IsConfident  bool      `json:"is_confident"`
	Quality      Quality   `json:"quality"`
	DetectionAge float64   `json:"detection_age"`
	Timestamp    time.Time `json:"timestamp"`
}

// Fresh reports whether the sample came from a new draw rather than the
// persistence window.
func (s Sample) Fresh() bool { return s.DetectionAge == 0 }

type Statistics struct {
	TotalDetections   int           `json:"total_detections"`
	AverageConfidence float64       `json:"average_confidence"`
	MostCommon        Label         `json:"most_common_gesture"`
	DetectionRate     float64       `json:"detection_rate"`
	Distribution      map[Label]int `json:"gesture_distribution"`
}
