package gesture

import "math"

func computeStatistics(history []Reading) Statistics {
	if len(history) == 0 {
		return Statistics{MostCommon: LabelIdle, Distribution: map[Label]int{}}
	}

	counts := make(map[Label]int, len(LabelTypeDictionary))
	order := make([]Label, 0, len(LabelTypeDictionary))
	sum := 0.0
	for _, h := range history {
		if counts[h.Label] == 0 {
			order = append(order, h.Label)
		}
		counts[h.Label]++
		sum += h.Confidence
	}

	most := order[0]
	for _, l := range order[1:] {
		if counts[l] > counts[most] {
			most = l
		}
	}

	rate := 0.0
	if len(history) >= 2 {
		span := history[len(history)-1].At.Sub(history[0].At).Seconds()
		rate = float64(len(history)) / math.Max(span, 1) * 60
	}

	return Statistics{
		TotalDetections:   len(history),
		AverageConfidence: round(sum/float64(len(history)), 2),
		MostCommon:        most,
		DetectionRate:     round(rate, 1),
		Distribution:      counts,
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
