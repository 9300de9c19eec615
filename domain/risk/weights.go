package risk

import (
	"github.com/montanaflynn/stats"

	"kardia/domain/core"
)

// rawFeatureWeights is the static relative-importance table shipped with the
// trained model. The absolute numbers are heuristic; only their ratios
// matter, so they are normalized to percentages at startup.
var rawFeatureWeights = map[core.FeatureName]float64{
	"Age":            15,
	"Sex":            10,
	"ChestPainType":  18,
	"RestingBP":      8,
	"Cholesterol":    12,
	"FastingBS":      7,
	"RestingECG":     9,
	"MaxHR":          11,
	"ExerciseAngina": 14,
	"Oldpeak":        10,
	"ST_Slope":       16,
}

// FeatureImportance maps each feature to its display percentage
type FeatureImportance map[core.FeatureName]float64

// NormalizedImportance scales the raw weight table so the percentages sum to
// 100, rounded to one decimal for display. Computed once at startup and
// treated as immutable afterwards.
func NormalizedImportance() FeatureImportance {
	total := 0.0
	for _, w := range rawFeatureWeights {
		total += w
	}

	importance := make(FeatureImportance, len(rawFeatureWeights))
	for feature, w := range rawFeatureWeights {
		pct, err := stats.Round(w/total*100, 1)
		if err != nil {
			pct = w / total * 100
		}
		importance[feature] = pct
	}
	return importance
}
