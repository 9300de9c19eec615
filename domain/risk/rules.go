package risk

import (
	"kardia/domain/core"
)

// Rule is one row of a risk-factor table: the heuristic contribution weight
// for a (feature, category) pair and, for notable rules, the reason template
// shown to the user. Templates containing %v are formatted with the raw
// measurement. The weights are the clinically tuned constants carried over
// from the trained model's companion tables; they drive explanation only and
// never feed the probabilistic inference.
type Rule struct {
	Weight float64
	Reason string
}

// featureRules holds the lookup table for one feature plus its baseline
// weight for categories with no dedicated rule. Baselines are deliberately
// non-zero: an unremarkable value still carries information.
type featureRules struct {
	Baseline float64
	Rules    map[string]Rule
}

var ruleTables = map[core.FeatureName]featureRules{
	"Age": {
		Baseline: 0.2,
		Rules: map[string]Rule{
			">60":   {Weight: 0.8, Reason: "Usia Lanjut (%v tahun)"},
			"40-60": {Weight: 0.5},
		},
	},
	"Cholesterol": {
		Baseline: 0.2,
		Rules: map[string]Rule{
			"High":       {Weight: 0.9, Reason: "Kolesterol Tinggi (%v mg/dl)"},
			"Borderline": {Weight: 0.6, Reason: "Kolesterol Borderline (%v mg/dl)"},
		},
	},
	"RestingBP": {
		Baseline: 0.3,
		Rules: map[string]Rule{
			"High S2": {Weight: 0.9, Reason: "Tekanan Darah Sangat Tinggi (%v mmHg)"},
			"High S1": {Weight: 0.7, Reason: "Tekanan Darah Tinggi (%v mmHg)"},
		},
	},
	"Oldpeak": {
		Baseline: 0.2,
		Rules: map[string]Rule{
			"High":   {Weight: 0.9, Reason: "Depresi ST Sangat Tinggi (%v)"},
			"Medium": {Weight: 0.6, Reason: "Depresi ST Sedang (%v)"},
		},
	},
	"MaxHR": {
		Baseline: 0.2,
		Rules: map[string]Rule{
			"Very Low": {Weight: 0.8},
			"Low":      {Weight: 0.5},
		},
	},
	"Sex": {
		Baseline: 0.4,
		Rules: map[string]Rule{
			"M": {Weight: 0.6},
		},
	},
	"ChestPainType": {
		Baseline: 0.3,
		Rules: map[string]Rule{
			"ASY": {Weight: 0.9, Reason: "Nyeri Dada Asymptomatic"},
			"TA":  {Weight: 0.8, Reason: "Nyeri Dada Typical Angina"},
			"NAP": {Weight: 0.4},
		},
	},
	"ExerciseAngina": {
		Baseline: 0.2,
		Rules: map[string]Rule{
			"Y": {Weight: 0.9, Reason: "Angina saat Olahraga"},
		},
	},
	"ST_Slope": {
		Baseline: 0.2,
		Rules: map[string]Rule{
			"Flat": {Weight: 0.9, Reason: "ST Slope 'Flat'"},
			"Down": {Weight: 0.95, Reason: "ST Slope 'Downsloping'"},
		},
	},
	"FastingBS": {
		Baseline: 0.3,
		Rules: map[string]Rule{
			"1": {Weight: 0.7},
		},
	},
	"RestingECG": {
		Baseline: 0.2,
		Rules: map[string]Rule{
			"LVH": {Weight: 0.8},
			"ST":  {Weight: 0.7},
		},
	},
}

// DefaultReason substitutes when no notable rule fired; the reasons list is
// contractually never empty.
const DefaultReason = "Faktor risiko Anda terlihat terkendali."
