package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorer_NotableRules(t *testing.T) {
	s := NewScorer()

	score := s.Score("Age", ">60", 61)
	assert.Equal(t, 0.8, score.Contribution)
	assert.Equal(t, "Usia Lanjut (61 tahun)", score.Reason)

	score = s.Score("Cholesterol", "High", 250)
	assert.Equal(t, 0.9, score.Contribution)
	assert.Equal(t, "Kolesterol Tinggi (250 mg/dl)", score.Reason)

	score = s.Score("Oldpeak", "High", 2.5)
	assert.Equal(t, "Depresi ST Sangat Tinggi (2.5)", score.Reason)

	score = s.Score("ExerciseAngina", "Y", "Y")
	assert.Equal(t, 0.9, score.Contribution)
	assert.Equal(t, "Angina saat Olahraga", score.Reason)

	score = s.Score("ST_Slope", "Down", "Down")
	assert.Equal(t, 0.95, score.Contribution)
	assert.Equal(t, "ST Slope 'Downsloping'", score.Reason)
}

func TestScorer_WeightWithoutReason(t *testing.T) {
	s := NewScorer()

	// Some categories contribute weight without producing a reason line.
	score := s.Score("Sex", "M", "M")
	assert.Equal(t, 0.6, score.Contribution)
	assert.Empty(t, score.Reason)

	score = s.Score("MaxHR", "Very Low", 80)
	assert.Equal(t, 0.8, score.Contribution)
	assert.Empty(t, score.Reason)
}

func TestScorer_BaselineFallback(t *testing.T) {
	s := NewScorer()

	score := s.Score("Age", "<40", 30)
	assert.Equal(t, 0.2, score.Contribution)
	assert.Empty(t, score.Reason)

	score = s.Score("RestingBP", "Normal", 110)
	assert.Equal(t, 0.3, score.Contribution)
	assert.Empty(t, score.Reason)
}

func TestScorer_DeterministicLookups(t *testing.T) {
	s := NewScorer()
	first := s.Score("ChestPainType", "ASY", "ASY")
	second := s.Score("ChestPainType", "ASY", "ASY")
	assert.Equal(t, first, second)
}

func TestNormalizedImportance(t *testing.T) {
	importance := NormalizedImportance()
	assert.Len(t, importance, 11)

	total := 0.0
	for _, pct := range importance {
		assert.Greater(t, pct, 0.0)
		total += pct
	}
	// Rounding to one decimal may drift the total slightly off 100.
	assert.InDelta(t, 100.0, total, 0.5)

	// ChestPainType carries the largest raw weight (18 of 130).
	assert.InDelta(t, 13.8, importance["ChestPainType"], 0.1)
}
