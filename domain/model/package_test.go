package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kardia/domain/core"
)

func testPackage(t *testing.T) *ModelPackage {
	t.Helper()

	nodes := []Node{
		{Name: "Disease", CPT: []float64{0.5, 0.5}},
		{Name: "Marker", Parents: []core.FeatureName{"Disease"}, CPT: []float64{0.8, 0.2, 0.3, 0.7}},
	}
	card := map[core.FeatureName]int{"Disease": 2, "Marker": 2}
	net, err := NewBayesianNetwork(nodes, card)
	require.NoError(t, err)

	diseaseEnc, err := NewSymbolEncoder("Disease", []string{"0", "1"})
	require.NoError(t, err)
	markerEnc, err := NewSymbolEncoder("Marker", []string{"High", "Low"})
	require.NoError(t, err)

	disc, err := NewDiscretizer(map[core.FeatureName]BinRule{
		"Marker": {Cuts: []float64{10}, Labels: []string{"Low", "High"}},
	})
	require.NoError(t, err)

	return &ModelPackage{
		Network: net,
		Encoders: map[core.FeatureName]*SymbolEncoder{
			"Disease": diseaseEnc,
			"Marker":  markerEnc,
		},
		Discretizer:   disc,
		Features:      []core.FeatureName{"Marker"},
		Target:        "Disease",
		PositiveLabel: "1",
	}
}

func TestModelPackage_Validate(t *testing.T) {
	pkg := testPackage(t)
	require.NoError(t, pkg.Validate())

	assert.Equal(t, 1, pkg.PositiveCode())
	assert.True(t, pkg.IsNumeric("Marker"))
	assert.False(t, pkg.IsNumeric("Disease"))
}

func TestModelPackage_Validate_CatchesMismatches(t *testing.T) {
	pkg := testPackage(t)
	pkg.PositiveLabel = "yes"
	assert.Error(t, pkg.Validate())

	pkg = testPackage(t)
	delete(pkg.Encoders, "Marker")
	assert.Error(t, pkg.Validate())

	pkg = testPackage(t)
	pkg.Features = []core.FeatureName{"Marker", "Disease"}
	assert.Error(t, pkg.Validate(), "target listed as input feature")

	// A bin label the encoder cannot consume breaks the pipeline contract.
	pkg = testPackage(t)
	disc, err := NewDiscretizer(map[core.FeatureName]BinRule{
		"Marker": {Cuts: []float64{10}, Labels: []string{"Low", "Extreme"}},
	})
	require.NoError(t, err)
	pkg.Discretizer = disc
	assert.Error(t, pkg.Validate())
}
