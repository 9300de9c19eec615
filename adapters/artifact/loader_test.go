package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kardia/domain/core"
)

func TestLoad_Embedded(t *testing.T) {
	pkg, version, err := Load("")
	require.NoError(t, err)
	assert.Contains(t, version, "embedded")

	assert.Equal(t, core.FeatureName("HeartDisease"), pkg.Target)
	assert.Equal(t, "1", pkg.PositiveLabel)
	assert.Equal(t, 1, pkg.PositiveCode())
	assert.Len(t, pkg.Features, 11)
	assert.Len(t, pkg.Network.Variables(), 12)

	// Numeric features go through discretization, categoricals do not.
	for _, feature := range []core.FeatureName{"Age", "RestingBP", "Cholesterol", "MaxHR", "Oldpeak"} {
		assert.True(t, pkg.IsNumeric(feature), "feature %s", feature)
	}
	for _, feature := range []core.FeatureName{"Sex", "ChestPainType", "FastingBS", "RestingECG", "ExerciseAngina", "ST_Slope"} {
		assert.False(t, pkg.IsNumeric(feature), "feature %s", feature)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load("/does/not/exist.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrModelLoad)
}

func TestParse_RejectsBrokenArtifacts(t *testing.T) {
	_, _, err := parse([]byte("{not json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrModelLoad)

	// Valid JSON but an empty document fails package validation.
	_, _, err = parse([]byte(`{"version":"x"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrModelLoad)
}

func TestLoad_EncoderOrderMatchesTraining(t *testing.T) {
	pkg, _, err := Load("")
	require.NoError(t, err)

	// Classes are lexicographically sorted, matching the label encoding
	// used when the CPTs were fitted.
	enc, ok := pkg.Encoder("ChestPainType")
	require.True(t, ok)
	assert.Equal(t, []string{"ASY", "ATA", "NAP", "TA"}, enc.Classes())

	enc, ok = pkg.Encoder("Age")
	require.True(t, ok)
	assert.Equal(t, []string{"40-60", "<40", ">60"}, enc.Classes())
}
