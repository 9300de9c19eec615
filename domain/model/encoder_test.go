package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kardia/domain/core"
)

func TestSymbolEncoder_RoundTrip(t *testing.T) {
	enc, err := NewSymbolEncoder("ChestPainType", []string{"ASY", "ATA", "NAP", "TA"})
	require.NoError(t, err)

	assert.Equal(t, 4, enc.Cardinality())

	for want, label := range []string{"ASY", "ATA", "NAP", "TA"} {
		code, err := enc.Encode(label)
		require.NoError(t, err)
		assert.Equal(t, want, code)

		back, err := enc.Decode(code)
		require.NoError(t, err)
		assert.Equal(t, label, back)
	}
}

func TestSymbolEncoder_UnknownSymbol(t *testing.T) {
	enc, err := NewSymbolEncoder("Sex", []string{"F", "M"})
	require.NoError(t, err)

	// Unknown labels are a hard failure, never a silent fallback.
	_, err = enc.Encode("X")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownSymbol)

	_, err = enc.Decode(5)
	assert.Error(t, err)
}

func TestSymbolEncoder_RejectsBadDomains(t *testing.T) {
	_, err := NewSymbolEncoder("Sex", nil)
	assert.Error(t, err)

	_, err = NewSymbolEncoder("Sex", []string{"M", "M"})
	assert.Error(t, err)
}
