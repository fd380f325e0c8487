package gripper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScale_RoundTrip(t *testing.T) {
	scales := []Scale{
		unitScale,
		metersScale,
		{Alpha: -0.14, Beta: 0.14},
		{Alpha: 255, Beta: 0},
		{Alpha: 0.5, Beta: -3},
		{Alpha: -1, Beta: 1},
		{Alpha: 0.085, Beta: 0},
	}

	for _, s := range scales {
		for w := 0; w <= MaxWord; w++ {
			word := uint8(w)
			if got := s.ToWord(s.ToPosition(word)); got != word {
				t.Errorf("scale %+v: ToWord(ToPosition(%d)) = %d", s, word, got)
			}
		}
	}
}

func TestScale_ToPosition(t *testing.T) {
	assert.InDelta(t, 0.0, unitScale.ToPosition(0), 1e-12)
	assert.InDelta(t, 1.0, unitScale.ToPosition(MaxWord), 1e-12)

	assert.InDelta(t, 0.086, metersScale.ToPosition(0), 1e-12)
	assert.InDelta(t, 0.0, metersScale.ToPosition(MaxWord), 1e-12)
	assert.InDelta(t, 0.043169, metersScale.ToPosition(127), 1e-6)
}

func TestScale_ToWordClamps(t *testing.T) {
	assert.Equal(t, uint8(0), unitScale.ToWord(-0.5))
	assert.Equal(t, uint8(MaxWord), unitScale.ToWord(1.5))
	assert.Equal(t, uint8(MaxWord), unitScale.ToWord(math.Inf(1)))
	assert.Equal(t, uint8(0), unitScale.ToWord(math.Inf(-1)))
	assert.Equal(t, uint8(0), unitScale.ToWord(math.NaN()))

	// negative alpha inverts the direction
	assert.Equal(t, uint8(MaxWord), metersScale.ToWord(-1))
	assert.Equal(t, uint8(0), metersScale.ToWord(1))
}

func TestScale_ToWordTruncates(t *testing.T) {
	assert.Equal(t, uint8(127), unitScale.ToWord(127.9/MaxWord))
	assert.Equal(t, uint8(127), metersScale.ToWord(0.043))
}

func TestScale_Validate(t *testing.T) {
	require.NoError(t, unitScale.Validate())
	require.NoError(t, metersScale.Validate())

	for _, s := range []Scale{
		{Alpha: 0, Beta: 0},
		{Alpha: math.NaN(), Beta: 0},
		{Alpha: math.Inf(1), Beta: 0},
		{Alpha: 1, Beta: math.NaN()},
		{Alpha: 1, Beta: math.Inf(-1)},
	} {
		assert.ErrorIs(t, s.Validate(), ErrInvalidScale, "%+v", s)
	}
}
