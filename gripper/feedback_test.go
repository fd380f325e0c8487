package gripper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amzn/robotiq-gripper-interface/modbus"
)

func TestDecodeFeedback(t *testing.T) {
	resp := modbus.FeedbackResponse(0xF9, 0x00, 0x7F, 0x7F, 0x00)
	require.Equal(t, "090306F900007F7F004334", resp)

	fb, err := DecodeFeedback(resp, metersScale)
	require.NoError(t, err)

	assert.Equal(t, uint8(127), fb.RawCommandedPosition)
	assert.Equal(t, uint8(127), fb.RawPosition)
	assert.InDelta(t, 0.043169, fb.Position, 1e-6)
	assert.InDelta(t, 0.043169, fb.CommandedPosition, 1e-6)
	assert.Zero(t, fb.Current)
	assert.Equal(t, DetailedStatus{
		Activation: Activated,
		Action:     GotoPosition,
		Finger:     ActivationComplete,
		Object:     AtRequestedPosition,
		Fault:      FaultNone,
	}, fb.Status)
}

func TestDecodeFeedback_Fields(t *testing.T) {
	resp := modbus.FeedbackResponse(0x39, 0x0E, 0xFF, 0x40, 0xFF)

	fb, err := DecodeFeedback(resp, unitScale)
	require.NoError(t, err)

	assert.Equal(t, uint8(0xFF), fb.RawCommandedPosition)
	assert.Equal(t, uint8(0x40), fb.RawPosition)
	assert.InDelta(t, 1.0, fb.CommandedPosition, 1e-12)
	assert.InDelta(t, 64.0/255, fb.Position, 1e-12)
	assert.InDelta(t, 1.0, fb.Current, 1e-12)
	assert.Equal(t, InMotion, fb.Status.Object)
	assert.Equal(t, FaultOvercurrent, fb.Status.Fault)
}

func TestDecodeFeedback_WrongLength(t *testing.T) {
	for _, resp := range []string{"", "0903", "090306F900007F7F0043", "090306F900007F7F00433400"} {
		fb, err := DecodeFeedback(resp, unitScale)
		require.ErrorIs(t, err, ErrFeedbackUnavailable, "%q", resp)
		assert.Equal(t, Feedback{}, fb)
	}
}

func TestDecodeFeedback_InvalidHex(t *testing.T) {
	fb, err := DecodeFeedback("090306F900007F7F0043ZZ", unitScale)
	require.ErrorIs(t, err, ErrFeedbackUnavailable)
	require.ErrorIs(t, err, modbus.ErrInvalidHex)
	assert.Equal(t, Feedback{}, fb)
}
