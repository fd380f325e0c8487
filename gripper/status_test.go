package gripper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeStatus_Bitfields(t *testing.T) {
	tests := []struct {
		status byte
		want   DetailedStatus
	}{
		{0x00, DetailedStatus{}},
		{0x01, DetailedStatus{Activation: Activated}},
		{0x08, DetailedStatus{Action: GotoPosition}},
		{0x10, DetailedStatus{Finger: ActivationInProgress}},
		{0x20, DetailedStatus{Finger: ActivationComplete}},
		{0x30, DetailedStatus{Finger: ActivationComplete}},
		{0x40, DetailedStatus{Object: StoppedWhileOpening}},
		{0x80, DetailedStatus{Object: StoppedWhileClosing}},
		{0xC0, DetailedStatus{Object: AtRequestedPosition}},
		{0xF9, DetailedStatus{
			Activation: Activated,
			Action:     GotoPosition,
			Finger:     ActivationComplete,
			Object:     AtRequestedPosition,
		}},
		// reserved bits 1, 2 are ignored
		{0x06, DetailedStatus{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DecodeStatus(tt.status, 0), "status 0x%02X", tt.status)
	}
}

func TestDecodeStatus_Faults(t *testing.T) {
	tests := []struct {
		fault byte
		want  FaultStatus
	}{
		{0x00, FaultNone},
		{0x05, FaultActionDelayed},
		{0x07, FaultActivationNeeded},
		{0x08, FaultMaxTempExceeded},
		{0x09, FaultCommTimeout},
		{0x0A, FaultUnderVoltage},
		{0x0B, FaultAutomaticReleaseInProgress},
		{0x0C, FaultInternal},
		{0x0D, FaultActivation},
		{0x0E, FaultOvercurrent},
		{0x0F, FaultAutomaticReleaseCompleted},
		{0x01, FaultUnknown},
		{0x06, FaultUnknown},
		// the high nibble holds the controller fault and is not decoded
		{0xF7, FaultActivationNeeded},
		{0x30, FaultNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DecodeStatus(0, tt.fault).Fault, "fault 0x%02X", tt.fault)
	}
}

func TestDetailedStatus_Basic(t *testing.T) {
	assert.Equal(t, Reset, DecodeStatus(0x00, 0).Basic())
	assert.Equal(t, Reset, DecodeStatus(0xF8, 0).Basic())
	assert.Equal(t, Activating, DecodeStatus(0x11, 0).Basic())
	assert.Equal(t, Ready, DecodeStatus(0x31, 0).Basic())
	assert.Equal(t, Moving, DecodeStatus(0x39, 0).Basic())
	assert.Equal(t, Ready, DecodeStatus(0xB9, 0).Basic())
	assert.Equal(t, Ready, DecodeStatus(0xF9, 0).Basic())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Activated", Activated.String())
	assert.Equal(t, "GotoPosition", GotoPosition.String())
	assert.Equal(t, "ActivationComplete", ActivationComplete.String())
	assert.Equal(t, "StoppedWhileClosing", StoppedWhileClosing.String())
	assert.Equal(t, "ActivationNeeded", FaultActivationNeeded.String())
	assert.Equal(t, "AutomaticReleaseCompleted", FaultAutomaticReleaseCompleted.String())
	assert.Equal(t, "Unknown", FaultStatus(99).String())
	assert.Equal(t, "Moving", Moving.String())
	assert.Equal(t, "Unknown", UnknownStatus.String())
	assert.Equal(t, "Unknown", BasicStatus(42).String())
	assert.Equal(t, "Connected", ConnectedState.String())
	assert.Equal(t, "Silence", FramingSilence.String())
}
