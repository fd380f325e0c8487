package modbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionRequest(t *testing.T) {
	tests := []struct {
		word uint8
		want string
	}{
		{0, "091003E800030609000000FFFF7219"},
		{127, "091003E80003060900007FFFFF43C1"},
		{255, "091003E8000306090000FFFFFF4229"},
	}

	for _, tt := range tests {
		got, err := PositionRequest(tt.word)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)

		word, err := ParsePositionRequest(got)
		require.NoError(t, err)
		assert.Equal(t, tt.word, word)
	}
}

func TestParsePositionRequest_Rejects(t *testing.T) {
	_, err := ParsePositionRequest(ResetRequest)
	require.Error(t, err)

	_, err = ParsePositionRequest("091003E80003060900007FFFFF43C2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crc")

	_, err = ParsePositionRequest("091003E80003060900007F0000A0C8")
	require.Error(t, err)
}

func TestFeedbackResponse(t *testing.T) {
	got := FeedbackResponse(0xF9, 0x00, 0x7F, 0x7F, 0x00)
	assert.Equal(t, "090306F900007F7F004334", got)
	assert.Len(t, got, FeedbackResponseLen)
	assert.True(t, VerifyCRC(MustHexToBytes(got)))

	assert.Equal(t, "F9", got[FeedbackStatusOffset:FeedbackStatusOffset+2])
	assert.Equal(t, "7F", got[FeedbackPositionOffset:FeedbackPositionOffset+2])
}
