package gripper

import (
	"fmt"

	"github.com/amzn/robotiq-gripper-interface/modbus"
)

// Feedback is a snapshot of the gripper state read by one feedback query.
type Feedback struct {
	// CommandedPosition echoes the last requested position, scaled.
	CommandedPosition float64
	// Position is the measured finger position, scaled.
	Position float64
	// Current is the motor current between 0 (min) and 1 (max).
	Current float64

	RawCommandedPosition uint8 // 0 (open) .. 255 (closed)
	RawPosition          uint8 // 0 (open) .. 255 (closed)

	Status DetailedStatus
}

// DecodeFeedback decodes a hex encoded reply to modbus.ReadFeedbackRequest.
// The reply must be exactly modbus.FeedbackResponseLen characters long.
func DecodeFeedback(resp string, scale Scale) (Feedback, error) {
	if len(resp) != modbus.FeedbackResponseLen {
		return Feedback{}, fmt.Errorf("%w: got %d hex characters, want %d",
			ErrFeedbackUnavailable, len(resp), modbus.FeedbackResponseLen)
	}

	raw, err := modbus.HexToBytesStrict(resp)
	if err != nil {
		return Feedback{}, fmt.Errorf("%w: %w", ErrFeedbackUnavailable, err)
	}

	at := func(offset int) byte { return raw[offset/2] }

	cmdPos := at(modbus.FeedbackCommandedPositionOffset)
	pos := at(modbus.FeedbackPositionOffset)

	return Feedback{
		CommandedPosition:    scale.ToPosition(cmdPos),
		Position:             scale.ToPosition(pos),
		Current:              float64(at(modbus.FeedbackCurrentOffset)) / MaxWord,
		RawCommandedPosition: cmdPos,
		RawPosition:          pos,
		Status:               DecodeStatus(at(modbus.FeedbackStatusOffset), at(modbus.FeedbackFaultOffset)),
	}, nil
}
