package modbus

import (
	"fmt"
	"strings"
)

// Addressing and function codes used by the gripper (manual section 4).
const (
	SlaveID = 0x09

	FuncReadHoldingRegisters    = 0x03
	FuncPresetMultipleRegisters = 0x10

	// InputRegisterBase is the first robot input (gripper status) register.
	InputRegisterBase = 0x07D0
	// OutputRegisterBase is the first robot output (gripper command) register.
	OutputRegisterBase = 0x03E8
)

// Request and response frames, as ASCII hex.
const (
	// ReadFeedbackRequest reads the three gripper status registers (FC03).
	ReadFeedbackRequest = "090307D00003040E"

	// ResetRequest clears rACT, deactivating the gripper (FC16).
	ResetRequest = "091003E80003060000000000007330"
	// ActivateRequest sets rACT (FC16).
	ActivateRequest = "091003E800030601000000000072E1"

	// PositionRequestPrefix sets rACT and rGTO; the position byte follows.
	PositionRequestPrefix = "091003E8000306090000"
	// PositionRequestSuffix requests full speed and full force.
	PositionRequestSuffix = "FFFF"

	// PresetAck is the device's reply to every FC16 request above.
	PresetAck = "091003E800030130"

	// FeedbackResponseLen is the length in hex characters of a complete
	// reply to ReadFeedbackRequest: slave, function, byte count, six data
	// bytes and the CRC.
	FeedbackResponseLen = 22
)

// Offsets, in hex characters, of the fields of a feedback response.
const (
	FeedbackStatusOffset            = 6
	FeedbackFaultOffset             = 10
	FeedbackCommandedPositionOffset = 12
	FeedbackPositionOffset          = 14
	FeedbackCurrentOffset           = 16
)

// PositionRequest builds the FC16 frame commanding raw position word.
func PositionRequest(word uint8) (string, error) {
	return AppendCRC(PositionRequestPrefix + ByteToHex(word) + PositionRequestSuffix)
}

// ParsePositionRequest extracts the position word from a frame built by
// PositionRequest, verifying its checksum.
func ParsePositionRequest(frame string) (uint8, error) {
	const wordOffset = len(PositionRequestPrefix)
	if len(frame) != len(PositionRequestPrefix)+2+len(PositionRequestSuffix)+4 ||
		!strings.HasPrefix(frame, PositionRequestPrefix) ||
		frame[wordOffset+2:wordOffset+2+len(PositionRequestSuffix)] != PositionRequestSuffix {
		return 0, fmt.Errorf("modbus: not a position request: %q", frame)
	}

	raw, err := HexToBytesStrict(frame)
	if err != nil {
		return 0, err
	}
	if !VerifyCRC(raw) {
		return 0, fmt.Errorf("modbus: position request crc mismatch: %q", frame)
	}

	return raw[wordOffset/2], nil
}

// FeedbackResponse builds the reply to ReadFeedbackRequest carrying the
// given register bytes. It is the device side of the exchange and is used
// by simulators.
func FeedbackResponse(status, fault, commandedPosition, position, current byte) string {
	frame := []byte{
		SlaveID, FuncReadHoldingRegisters, 0x06,
		status, 0x00, fault, commandedPosition, position, current,
	}
	crc := CRC16(frame)
	frame = append(frame, byte(crc), byte(crc>>8))

	return BytesToHex(frame)
}
