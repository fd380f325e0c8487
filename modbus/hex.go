package modbus

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidHex = errors.New("modbus: invalid hex character")
	ErrOddLength  = errors.New("modbus: odd length hex string")
)

const hexDigits = "0123456789ABCDEF"

// BytesToHex encodes b as uppercase hex, two characters per byte.
func BytesToHex(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 2)
	for _, v := range b {
		sb.WriteByte(hexDigits[v>>4])
		sb.WriteByte(hexDigits[v&0x0F])
	}

	return sb.String()
}

// ByteToHex encodes a single byte as two uppercase hex characters.
func ByteToHex(v uint8) string {
	return string([]byte{hexDigits[v>>4], hexDigits[v&0x0F]})
}

// HexToBytes decodes a hex string.
//
// A trailing odd character is ignored, so "0A1" decodes to {0x0A}. Use
// HexToBytesStrict to reject odd length input instead.
func HexToBytes(s string) ([]byte, error) {
	return decodeHex(s[:len(s)&^1])
}

// HexToBytesStrict decodes a hex string, rejecting odd length input.
func HexToBytesStrict(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: %d characters", ErrOddLength, len(s))
	}

	return decodeHex(s)
}

func decodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		var invalid hex.InvalidByteError
		if errors.As(err, &invalid) {
			return nil, fmt.Errorf("%w %q in %q", ErrInvalidHex, byte(invalid), s)
		}

		return nil, fmt.Errorf("modbus: decode %q: %w", s, err)
	}

	return b, nil
}

// MustHexToBytes is like HexToBytesStrict but panics on malformed input.
// It is intended for package level frame tables built from constants.
func MustHexToBytes(s string) []byte {
	b, err := HexToBytesStrict(s)
	if err != nil {
		panic(err)
	}

	return b
}
