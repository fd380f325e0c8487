package modbus

import "fmt"

// crcTable is the byte-wise lookup table for the reflected 0x8005
// polynomial (0xA001).
var crcTable = makeCRCTable(0xA001)

func makeCRCTable(poly uint16) *[256]uint16 {
	var t [256]uint16
	for i := range t {
		crc := uint16(i)
		for range 8 {
			if crc&1 != 0 {
				crc = crc>>1 ^ poly
			} else {
				crc >>= 1
			}
		}
		t[i] = crc
	}

	return &t
}

// CRC16 computes the MODBUS RTU CRC-16 of data.
//
// The low byte of the result is transmitted first on the wire.
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc = crc>>8 ^ crcTable[byte(crc)^b]
	}

	return crc
}

// CRC16Modbus computes the checksum of a hex encoded frame and returns it
// as four uppercase hex characters in wire order (low byte first).
func CRC16Modbus(frame string) (string, error) {
	data, err := HexToBytes(frame)
	if err != nil {
		return "", err
	}

	return crcHex(CRC16(data)), nil
}

// AppendCRC returns frame with its checksum appended.
func AppendCRC(frame string) (string, error) {
	crc, err := CRC16Modbus(frame)
	if err != nil {
		return "", fmt.Errorf("modbus: append crc: %w", err)
	}

	return frame + crc, nil
}

// VerifyCRC reports whether the last two bytes of a binary frame hold the
// checksum of the bytes before them.
func VerifyCRC(frame []byte) bool {
	if len(frame) < 3 {
		return false
	}
	n := len(frame) - 2
	crc := CRC16(frame[:n])

	return frame[n] == byte(crc) && frame[n+1] == byte(crc>>8)
}

func crcHex(crc uint16) string {
	return ByteToHex(byte(crc)) + ByteToHex(byte(crc>>8))
}
