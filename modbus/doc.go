// Package modbus implements the wire codec for the Robotiq gripper's
// ASCII-hex framed MODBUS RTU protocol.
//
// The gripper's command set is documented as fixed hexadecimal strings.
// Requests are kept in that form so they can be compared against the
// device manual, and are converted to binary only when written to the
// serial line. Responses travel the opposite way: the raw bytes read from
// the line are hex-encoded and compared, or decoded, as text.
//
// # Checksum
//
// Frames end with the MODBUS RTU CRC-16 (polynomial 0x8005 reflected,
// initial value 0xFFFF, no final XOR), transmitted low byte first.
// [CRC16Modbus] returns the checksum already in that wire order, so
// appending it to a request string yields a valid frame.
package modbus
