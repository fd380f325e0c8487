// Package serialport provides the byte-stream transport used to talk to the
// gripper and a reader that bounds every wait on it.
//
// A [Port] is any io.ReadWriteCloser that supports read deadlines. net.Conn
// values qualify, which is how the tests drive the reader. Physical RS-485
// adapters are opened with [Open], which configures 8 data bits, one stop
// bit and no parity at the requested baud rate.
//
// # Reading with timeouts
//
// [Reader] reads one byte at a time. Before each byte it arms a fresh
// deadline on the port, so a read either delivers a byte or fails at the
// deadline. Nothing is left pending when a read returns: a timed out call
// cannot consume bytes that belong to the next call.
//
// This type is NOT goroutine-safe. The protocol is half-duplex and the
// caller must finish one exchange before starting the next.
package serialport
