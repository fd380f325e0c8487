package serialport

import (
	"errors"
	"fmt"
	"net"
	"os"
	"slices"
	"time"
)

// LineTerminator ends every response line.
const LineTerminator = '\n'

// MaxLineLength bounds a single line so that a device streaming bytes
// without a terminator cannot keep a read alive forever.
const MaxLineLength = 256

var (
	ErrReadTimeout = errors.New("serialport: read timeout")
	ErrLineTooLong = errors.New("serialport: line exceeds maximum length")
)

// IsTimeout reports whether err is a read deadline expiry.
func IsTimeout(err error) bool {
	if errors.Is(err, ErrReadTimeout) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

// Reader reads timeout-bounded lines and frames from a Port.
type Reader struct {
	port Port
	buf  [1]byte
	line []byte
}

// NewReader creates a Reader for p.
func NewReader(p Port) *Reader {
	return &Reader{
		port: p,
		line: make([]byte, 0, 32),
	}
}

// readByte waits at most timeout for the next byte.
func (r *Reader) readByte(timeout time.Duration) (byte, error) {
	deadline := time.Now().Add(timeout)
	if err := r.port.SetReadDeadline(deadline); err != nil {
		return 0, fmt.Errorf("serialport: set read deadline: %w", err)
	}

	for {
		n, err := r.port.Read(r.buf[:])
		if n == 1 {
			return r.buf[0], nil
		}
		if err != nil {
			if IsTimeout(err) {
				return 0, ErrReadTimeout
			}

			return 0, fmt.Errorf("serialport: read: %w", err)
		}
		if !time.Now().Before(deadline) {
			return 0, ErrReadTimeout
		}
	}
}

// ReadLine reads bytes until LineTerminator, waiting at most timeout for
// each byte. The terminator is not included in the result.
//
// If a byte does not arrive in time, ReadLine returns nil and
// ErrReadTimeout; bytes read before the timeout are discarded.
func (r *Reader) ReadLine(timeout time.Duration) ([]byte, error) {
	return r.read(timeout, false, 0)
}

// ReadLineMin is like ReadLine for binary lines of known length: a
// LineTerminator byte only ends the line once at least minLen bytes have
// been read. Earlier terminator bytes are kept as data.
func (r *Reader) ReadLineMin(timeout time.Duration, minLen int) ([]byte, error) {
	return r.read(timeout, false, minLen)
}

// ReadFrame reads a frame ended either by LineTerminator or by the line
// going silent for timeout, as MODBUS RTU devices delimit frames by idle
// time. It returns ErrReadTimeout only if no byte arrived at all.
func (r *Reader) ReadFrame(timeout time.Duration) ([]byte, error) {
	return r.read(timeout, true, 0)
}

// ReadFrameMin is like ReadFrame, but a LineTerminator byte only ends the
// frame once at least minLen bytes have been read.
func (r *Reader) ReadFrameMin(timeout time.Duration, minLen int) ([]byte, error) {
	return r.read(timeout, true, minLen)
}

func (r *Reader) read(timeout time.Duration, silenceEnds bool, minLen int) ([]byte, error) {
	r.line = r.line[:0]

	for {
		b, err := r.readByte(timeout)
		if err != nil {
			if silenceEnds && errors.Is(err, ErrReadTimeout) && len(r.line) > 0 {
				return slices.Clone(r.line), nil
			}

			return nil, err
		}

		if b == LineTerminator && len(r.line) >= minLen {
			return slices.Clone(r.line), nil
		}
		if len(r.line) == MaxLineLength {
			return nil, ErrLineTooLong
		}
		r.line = append(r.line, b)
	}
}

// Drain discards input until no byte arrives for quiet, returning the
// number of bytes discarded. It is used to resynchronize after a late or
// malformed response.
func (r *Reader) Drain(quiet time.Duration) int {
	n := 0
	for {
		if _, err := r.readByte(quiet); err != nil {
			return n
		}
		n++
	}
}
