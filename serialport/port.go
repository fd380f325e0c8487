package serialport

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// Port is a byte-stream transport with read deadlines.
//
// A read blocked past the deadline must fail with an error for which
// IsTimeout reports true. net.Conn implementations satisfy Port.
type Port interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
}

// Open opens the serial device described by cfg with 8N1 framing.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, errors.New("serialport: config is nil")
	}

	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.device,
		Baud:        cfg.baud,
		ReadTimeout: cfg.pollInterval,
		Size:        DataBits,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", cfg.device, err)
	}

	cfg.logger.Debug("serial port opened", "device", cfg.device, "baud", cfg.baud)

	return newPollingPort(p), nil
}

// pollingPort adds read deadlines to a port whose reads return after a
// fixed driver timeout. An expired driver timeout shows up as a read of
// zero bytes, reported either as io.EOF or as no error at all depending on
// the platform; both are retried until data arrives or the deadline passes.
type pollingPort struct {
	raw io.ReadWriteCloser

	mu       sync.Mutex
	deadline time.Time
}

var _ Port = (*pollingPort)(nil)

func newPollingPort(raw io.ReadWriteCloser) *pollingPort {
	return &pollingPort{raw: raw}
}

func (p *pollingPort) SetReadDeadline(t time.Time) error {
	p.mu.Lock()
	p.deadline = t
	p.mu.Unlock()

	return nil
}

func (p *pollingPort) readDeadline() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.deadline
}

func (p *pollingPort) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	for {
		deadline := p.readDeadline()
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return 0, os.ErrDeadlineExceeded
		}

		n, err := p.raw.Read(b)
		if n > 0 {
			return n, nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
	}
}

func (p *pollingPort) Write(b []byte) (int, error) {
	return p.raw.Write(b)
}

func (p *pollingPort) Close() error {
	return p.raw.Close()
}
