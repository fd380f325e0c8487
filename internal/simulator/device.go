// Package simulator emulates a Robotiq adaptive gripper on the device side
// of a serial link.
//
// The Device decodes MODBUS RTU requests, keeps the gripper's register
// state and answers with the frames a real 2F gripper sends. Motion is
// simulated per feedback poll: every read of the status registers advances
// the fingers by one step towards the requested position.
package simulator

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/amzn/robotiq-gripper-interface/modbus"
)

const (
	DefaultMotionStep      = 32
	DefaultActivationPolls = 2

	// Current reported while moving and while holding an object.
	movingCurrent  = 0x10
	holdingCurrent = 0x80

	faultActivationNeeded = 0x07
)

// Register field values, as encoded in the gripper status byte.
const (
	objInMotion            = 0
	objStoppedWhileClosing = 2
	objAtRequestedPosition = 3

	staInReset              = 0
	staActivationInProgress = 1
	staActivationComplete   = 3
)

// Option configures a Device.
type Option func(*Device)

// WithLineFeed makes the device expect '\n' after each request and send
// it after each response.
func WithLineFeed(enabled bool) Option {
	return func(d *Device) { d.lineFeed = enabled }
}

// WithMotionStep sets how many raw words the fingers move per feedback poll.
func WithMotionStep(step uint8) Option {
	return func(d *Device) {
		if step > 0 {
			d.step = step
		}
	}
}

// WithActivationPolls sets how many feedback polls an activation takes.
func WithActivationPolls(n int) Option {
	return func(d *Device) { d.activationPolls = n }
}

// WithObstacle places an object between the fingers: closing stops at the
// given raw position.
func WithObstacle(word uint8) Option {
	return func(d *Device) {
		d.obstacle = int(word)
	}
}

// Device is a simulated gripper serving one connection.
type Device struct {
	conn            net.Conn
	lineFeed        bool
	step            uint8
	activationPolls int
	obstacle        int

	mu sync.Mutex
	// registers
	gACT, gGTO, gSTA, gOBJ byte
	fault                  byte
	requested, position    uint8
	current                byte
	activationLeft         int
	// behavior overrides
	mute             bool
	responseDelay    time.Duration
	ackOverride      []byte
	feedbackOverride []byte
	requests         []string
}

// New creates a Device answering on conn.
func New(conn net.Conn, opts ...Option) *Device {
	d := &Device{
		conn:            conn,
		step:            DefaultMotionStep,
		activationPolls: DefaultActivationPolls,
		obstacle:        -1,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Pipe creates a Device on one end of an in-memory connection, starts
// serving it, and returns the other end for the client.
func Pipe(opts ...Option) (*Device, net.Conn) {
	local, remote := net.Pipe()
	d := New(remote, opts...)
	go func() { _ = d.Serve() }()

	return d, local
}

// Close closes the device side of the connection.
func (d *Device) Close() error {
	return d.conn.Close()
}

// Serve answers requests until the connection is closed.
func (d *Device) Serve() error {
	for {
		req, err := d.readRequest()
		if err != nil {
			if isClosed(err) {
				return nil
			}

			return err
		}

		resp := d.handle(req)
		if resp == nil {
			continue
		}

		if delay := d.delay(); delay > 0 {
			time.Sleep(delay)
		}
		if d.lineFeed {
			resp = append(resp, '\n')
		}
		if _, err := d.conn.Write(resp); err != nil {
			if isClosed(err) {
				return nil
			}

			return err
		}
	}
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed)
}

// readRequest reads one request frame, sized by its function code.
func (d *Device) readRequest() ([]byte, error) {
	frame := make([]byte, 2, 16)
	if _, err := io.ReadFull(d.conn, frame); err != nil {
		return nil, err
	}

	var rest int
	switch frame[1] {
	case modbus.FuncReadHoldingRegisters:
		rest = 6 // address, count, crc
	case modbus.FuncPresetMultipleRegisters:
		hdr := make([]byte, 5) // address, count, byte count
		if _, err := io.ReadFull(d.conn, hdr); err != nil {
			return nil, err
		}
		frame = append(frame, hdr...)
		rest = int(hdr[4]) + 2
	default:
		return nil, fmt.Errorf("simulator: unsupported function code 0x%02X", frame[1])
	}

	body := make([]byte, rest)
	if _, err := io.ReadFull(d.conn, body); err != nil {
		return nil, err
	}
	frame = append(frame, body...)

	if d.lineFeed {
		var lf [1]byte
		if _, err := io.ReadFull(d.conn, lf[:]); err != nil {
			return nil, err
		}
		if lf[0] != '\n' {
			return nil, fmt.Errorf("simulator: expected line feed, got 0x%02X", lf[0])
		}
	}

	return frame, nil
}

// handle updates the registers for req and returns the response, or nil
// if the device stays silent.
func (d *Device) handle(req []byte) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.requests = append(d.requests, modbus.BytesToHex(req))

	if !modbus.VerifyCRC(req) || req[0] != modbus.SlaveID || d.mute {
		return nil
	}

	switch req[1] {
	case modbus.FuncReadHoldingRegisters:
		d.tick()
		if d.feedbackOverride != nil {
			return clone(d.feedbackOverride)
		}

		return modbus.MustHexToBytes(modbus.FeedbackResponse(
			d.statusByte(), d.fault, d.requested, d.position, d.current))

	case modbus.FuncPresetMultipleRegisters:
		regs := req[7 : len(req)-2]
		if len(regs) == 0 {
			return nil
		}
		d.preset(regs)
		if d.ackOverride != nil {
			return clone(d.ackOverride)
		}

		return modbus.MustHexToBytes(modbus.PresetAck)
	}

	return nil
}

// preset applies the robot output registers: action request, two reserved
// bytes, position, speed and force.
func (d *Device) preset(regs []byte) {
	action := regs[0]
	rACT := action & 0x01
	rGTO := (action >> 3) & 0x01

	if rACT == 0 {
		d.gACT, d.gGTO, d.gSTA, d.gOBJ = 0, 0, staInReset, objInMotion
		d.fault, d.current, d.activationLeft = 0, 0, 0
		return
	}

	if d.gACT == 0 {
		d.gACT = 1
		d.gSTA = staActivationInProgress
		d.activationLeft = d.activationPolls
		d.fault = 0
		if d.activationLeft <= 0 {
			d.completeActivation()
		}
	}

	if rGTO == 1 && len(regs) >= 4 {
		d.gGTO = 1
		d.requested = regs[3]
		d.gOBJ = objInMotion
		if d.gSTA != staActivationComplete {
			d.fault = faultActivationNeeded
		}
	}
}

func (d *Device) completeActivation() {
	d.gSTA = staActivationComplete
	d.position = 0
	d.activationLeft = 0
}

// tick advances the simulation by one feedback poll.
func (d *Device) tick() {
	if d.gSTA == staActivationInProgress {
		d.activationLeft--
		if d.activationLeft <= 0 {
			d.completeActivation()
		}
		return
	}

	if d.gGTO == 0 || d.gSTA != staActivationComplete || d.gOBJ != objInMotion {
		return
	}
	d.fault = 0

	target := int(d.requested)
	pos := int(d.position)
	switch {
	case pos < target:
		pos = min(pos+int(d.step), target)
		if d.obstacle >= 0 && pos >= d.obstacle && target > d.obstacle {
			d.position = uint8(d.obstacle)
			d.gOBJ = objStoppedWhileClosing
			d.current = holdingCurrent
			return
		}
	case pos > target:
		pos = max(pos-int(d.step), target)
	}

	d.position = uint8(pos)
	if pos == target {
		d.gOBJ = objAtRequestedPosition
		d.current = 0
	} else {
		d.current = movingCurrent
	}
}

func (d *Device) statusByte() byte {
	return d.gOBJ<<6 | d.gSTA<<4 | d.gGTO<<3 | d.gACT
}

func (d *Device) delay() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.responseDelay
}

// SetMute makes the device read requests without answering them.
func (d *Device) SetMute(mute bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mute = mute
}

// SetResponseDelay delays every response by delay.
func (d *Device) SetResponseDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.responseDelay = delay
}

// SetAckOverride replaces the acknowledgement of preset requests with the
// given hex frame. An empty string restores the normal acknowledgement.
func (d *Device) SetAckOverride(frame string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ackOverride = overrideBytes(frame)
}

// SetFeedbackOverride replaces feedback responses with the given hex
// frame. An empty string restores normal feedback.
func (d *Device) SetFeedbackOverride(frame string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.feedbackOverride = overrideBytes(frame)
}

// Requests returns the hex encoded requests received so far.
func (d *Device) Requests() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]string(nil), d.requests...)
}

// Position returns the current raw finger position.
func (d *Device) Position() uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.position
}

// Activated reports whether the activation request bit is set.
func (d *Device) Activated() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.gACT == 1
}

func overrideBytes(frame string) []byte {
	if frame == "" {
		return nil
	}

	return modbus.MustHexToBytes(frame)
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
