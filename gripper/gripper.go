package gripper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/amzn/robotiq-gripper-interface/internal/pool"
	"github.com/amzn/robotiq-gripper-interface/logger"
	"github.com/amzn/robotiq-gripper-interface/modbus"
	"github.com/amzn/robotiq-gripper-interface/serialport"
)

// Sentinel errors for gripper operations.
var (
	ErrNotConnected        = errors.New("gripper: not connected")
	ErrTimeout             = errors.New("gripper: response timeout")
	ErrProtocolMismatch    = errors.New("gripper: unexpected response")
	ErrFeedbackUnavailable = errors.New("gripper: feedback unavailable")
	ErrInvalidScale        = errors.New("gripper: invalid scale")
	ErrPollLimit           = errors.New("gripper: poll attempts exhausted")
)

// Response sizes in bytes.
const (
	ackSize      = len(modbus.PresetAck) / 2
	feedbackSize = modbus.FeedbackResponseLen / 2
)

// Gripper is a session with one Robotiq adaptive gripper.
//
// Every method blocks until its exchange with the device completes or times
// out. Methods are serialized internally; running them from several
// goroutines is safe but gains nothing, since the link is half-duplex.
//
// A response timeout keeps the session connected. A failed write or read
// on the transport closes it; call Connect again to resume.
type Gripper struct {
	cfg     *Config
	logger  logger.Logger
	metrics *Metrics

	state   atomicConnState
	timeout atomic.Int64 // time.Duration
	scale   atomic.Pointer[Scale]

	mu     sync.Mutex
	device string
	port   serialport.Port
	reader *serialport.Reader
	// resync is set after a timeout or a bad response: the device may
	// still be sending, so the line is drained before the next request.
	resync bool
}

// New creates a disconnected Gripper. A nil cfg uses the defaults.
func New(cfg *Config) (*Gripper, error) {
	if cfg == nil {
		var err error
		if cfg, err = NewConfig(); err != nil {
			return nil, err
		}
	}

	g := &Gripper{
		cfg:     cfg,
		logger:  cfg.logger,
		metrics: newMetrics(),
	}
	g.timeout.Store(int64(cfg.receiveTimeout))
	g.scale.Store(&Scale{Alpha: DefaultScaleAlpha, Beta: DefaultScaleBeta})

	return g, nil
}

// Connect opens the serial port at the given baud rate (8N1) and sets the
// position scale factors. Any previous connection is closed first.
func (g *Gripper) Connect(device string, baud int, alpha, beta float64) error {
	scale := Scale{Alpha: alpha, Beta: beta}
	if err := scale.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.closeLocked(); err != nil {
		g.logger.Warn("failed to close previous connection", "port", g.device, "error", err)
	}
	g.scale.Store(&scale)

	port, err := g.cfg.opener(device, baud)
	if err != nil {
		g.logger.Error("connect failed", "port", device, "error", err)
		return fmt.Errorf("gripper: connect %s: %w", device, err)
	}

	g.device = device
	g.port = port
	g.reader = serialport.NewReader(port)
	g.resync = false
	g.state.Set(ConnectedState)
	g.logger.Info("gripper connected", "port", device, "baud", baud, "alpha", alpha, "beta", beta)

	return nil
}

// Close closes the transport. The session can be connected again later.
func (g *Gripper) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.closeLocked()
}

func (g *Gripper) closeLocked() error {
	if g.port == nil {
		return nil
	}

	err := g.port.Close()
	g.port = nil
	g.reader = nil
	g.state.Set(DisconnectedState)
	g.logger.Info("gripper disconnected", "port", g.device)

	return err
}

// IsConnected reports whether the session holds an open transport.
func (g *Gripper) IsConnected() bool {
	return g.state.IsConnected()
}

// State returns the connection state.
func (g *Gripper) State() ConnState {
	return g.state.Get()
}

// SetTimeout sets the per-byte response timeout.
func (g *Gripper) SetTimeout(d time.Duration) error {
	if err := validateReceiveTimeout(d); err != nil {
		return err
	}
	g.timeout.Store(int64(d))

	return nil
}

// Timeout returns the per-byte response timeout.
func (g *Gripper) Timeout() time.Duration {
	return time.Duration(g.timeout.Load())
}

// Scale returns the position scale factors set by the last Connect.
func (g *Gripper) Scale() Scale {
	return *g.scale.Load()
}

// PositionToWord converts a scaled position to a raw word.
func (g *Gripper) PositionToWord(position float64) uint8 {
	return g.Scale().ToWord(position)
}

// WordToPosition converts a raw word to a scaled position.
func (g *Gripper) WordToPosition(word uint8) float64 {
	return g.Scale().ToPosition(word)
}

// Metrics returns the session counters.
func (g *Gripper) Metrics() *Metrics {
	return g.metrics
}

// Reset deactivates the gripper. If blocking, it waits until the gripper
// reports it is no longer activated.
func (g *Gripper) Reset(ctx context.Context, blocking bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.ready(ctx, "reset"); err != nil {
		return err
	}
	if err := g.preset(modbus.ResetRequest); err != nil {
		return err
	}
	if !blocking {
		return nil
	}

	return g.waitFor(ctx, "reset", func(s DetailedStatus) bool {
		return s.Activation == NotActivated
	})
}

// Activate activates the gripper, which makes the fingers move. If
// blocking, it waits until the gripper reports it is activated and then for
// the configured settle delay.
func (g *Gripper) Activate(ctx context.Context, blocking bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.ready(ctx, "activate"); err != nil {
		return err
	}
	if err := g.preset(modbus.ActivateRequest); err != nil {
		return err
	}
	if !blocking {
		return nil
	}

	err := g.waitFor(ctx, "activation", func(s DetailedStatus) bool {
		return s.Activation == Activated
	})
	if err != nil {
		return err
	}

	if err := pool.Sleep(ctx, g.cfg.settleDelay); err != nil {
		return fmt.Errorf("gripper: activation settle: %w", err)
	}

	return nil
}

// IsActivated queries the gripper and reports whether it is activated.
func (g *Gripper) IsActivated(ctx context.Context) (bool, error) {
	fb, err := g.Feedback(ctx)
	if err != nil {
		return false, err
	}

	return fb.Status.Activation == Activated, nil
}

// CloseGripper closes the fingers until fully closed or an object stops them.
func (g *Gripper) CloseGripper(ctx context.Context, blocking bool) error {
	return g.SetRawPosition(ctx, MaxWord, blocking)
}

// OpenGripper opens the fingers until fully open or an obstacle stops them.
func (g *Gripper) OpenGripper(ctx context.Context, blocking bool) error {
	return g.SetRawPosition(ctx, 0, blocking)
}

// SetPosition moves the fingers to a scaled position. Positions outside the
// scale's range are clamped.
func (g *Gripper) SetPosition(ctx context.Context, position float64, blocking bool) error {
	return g.SetRawPosition(ctx, g.PositionToWord(position), blocking)
}

// SetRawPosition moves the fingers to a raw position word, 0 (open) to 255
// (closed), at full speed and force. If blocking, it waits until the
// fingers stop moving.
func (g *Gripper) SetRawPosition(ctx context.Context, word uint8, blocking bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.ready(ctx, "set position"); err != nil {
		return err
	}

	req, err := modbus.PositionRequest(word)
	if err != nil {
		return err
	}
	if err := g.preset(req); err != nil {
		return err
	}
	if !blocking {
		return nil
	}

	return g.waitFor(ctx, "position", func(s DetailedStatus) bool {
		return s.Object != InMotion
	})
}

// Feedback reads the gripper status and positions.
//
// On failure the returned Feedback is the zero value and the error wraps
// ErrFeedbackUnavailable (or is ErrNotConnected).
func (g *Gripper) Feedback(ctx context.Context) (Feedback, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.ready(ctx, "get feedback"); err != nil {
		return Feedback{}, err
	}

	return g.feedback()
}

// Status reads the gripper state and summarizes it. A disconnected
// gripper reports NotConnected with ErrNotConnected; a failed query on a
// connected gripper reports UnknownStatus with the query error.
func (g *Gripper) Status(ctx context.Context) (BasicStatus, error) {
	fb, err := g.Feedback(ctx)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			return NotConnected, err
		}

		return UnknownStatus, err
	}

	return fb.Status.Basic(), nil
}

// ready checks that an operation may use the transport.
func (g *Gripper) ready(ctx context.Context, op string) error {
	if !g.state.IsConnected() {
		g.logger.Warn("operation ignored since the gripper is not connected", "op", op)
		return ErrNotConnected
	}

	return ctx.Err()
}

func (g *Gripper) feedback() (Feedback, error) {
	resp, err := g.exchange(modbus.ReadFeedbackRequest, feedbackSize)
	if err == nil && g.cfg.responseCRCCheck && len(resp) == modbus.FeedbackResponseLen &&
		!modbus.VerifyCRC(modbus.MustHexToBytes(resp)) {
		g.resync = true
		err = fmt.Errorf("%w: crc mismatch in %q", ErrProtocolMismatch, resp)
	}

	var fb Feedback
	if err == nil {
		if fb, err = DecodeFeedback(resp, g.Scale()); err != nil {
			g.resync = true
		}
	}
	if err != nil {
		g.metrics.FeedbackErrCount.Inc()
		g.logger.Warn("feedback query failed, consider increasing the timeout",
			"port", g.device, "timeout", g.Timeout(), "error", err)
		if !errors.Is(err, ErrFeedbackUnavailable) {
			err = fmt.Errorf("%w: %w", ErrFeedbackUnavailable, err)
		}

		return Feedback{}, err
	}

	g.metrics.FeedbackCount.Inc()

	return fb, nil
}

// preset sends a preset multiple registers request and checks the
// acknowledgement.
func (g *Gripper) preset(req string) error {
	resp, err := g.exchange(req, ackSize)
	if err != nil {
		g.logger.Warn("command failed", "port", g.device, "request", req, "error", err)
		return err
	}

	if resp != modbus.PresetAck {
		g.metrics.MismatchCount.Inc()
		g.resync = true
		g.logger.Warn("unexpected acknowledgement", "port", g.device, "request", req, "response", resp)

		return fmt.Errorf("%w: got %q, want %q", ErrProtocolMismatch, resp, modbus.PresetAck)
	}
	g.metrics.AckCount.Inc()

	return nil
}

// exchange writes one request and reads its response, returned as hex.
// Line terminator bytes inside the first size bytes of the response are
// data, since the response is binary.
func (g *Gripper) exchange(req string, size int) (string, error) {
	if g.port == nil {
		return "", ErrNotConnected
	}

	frame, err := modbus.HexToBytesStrict(req)
	if err != nil {
		return "", err
	}

	timeout := g.Timeout()
	if g.resync {
		if n := g.reader.Drain(timeout); n > 0 {
			g.logger.Debug("discarded stale input", "port", g.device, "bytes", n)
		}
		g.resync = false
	}

	if g.cfg.framing == FramingLineFeed {
		frame = append(frame, serialport.LineTerminator)
	}
	if _, err := g.port.Write(frame); err != nil {
		err = fmt.Errorf("gripper: write request: %w", err)
		g.disconnectLocked(err)

		return "", err
	}
	g.metrics.RequestCount.Inc()

	var resp []byte
	if g.cfg.framing == FramingSilence {
		resp, err = g.reader.ReadFrameMin(timeout, size)
	} else {
		resp, err = g.reader.ReadLineMin(timeout, size)
	}

	switch {
	case err == nil:
	case serialport.IsTimeout(err):
		g.metrics.TimeoutCount.Inc()
		g.resync = true
		return "", fmt.Errorf("%w after %v", ErrTimeout, timeout)
	case errors.Is(err, serialport.ErrLineTooLong):
		g.resync = true
		return "", fmt.Errorf("%w: %w", ErrProtocolMismatch, err)
	default:
		err = fmt.Errorf("gripper: read response: %w", err)
		g.disconnectLocked(err)

		return "", err
	}

	hex := modbus.BytesToHex(resp)
	g.logger.Debug("exchange", "port", g.device, "request", req, "response", hex)

	return hex, nil
}

// disconnectLocked closes a transport that failed.
func (g *Gripper) disconnectLocked(cause error) {
	g.logger.Error("transport failed, closing connection", "port", g.device, "error", cause)
	if err := g.closeLocked(); err != nil {
		g.logger.Debug("close after transport failure", "port", g.device, "error", err)
	}
}

// waitFor polls feedback until done reports true. Failed polls are retried.
func (g *Gripper) waitFor(ctx context.Context, what string, done func(DetailedStatus) bool) error {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("gripper: wait for %s: %w", what, err)
		}

		g.metrics.PollCount.Inc()
		fb, err := g.feedback()
		if err == nil && done(fb.Status) {
			g.logger.Debug("wait completed", "port", g.device, "for", what, "polls", attempt)
			return nil
		}
		if !g.state.IsConnected() {
			return fmt.Errorf("gripper: wait for %s: %w", what, err)
		}

		if limit := g.cfg.maxPollAttempts; limit > 0 && attempt >= limit {
			return fmt.Errorf("%w: %s not reached after %d polls", ErrPollLimit, what, attempt)
		}
		if err := pool.Sleep(ctx, g.cfg.pollInterval); err != nil {
			return fmt.Errorf("gripper: wait for %s: %w", what, err)
		}
	}
}
