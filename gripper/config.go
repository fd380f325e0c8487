package gripper

import (
	"errors"
	"fmt"
	"time"

	"github.com/amzn/robotiq-gripper-interface/logger"
	"github.com/amzn/robotiq-gripper-interface/serialport"
)

// Connection defaults for a Robotiq gripper on an RS-485 to USB adapter.
const (
	DefaultPort       = "/dev/ttyUSB0"
	DefaultBaud       = 115200
	DefaultScaleAlpha = 1.0
	DefaultScaleBeta  = 0.0

	DefaultReceiveTimeout = 200 * time.Millisecond
	// DefaultSettleDelay is slept after a blocking activation completes;
	// the activation flag goes high before the fingers have stopped moving.
	DefaultSettleDelay = 2 * time.Second
)

const (
	MinReceiveTimeout = time.Millisecond
	MaxReceiveTimeout = time.Minute
	MaxSettleDelay    = time.Minute
)

// Framing selects how a response is delimited on the wire.
type Framing uint8

const (
	// FramingLineFeed appends '\n' to requests and reads responses up to '\n'.
	FramingLineFeed Framing = iota
	// FramingSilence sends bare MODBUS RTU frames and ends a response when
	// the line goes quiet for the receive timeout.
	FramingSilence
)

func (f Framing) String() string {
	switch f {
	case FramingLineFeed:
		return "LineFeed"
	case FramingSilence:
		return "Silence"
	default:
		return "Unknown"
	}
}

// Opener opens the transport for a device path and baud rate.
type Opener func(device string, baud int) (serialport.Port, error)

// Config holds the session settings. It is immutable once created; the
// receive timeout can later be changed on the Gripper with SetTimeout.
type Config struct {
	receiveTimeout   time.Duration
	pollInterval     time.Duration
	maxPollAttempts  int
	settleDelay      time.Duration
	framing          Framing
	responseCRCCheck bool
	opener           Opener
	logger           logger.Logger
}

// NewConfig creates a session configuration.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		receiveTimeout: DefaultReceiveTimeout,
		settleDelay:    DefaultSettleDelay,
		framing:        FramingLineFeed,
		logger:         logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.opener == nil {
		cfg.opener = serialOpener(cfg.logger)
	}

	return cfg, nil
}

func serialOpener(l logger.Logger) Opener {
	return func(device string, baud int) (serialport.Port, error) {
		pcfg, err := serialport.NewConfig(device, serialport.WithBaud(baud), serialport.WithLogger(l))
		if err != nil {
			return nil, err
		}

		return serialport.Open(pcfg)
	}
}

// ReceiveTimeout returns the initial per-byte response timeout.
func (cfg *Config) ReceiveTimeout() time.Duration { return cfg.receiveTimeout }

// PollInterval returns the delay between feedback polls in blocking waits.
func (cfg *Config) PollInterval() time.Duration { return cfg.pollInterval }

// MaxPollAttempts returns the poll cap of blocking waits; 0 means unbounded.
func (cfg *Config) MaxPollAttempts() int { return cfg.maxPollAttempts }

// SettleDelay returns the delay after a blocking activation.
func (cfg *Config) SettleDelay() time.Duration { return cfg.settleDelay }

// Framing returns the response framing.
func (cfg *Config) Framing() Framing { return cfg.framing }

// ResponseCRCCheck returns whether feedback response checksums are verified.
func (cfg *Config) ResponseCRCCheck() bool { return cfg.responseCRCCheck }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// Option is a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithReceiveTimeout sets how long to wait for each byte of a response.
func WithReceiveTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if err := validateReceiveTimeout(d); err != nil {
			return err
		}
		cfg.receiveTimeout = d

		return nil
	})
}

func validateReceiveTimeout(d time.Duration) error {
	if d < MinReceiveTimeout || d > MaxReceiveTimeout {
		return fmt.Errorf("gripper: receive timeout %v out of range [%v, %v]", d, MinReceiveTimeout, MaxReceiveTimeout)
	}

	return nil
}

// WithPollInterval sets the delay between feedback polls while waiting for
// a command to complete. The default of 0 polls back to back.
func WithPollInterval(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < 0 {
			return errors.New("gripper: poll interval must not be negative")
		}
		cfg.pollInterval = d

		return nil
	})
}

// WithMaxPollAttempts caps the number of feedback polls of a blocking wait.
// The default of 0 polls until the gripper reaches the expected state or
// the context ends.
func WithMaxPollAttempts(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < 0 {
			return errors.New("gripper: max poll attempts must not be negative")
		}
		cfg.maxPollAttempts = n

		return nil
	})
}

// WithSettleDelay sets the delay slept after a blocking activation.
func WithSettleDelay(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < 0 || d > MaxSettleDelay {
			return fmt.Errorf("gripper: settle delay %v out of range [0, %v]", d, MaxSettleDelay)
		}
		cfg.settleDelay = d

		return nil
	})
}

// WithFraming sets the response framing.
func WithFraming(f Framing) Option {
	return optFunc(func(cfg *Config) error {
		if f != FramingLineFeed && f != FramingSilence {
			return fmt.Errorf("gripper: unknown framing %d", f)
		}
		cfg.framing = f

		return nil
	})
}

// WithResponseCRCCheck enables checksum verification of feedback responses.
// Disabled by default.
func WithResponseCRCCheck(enabled bool) Option {
	return optFunc(func(cfg *Config) error {
		cfg.responseCRCCheck = enabled

		return nil
	})
}

// WithOpener replaces the function Connect uses to open the transport.
func WithOpener(fn Opener) Option {
	return optFunc(func(cfg *Config) error {
		if fn == nil {
			return errors.New("gripper: opener must not be nil")
		}
		cfg.opener = fn

		return nil
	})
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("gripper: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
