package serialport

import (
	"errors"
	"fmt"
	"time"

	"github.com/amzn/robotiq-gripper-interface/logger"
)

const (
	DefaultBaud         = 115200
	DefaultPollInterval = 100 * time.Millisecond

	// The serial driver times reads in tenths of a second.
	MinPollInterval = 100 * time.Millisecond
	MaxPollInterval = 2 * time.Second

	// Fixed line settings: 8 data bits, 1 stop bit, no parity.
	DataBits = 8
	StopBits = 1
)

// Config holds the settings used by Open.
type Config struct {
	device       string
	baud         int
	pollInterval time.Duration
	logger       logger.Logger
}

// NewConfig creates a serial port configuration for device, e.g.
// "/dev/ttyUSB0" or "COM3".
func NewConfig(device string, opts ...Option) (*Config, error) {
	if device == "" {
		return nil, errors.New("serialport: device must not be empty")
	}

	cfg := &Config{
		device:       device,
		baud:         DefaultBaud,
		pollInterval: DefaultPollInterval,
		logger:       logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Device returns the device path.
func (cfg *Config) Device() string { return cfg.device }

// Baud returns the baud rate.
func (cfg *Config) Baud() int { return cfg.baud }

// PollInterval returns the granularity at which read deadlines are checked.
func (cfg *Config) PollInterval() time.Duration { return cfg.pollInterval }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// Option is a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithBaud sets the baud rate.
func WithBaud(baud int) Option {
	return optFunc(func(cfg *Config) error {
		if baud <= 0 {
			return fmt.Errorf("serialport: baud rate %d must be positive", baud)
		}
		cfg.baud = baud

		return nil
	})
}

// WithPollInterval sets how long a single driver read may block before the
// read deadline is checked again. Reads may overrun their deadline by up to
// this amount.
func WithPollInterval(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < MinPollInterval || d > MaxPollInterval {
			return fmt.Errorf("serialport: poll interval %v out of range [%v, %v]", d, MinPollInterval, MaxPollInterval)
		}
		cfg.pollInterval = d

		return nil
	})
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("serialport: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
