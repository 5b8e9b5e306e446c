package shdlc

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-shdlc/logger"
)

// Default transport parameters.
//
// The read timeout default matches the slowest documented command response
// time of the SFC5xxx/SFC6xxx families; per-command policies can override it.
const (
	DefaultReadTimeout    = 600 * time.Millisecond // per-attempt response deadline
	DefaultPollInterval   = 20 * time.Millisecond  // port read slice while waiting
	DefaultRetryLimit     = 2                      // additional attempts after the first
	DefaultBusyRetryDelay = 100 * time.Millisecond // wait before retrying a busy device
)

// Parameter range limits.
const (
	MinReadTimeout = 10 * time.Millisecond
	MaxReadTimeout = 60 * time.Second

	MinPollInterval = time.Millisecond
	MaxPollInterval = time.Second

	MaxRetryLimit = 31

	MaxBusyRetryDelay = 5 * time.Second
)

// TransportConfig holds all configuration for a Transport.
type TransportConfig struct {
	// readTimeout is the default per-attempt deadline for a response frame.
	readTimeout time.Duration

	// pollInterval is the read-timeout slice applied to each physical port
	// read while waiting for a response. It bounds how late past a deadline
	// a blocked read can return.
	pollInterval time.Duration

	// retryLimit is the default number of additional attempts after the
	// first one fails with a retryable error.
	retryLimit int

	// busyRetryDelay is how long to wait before retrying an attempt that
	// was answered with a busy status. Other retryable failures retry
	// immediately since their attempt already consumed the read timeout.
	busyRetryDelay time.Duration

	logger logger.Logger
}

// NewTransportConfig creates a transport configuration with the given
// functional options applied in order.
func NewTransportConfig(opts ...TransportOption) (*TransportConfig, error) {
	cfg := &TransportConfig{
		readTimeout:    DefaultReadTimeout,
		pollInterval:   DefaultPollInterval,
		retryLimit:     DefaultRetryLimit,
		busyRetryDelay: DefaultBusyRetryDelay,
		logger:         logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ReadTimeout returns the default per-attempt response deadline.
func (cfg *TransportConfig) ReadTimeout() time.Duration { return cfg.readTimeout }

// PollInterval returns the port read slice used while waiting for a response.
func (cfg *TransportConfig) PollInterval() time.Duration { return cfg.pollInterval }

// RetryLimit returns the default number of retries after a failed attempt.
func (cfg *TransportConfig) RetryLimit() int { return cfg.retryLimit }

// BusyRetryDelay returns the wait applied before retrying a busy device.
func (cfg *TransportConfig) BusyRetryDelay() time.Duration { return cfg.busyRetryDelay }

// GetLogger returns the configured logger.
func (cfg *TransportConfig) GetLogger() logger.Logger { return cfg.logger }

// --- TransportOption ---

// TransportOption is a functional option for configuring a TransportConfig.
type TransportOption interface {
	apply(*TransportConfig) error
}

type transportOptFunc func(*TransportConfig) error

func (f transportOptFunc) apply(cfg *TransportConfig) error { return f(cfg) }

// WithReadTimeout sets the default per-attempt response deadline.
func WithReadTimeout(d time.Duration) TransportOption {
	return transportOptFunc(func(cfg *TransportConfig) error {
		if d < MinReadTimeout || d > MaxReadTimeout {
			return fmt.Errorf("shdlc: read timeout %v out of range [%v, %v]", d, MinReadTimeout, MaxReadTimeout)
		}
		cfg.readTimeout = d

		return nil
	})
}

// WithPollInterval sets the port read slice used while waiting for a response.
func WithPollInterval(d time.Duration) TransportOption {
	return transportOptFunc(func(cfg *TransportConfig) error {
		if d < MinPollInterval || d > MaxPollInterval {
			return fmt.Errorf("shdlc: poll interval %v out of range [%v, %v]", d, MinPollInterval, MaxPollInterval)
		}
		cfg.pollInterval = d

		return nil
	})
}

// WithRetryLimit sets the default number of retries after a failed attempt.
func WithRetryLimit(n int) TransportOption {
	return transportOptFunc(func(cfg *TransportConfig) error {
		if n < 0 || n > MaxRetryLimit {
			return fmt.Errorf("shdlc: retry limit %d out of range [0, %d]", n, MaxRetryLimit)
		}
		cfg.retryLimit = n

		return nil
	})
}

// WithBusyRetryDelay sets the wait applied before retrying an attempt that
// a device answered with a busy status.
func WithBusyRetryDelay(d time.Duration) TransportOption {
	return transportOptFunc(func(cfg *TransportConfig) error {
		if d < 0 || d > MaxBusyRetryDelay {
			return fmt.Errorf("shdlc: busy retry delay %v out of range [0, %v]", d, MaxBusyRetryDelay)
		}
		cfg.busyRetryDelay = d

		return nil
	})
}

// WithLogger sets the logger for the transport.
func WithLogger(l logger.Logger) TransportOption {
	return transportOptFunc(func(cfg *TransportConfig) error {
		if l == nil {
			return errors.New("shdlc: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
