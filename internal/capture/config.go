// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capture

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultInitialTimeout   = 60 * time.Second
	DefaultReconnectTimeout = 15 * time.Second
	DefaultBackoff          = time.Second
)

// Config is the set of parameters of a capture [Loop].
type Config struct {
	// Endpoint identifies the endpoint. It is used for diagnostics only,
	// connecting is up to the [Dialer].
	Endpoint string

	// Output is the path of the sink. It is used for diagnostics only, opening
	// is up to the [SinkOpener].
	Output string

	// InitialTimeout is the maximum wait for the first connection attempt.
	InitialTimeout time.Duration

	// ReconnectTimeout is the maximum wait for any attempt after the first
	// one. Must not be greater than InitialTimeout.
	ReconnectTimeout time.Duration

	// Backoff is the fixed interval to sleep between failed attempts.
	Backoff time.Duration

	// MaxAttempts is the number of consecutive failed attempts after which
	// the loop terminates. Zero means unbounded.
	MaxAttempts uint64
}

// DefaultConfig returns a [Config] with all defaults set.
func DefaultConfig() Config {
	return Config{
		InitialTimeout:   DefaultInitialTimeout,
		ReconnectTimeout: DefaultReconnectTimeout,
		Backoff:          DefaultBackoff,
	}
}

// Validate checks the config for consistency.
func (c Config) Validate() error {
	if c.InitialTimeout <= 0 {
		return fmt.Errorf("initial timeout %s: %w", c.InitialTimeout, ErrInvalidTimeout)
	}

	if c.ReconnectTimeout <= 0 {
		return fmt.Errorf("reconnect timeout %s: %w", c.ReconnectTimeout, ErrInvalidTimeout)
	}

	if c.ReconnectTimeout > c.InitialTimeout {
		return fmt.Errorf("reconnect timeout %s > initial timeout %s: %w",
			c.ReconnectTimeout, c.InitialTimeout, ErrInvalidTimeout)
	}

	if c.Backoff < 0 {
		return fmt.Errorf("backoff %s: %w", c.Backoff, ErrInvalidBackoff)
	}

	return nil
}

// LogValue implements [slog.LogValuer].
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endpoint", c.Endpoint),
		slog.String("output", c.Output),
		slog.Duration("initial_timeout", c.InitialTimeout),
		slog.Duration("reconnect_timeout", c.ReconnectTimeout),
		slog.Duration("backoff", c.Backoff),
		slog.Uint64("max_attempts", c.MaxAttempts),
	)
}

// timeout returns the timeout for the next connection attempt.
func (c Config) timeout(reconnect bool) time.Duration {
	if reconnect {
		return c.ReconnectTimeout
	}

	return c.InitialTimeout
}
