// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package endpoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// DefaultPollInterval is the interval in which a [Dialer] retries to connect
// an endpoint that is not available yet.
const DefaultPollInterval = 100 * time.Millisecond

// Dialer connects an [Address].
//
// A hypervisor usually creates the endpoint only once the VM starts, so
// connecting fails until then. The dialer keeps retrying within the deadline
// of the context it is called with.
type Dialer struct {
	Address      Address
	PollInterval time.Duration
}

// NewDialer creates a new [Dialer] for the given endpoint identifier.
func NewDialer(identifier string) (*Dialer, error) {
	addr, err := Parse(identifier)
	if err != nil {
		return nil, err
	}

	err = checkSupported(addr.Network)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", addr, err)
	}

	return &Dialer{
		Address:      addr,
		PollInterval: DefaultPollInterval,
	}, nil
}

// Dial connects the endpoint. It blocks until the endpoint is connected or the
// context is done. Every call returns a new connection. The caller must close
// it.
func (d *Dialer) Dial(ctx context.Context) (io.ReadCloser, error) {
	interval := d.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		conn, err := dial(ctx, d.Address)
		if err == nil {
			return conn, nil
		}

		if errors.Is(err, ErrUnsupportedNetwork) {
			return nil, err
		}

		slog.Debug("Endpoint not available",
			slog.String("endpoint", d.Address.String()),
			slog.Any("error", err))

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("dial %s: %w", d.Address, errors.Join(ctx.Err(), err))
		case <-ticker.C:
		}
	}
}
