// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capture

import (
	"log/slog"
	"strconv"
	"time"
)

// State is a state of the capture [Loop].
type State int

const (
	Idle State = iota
	Connecting
	Connected
	Disconnected
	Terminated
)

var stateNames = [...]string{
	Idle:         "idle",
	Connecting:   "connecting",
	Connected:    "connected",
	Disconnected: "disconnected",
	Terminated:   "terminated",
}

// String implements [fmt.Stringer].
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "state(" + strconv.Itoa(int(s)) + ")"
	}

	return stateNames[s]
}

// Outcome is the result of a single connection [Attempt].
type Outcome int

const (
	Succeeded Outcome = iota
	TimedOut
	Errored
)

// String implements [fmt.Stringer].
func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case TimedOut:
		return "timed out"
	case Errored:
		return "errored"
	default:
		return "outcome(" + strconv.Itoa(int(o)) + ")"
	}
}

// Attempt is a single, timed effort to connect the endpoint.
type Attempt struct {
	// Ordinal is the 1-based index of the attempt within the current failure
	// run.
	Ordinal uint64

	// Timeout is the maximum wait that applied to the attempt.
	Timeout time.Duration

	// Reconnect is set if the reconnect timeout applied.
	Reconnect bool

	Outcome Outcome
	Err     error
}

// LogValue implements [slog.LogValuer].
func (a Attempt) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Uint64("attempt", a.Ordinal),
		slog.Duration("timeout", a.Timeout),
		slog.Bool("reconnect", a.Reconnect),
		slog.String("outcome", a.Outcome.String()),
	}

	if a.Err != nil {
		attrs = append(attrs, slog.Any("error", a.Err))
	}

	return slog.GroupValue(attrs...)
}

// Session is the mutable state record of a [Loop]. It is only ever mutated by
// the loop itself.
type Session struct {
	// Attempts is the number of consecutive failed attempts. It is reset to
	// zero on every successful connection.
	Attempts uint64

	// Reconnect is set after the first failed attempt or disconnect. Once set,
	// all attempts use the reconnect timeout.
	Reconnect bool

	// Terminated is set once the loop entered its terminal state.
	Terminated bool

	// Connections is the number of successful connections.
	Connections uint64

	// BytesWritten is the total number of bytes written into the sink across
	// all connections.
	BytesWritten int64
}
