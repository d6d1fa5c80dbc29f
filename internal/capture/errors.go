// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTimeout is returned if a timeout of the [Config] is not
	// usable.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidBackoff is returned if the backoff interval is negative.
	ErrInvalidBackoff = errors.New("invalid backoff")

	// ErrAttemptsExhausted is returned if the endpoint could not be connected
	// within [Config.MaxAttempts] consecutive attempts.
	ErrAttemptsExhausted = errors.New("connection attempts exhausted")

	// ErrCancelled is returned if the loop terminated because its context was
	// cancelled. This is not a failure.
	ErrCancelled = errors.New("capture cancelled")
)

// SinkError wraps any error of the sink. Sink errors are fatal.
type SinkError struct {
	Op  string
	Err error
}

// Error implements the [error] interface.
func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s: %v", e.Op, e.Err)
}

// Is implements the [errors.Is] interface.
func (*SinkError) Is(other error) bool {
	_, ok := other.(*SinkError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *SinkError) Unwrap() error {
	return e.Err
}

// AttemptsError is returned once the maximum number of consecutive attempts
// failed. It wraps [ErrAttemptsExhausted] and the error of the last attempt.
type AttemptsError struct {
	Attempts uint64
	Last     error
}

// Error implements the [error] interface.
func (e *AttemptsError) Error() string {
	return fmt.Sprintf("%v after %d attempts: %v",
		ErrAttemptsExhausted, e.Attempts, e.Last)
}

// Is implements the [errors.Is] interface.
func (*AttemptsError) Is(other error) bool {
	_, ok := other.(*AttemptsError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *AttemptsError) Unwrap() []error {
	return []error{ErrAttemptsExhausted, e.Last}
}
