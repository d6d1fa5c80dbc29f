// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pipe

import (
	"errors"
	"fmt"
)

// ErrNoOutput is reported if a connection did not output anything. It might
// be caused by a guest that does not write to the serial console at all.
var ErrNoOutput = errors.New("pipe did not output anything")

const (
	// OpRead is the [Error.Op] of errors of the source.
	OpRead = "read"
	// OpWrite is the [Error.Op] of errors of the destination.
	OpWrite = "write"
)

// Error wraps any error occurring during pipe processing.
type Error struct {
	Op  string
	Err error
}

// Error implements the [error] interface.
func (e *Error) Error() string {
	return fmt.Sprintf("pipe %s: %v", e.Op, e.Err.Error())
}

// Is implements the [errors.Is] interface.
func (*Error) Is(other error) bool {
	_, ok := other.(*Error)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *Error) Unwrap() error {
	return e.Err
}
