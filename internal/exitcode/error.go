// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package exitcode

import (
	"errors"
	"fmt"
)

// Exit codes of the capture process.
const (
	// OK is returned if no error occurred, e.g. if help was requested.
	OK = 0
	// Failure is returned if the endpoint could not be connected within the
	// maximum number of attempts or on any unexpected error.
	Failure = 1
	// SinkFailure is returned if the output file could not be opened or
	// written.
	SinkFailure = 2
	// Usage is returned on invalid arguments.
	Usage = 3
	// Cancelled is returned if the capture was terminated by a signal. It
	// follows the shell convention of 128 + SIGINT.
	Cancelled = 130
)

// Error is an exit code that is considered an error.
type Error int

func (e Error) Error() string {
	return fmt.Sprintf("non-zero exit code: %d", e)
}

func (Error) Is(other error) bool {
	_, ok := other.(Error)
	return ok
}

// Code returns the exit code as basic int type.
func (e Error) Code() int {
	return int(e)
}

// From returns an exit code based on the given error and if the error was an
// [Error].
//
// If the error is nil, the exit code is [OK]. If the error is an [Error] the
// exit code is the return value of [Error.Code]. Otherwise the exit code is
// [Failure].
func From(err error) (int, bool) {
	if err == nil {
		return OK, false
	}

	var exitErr Error
	if errors.As(err, &exitErr) {
		return exitErr.Code(), true
	}

	return Failure, false
}
