// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"flag"
	"fmt"
)

var (
	// ErrHelp is returned when help is requested.
	ErrHelp = flag.ErrHelp

	// ErrReadBuildInfo is returned if the build info of the binary could not
	// be read.
	ErrReadBuildInfo = errors.New("failed to read build info")

	// ErrEmptyFilePath is returned if a file path is empty.
	ErrEmptyFilePath = errors.New("file path must not be empty")
)

// ParseArgsError wraps errors that occur during argument parsing.
type ParseArgsError struct {
	err error
	msg string
}

func (e *ParseArgsError) Error() string {
	if e.err == nil {
		return e.msg
	}

	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (*ParseArgsError) Is(other error) bool {
	_, ok := other.(*ParseArgsError)
	return ok
}

func (e *ParseArgsError) Unwrap() error {
	return e.err
}
