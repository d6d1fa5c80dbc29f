// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/serialcap/internal/capture"
	"github.com/aibor/serialcap/internal/exitcode"
	"github.com/aibor/serialcap/internal/pipe"
)

func TestHandleParseArgsError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "help",
			err:      fmt.Errorf("parse args: %w", ErrHelp),
			expected: exitcode.OK,
		},
		{
			name:     "parse error",
			err:      fmt.Errorf("parse args: %w", &ParseArgsError{msg: "no endpoint given"}),
			expected: exitcode.Usage,
		},
		{
			name:     "local config",
			err:      errors.New("local config .serialcap-args: read file: permission denied"),
			expected: exitcode.Usage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, handleParseArgsError(tt.err))
		})
	}
}

func TestWithExitCode(t *testing.T) {
	sinkErr := &capture.SinkError{
		Op:  "write",
		Err: &pipe.Error{Op: pipe.OpWrite, Err: errors.New("no space left on device")},
	}

	cancelled := fmt.Errorf("%w: %w", capture.ErrCancelled, context.Canceled)

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil",
			expected: exitcode.OK,
		},
		{
			name:     "usage",
			err:      &ParseArgsError{msg: "endpoint", err: errors.New("unsupported")},
			expected: exitcode.Usage,
		},
		{
			name:     "sink failure",
			err:      sinkErr,
			expected: exitcode.SinkFailure,
		},
		{
			name:     "sink failure on cancel",
			err:      errors.Join(cancelled, sinkErr),
			expected: exitcode.SinkFailure,
		},
		{
			name:     "cancelled",
			err:      cancelled,
			expected: exitcode.Cancelled,
		},
		{
			name: "attempts exhausted",
			err: &capture.AttemptsError{
				Attempts: 3,
				Last:     context.DeadlineExceeded,
			},
			expected: exitcode.Failure,
		},
		{
			name:     "explicit exit code",
			err:      fmt.Errorf("wrapped: %w", exitcode.Error(42)),
			expected: 42,
		},
		{
			name:     "other",
			err:      errors.New("metrics listener: address in use"),
			expected: exitcode.Failure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := withExitCode(tt.err)

			code, isExitErr := exitcode.From(err)
			assert.Equal(t, tt.expected, code)
			assert.Equal(t, tt.err != nil, isExitErr)

			if tt.err != nil {
				require.ErrorIs(t, err, tt.err, "original error should be kept")
			}

			assert.Equal(t, tt.expected, handleRunError(err))
		})
	}
}

func TestHandleRunError_PlainError(t *testing.T) {
	assert.Equal(t, exitcode.Failure, handleRunError(assert.AnError))
}
