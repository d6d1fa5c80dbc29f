// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/serialcap/internal/cmd"
)

func TestAbsoluteFilePath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name        string
		path        string
		expected    string
		expectedErr error
	}{
		{
			name:        "empty",
			expectedErr: cmd.ErrEmptyFilePath,
		},
		{
			name:     "absolute",
			path:     "/var/log/vm.log",
			expected: "/var/log/vm.log",
		},
		{
			name:     "relative",
			path:     "logs/../vm.log",
			expected: filepath.Join(wd, "vm.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := cmd.AbsoluteFilePath(tt.path)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, actual)
		})
	}
}
