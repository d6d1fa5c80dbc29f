// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sink

import "errors"

var (
	// ErrLocked is returned if the file is already owned by another capture
	// process.
	ErrLocked = errors.New("file locked by another process")

	// ErrNotRegularFile is returned if the path exists but is not a regular
	// file.
	ErrNotRegularFile = errors.New("not a regular file")
)
