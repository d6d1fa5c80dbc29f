// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package endpoint

import "errors"

var (
	// ErrEmptyIdentifier is returned if an endpoint identifier is empty.
	ErrEmptyIdentifier = errors.New("empty endpoint identifier")

	// ErrUnsupportedNetwork is returned if the endpoint kind is not available
	// on the running system.
	ErrUnsupportedNetwork = errors.New("unsupported endpoint network")

	// ErrInvalidPipeName is returned if a named pipe identifier contains a
	// path separator or volume name.
	ErrInvalidPipeName = errors.New("invalid pipe name")
)
