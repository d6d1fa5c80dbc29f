// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !unix

package sink

import "os"

func lock(*os.File) error {
	return nil
}
