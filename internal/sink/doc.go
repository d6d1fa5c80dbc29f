// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sink provides the append-only output file the captured console
// bytes are written into. Other processes may read the file while it is
// written, e.g. with "tail -f".
package sink
