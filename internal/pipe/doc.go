// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pipe provides the transport of raw console bytes from an endpoint
// into a sink. Bytes are forwarded as received without any interpretation.
package pipe
