// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd provides a CLI command entry point for serialcap. It handles flag
// parsing, error handling, and output handling.
package cmd
