// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package endpoint provides dialers for stream endpoints that expose a VM's
// serial console.
//
// QEMU exposes serial consoles as unix or tcp socket chardevs, e.g.
// "-serial unix:/run/vm.sock,server=on,wait=off". Hyper-V exposes COM ports as
// named pipes, e.g. "\\.\pipe\vm-com1". Named pipes are only supported on
// Windows.
package endpoint
