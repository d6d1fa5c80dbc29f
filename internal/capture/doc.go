// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package capture implements the serial console capture loop. It connects to
// a stream endpoint, copies everything received into a sink and reconnects
// once the endpoint goes away, e.g. because the VM rebooted.
//
// The loop is a finite state machine:
//
//	Idle -> Connecting -> Connected -> Disconnected -> Connecting ...
//
// Any state may transition into Terminated, which is reached when the number
// of consecutive failed attempts reaches [Config.MaxAttempts], the context is
// cancelled or the sink fails. On entering Terminated the endpoint handle is
// released and the sink is closed, both unconditionally.
//
// The first attempt after process start uses [Config.InitialTimeout]. Every
// later attempt uses the shorter [Config.ReconnectTimeout], as a rebooting VM
// reopens its endpoint quickly while a VM that shut down never will.
package capture
