// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build windows

package endpoint

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
)

const defaultNetwork = NetworkPipe

func checkSupported(Network) error {
	return nil
}

func dial(ctx context.Context, addr Address) (net.Conn, error) {
	if addr.Network == NetworkPipe {
		return winio.DialPipeContext(ctx, addr.Path) //nolint:wrapcheck
	}

	var dialer net.Dialer

	return dialer.DialContext(ctx, string(addr.Network), addr.Path) //nolint:wrapcheck
}
