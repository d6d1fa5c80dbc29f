// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !windows

package endpoint

import (
	"context"
	"net"
)

const defaultNetwork = NetworkUnix

func checkSupported(network Network) error {
	if network == NetworkPipe {
		return ErrUnsupportedNetwork
	}

	return nil
}

func dial(ctx context.Context, addr Address) (net.Conn, error) {
	err := checkSupported(addr.Network)
	if err != nil {
		return nil, err
	}

	var dialer net.Dialer

	return dialer.DialContext(ctx, string(addr.Network), addr.Path) //nolint:wrapcheck
}
