// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package endpoint

import (
	"fmt"
	"strings"
)

// Network is the kind of an endpoint.
type Network string

const (
	NetworkUnix Network = "unix"
	NetworkTCP  Network = "tcp"
	NetworkPipe Network = "pipe"
)

const pipePrefix = `\\.\pipe\`

// Address is a parsed endpoint identifier.
type Address struct {
	Network Network
	Path    string
}

// String implements [fmt.Stringer].
func (a Address) String() string {
	return string(a.Network) + ":" + a.Path
}

// Parse parses an endpoint identifier.
//
// Accepted forms are "unix:PATH", "tcp:HOST:PORT", "pipe:NAME" and
// `\\.\pipe\NAME`. Any other identifier is a plain path to a unix socket, or
// a plain pipe name on Windows. Pipe names must not contain a backslash.
func Parse(identifier string) (Address, error) {
	if identifier == "" {
		return Address{}, ErrEmptyIdentifier
	}

	if strings.HasPrefix(identifier, pipePrefix) {
		return pipeAddress(strings.TrimPrefix(identifier, pipePrefix))
	}

	network, path, found := strings.Cut(identifier, ":")
	if !found || !knownNetwork(Network(network)) {
		return plainAddress(identifier)
	}

	if path == "" {
		return Address{}, fmt.Errorf("%s: %w", identifier, ErrEmptyIdentifier)
	}

	if Network(network) == NetworkPipe {
		return pipeAddress(path)
	}

	return Address{Network: Network(network), Path: path}, nil
}

func knownNetwork(network Network) bool {
	switch network {
	case NetworkUnix, NetworkTCP, NetworkPipe:
		return true
	default:
		return false
	}
}

func pipeAddress(name string) (Address, error) {
	if name == "" {
		return Address{}, fmt.Errorf("pipe: %w", ErrEmptyIdentifier)
	}

	if strings.Contains(name, `\`) {
		return Address{}, fmt.Errorf("pipe %q: %w", name, ErrInvalidPipeName)
	}

	return Address{Network: NetworkPipe, Path: pipePrefix + name}, nil
}

// plainAddress handles identifiers without network. Where named pipes are the
// default, a plain identifier is a pipe name only. Anything that looks like a
// file path is rejected.
func plainAddress(path string) (Address, error) {
	if defaultNetwork == NetworkPipe {
		if strings.ContainsAny(path, `\/:`) {
			return Address{}, fmt.Errorf("pipe %q: %w", path, ErrInvalidPipeName)
		}

		return pipeAddress(path)
	}

	return Address{Network: defaultNetwork, Path: path}, nil
}
