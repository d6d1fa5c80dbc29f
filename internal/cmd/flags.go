// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/aibor/serialcap/internal/capture"
)

type flags struct {
	Capture     capture.Config
	NoSync      bool
	MetricsAddr string
	Debug       bool
	Version     bool

	flagSet *flag.FlagSet
}

func newFlagSet(name string, f *flags, output io.Writer) *flag.FlagSet {
	fsName := name + " [flags...] endpoint output"
	fs := flag.NewFlagSet(fsName, flag.ContinueOnError)
	fs.SetOutput(output)

	fs.DurationVar(
		&f.Capture.InitialTimeout,
		"initialTimeout",
		f.Capture.InitialTimeout,
		"maximum wait for the first connection attempt after start",
	)

	fs.DurationVar(
		&f.Capture.ReconnectTimeout,
		"reconnectTimeout",
		f.Capture.ReconnectTimeout,
		"maximum wait for any further connection attempt",
	)

	fs.DurationVar(
		&f.Capture.Backoff,
		"backoff",
		f.Capture.Backoff,
		"sleep between failed connection attempts",
	)

	fs.Uint64Var(
		&f.Capture.MaxAttempts,
		"maxAttempts",
		f.Capture.MaxAttempts,
		"consecutive failed attempts before giving up, 0 for unbounded",
	)

	fs.BoolVar(
		&f.NoSync,
		"noSync",
		f.NoSync,
		"do not sync the output file after every write",
	)

	fs.StringVar(
		&f.MetricsAddr,
		"metricsAddr",
		f.MetricsAddr,
		"serve Prometheus metrics on this address, e.g. localhost:9090",
	)

	fs.BoolVar(
		&f.Debug,
		"debug",
		f.Debug,
		"enable debug output",
	)

	fs.BoolVar(
		&f.Version,
		"version",
		f.Version,
		"show version and exit",
	)

	return fs
}

func parseArgs(args []string, output io.Writer) (*flags, error) {
	f := &flags{
		Capture: capture.DefaultConfig(),
	}

	f.flagSet = newFlagSet("serialcap", f, output)

	// Parses arguments up to the first one that is not prefixed with a "-" or
	// is "--".
	err := f.flagSet.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, ErrHelp
		}

		return nil, &ParseArgsError{msg: "flag parse", err: err}
	}

	if f.Version {
		return f, nil
	}

	positionalArgs := f.flagSet.Args()

	switch len(positionalArgs) {
	case 0:
		return nil, f.fail("no endpoint given", nil)
	case 1:
		return nil, f.fail("no output file given", nil)
	case 2:
	default:
		return nil, f.fail(
			fmt.Sprintf("unexpected arguments: %q", positionalArgs[2:]),
			nil,
		)
	}

	f.Capture.Endpoint = positionalArgs[0]

	f.Capture.Output, err = AbsoluteFilePath(positionalArgs[1])
	if err != nil {
		return nil, f.fail("output path", err)
	}

	err = f.Capture.Validate()
	if err != nil {
		return nil, f.fail("invalid parameters", err)
	}

	return f, nil
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) logLevel() slog.Level {
	if f.Debug {
		return slog.LevelDebug
	}

	return slog.LevelInfo
}
