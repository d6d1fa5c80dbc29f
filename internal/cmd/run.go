// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/aibor/serialcap/internal/capture"
	"github.com/aibor/serialcap/internal/endpoint"
	"github.com/aibor/serialcap/internal/exitcode"
	"github.com/aibor/serialcap/internal/metrics"
	"github.com/aibor/serialcap/internal/sink"
)

const localConfigFile = ".serialcap-args"

// IO provides output details for the command.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

func newFlags(args []string, cfg IO) (*flags, error) {
	args, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	flags, err := parseArgs(args, cfg.Stderr)
	if err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	return flags, nil
}

func newSinkOpener(flags *flags) capture.SinkOpener {
	opts := sink.Options{
		NoSync: flags.NoSync,
	}

	return func() (capture.Sink, error) {
		file, err := sink.Open(flags.Capture.Output, opts)
		if err != nil {
			return nil, err
		}

		return file, nil
	}
}

func run(ctx context.Context, flags *flags) error {
	dialer, err := endpoint.NewDialer(flags.Capture.Endpoint)
	if err != nil {
		return &ParseArgsError{msg: "endpoint", err: err}
	}

	slog.Info("Starting capture",
		slog.Int("pid", os.Getpid()),
		slog.String("version", version()),
		slog.Any("config", flags.Capture),
		slog.Bool("no_sync", flags.NoSync),
	)

	var (
		opts     []capture.Option
		registry *prometheus.Registry
	)

	if flags.MetricsAddr != "" {
		registry = prometheus.NewRegistry()

		observer, err := metrics.New(registry)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}

		opts = append(opts, capture.WithObserver(observer))
	}

	loop, err := capture.New(flags.Capture, dialer, newSinkOpener(flags), opts...)
	if err != nil {
		return &ParseArgsError{msg: "capture", err: err}
	}

	group, ctx := errgroup.WithContext(ctx)

	// The metrics server lives as long as the loop.
	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	if registry != nil {
		var listenConfig net.ListenConfig

		listener, err := listenConfig.Listen(ctx, "tcp", flags.MetricsAddr)
		if err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}

		slog.Info("Serving metrics",
			slog.String("address", listener.Addr().String()))

		group.Go(func() error {
			return metrics.NewServer(registry).Serve(serverCtx, listener)
		})
	}

	group.Go(func() error {
		defer stopServer()
		return loop.Run(ctx)
	})

	return group.Wait() //nolint:wrapcheck
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return exitcode.OK
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return exitcode.Usage
}

// withExitCode annotates a run error with the process exit code it results in.
// Errors that already carry an [exitcode.Error] are returned unchanged.
func withExitCode(err error) error {
	var code exitcode.Error

	switch {
	case err == nil, errors.Is(err, exitcode.Error(0)):
		return err
	case errors.Is(err, &ParseArgsError{}):
		code = exitcode.Usage
	case errors.Is(err, &capture.SinkError{}):
		code = exitcode.SinkFailure
	case errors.Is(err, capture.ErrCancelled):
		code = exitcode.Cancelled
	default:
		code = exitcode.Failure
	}

	return fmt.Errorf("%w: %w", code, err)
}

func exitStatus(code int) string {
	switch code {
	case exitcode.OK:
		return "completed"
	case exitcode.Usage:
		return "usage error"
	case exitcode.SinkFailure:
		return "sink failure"
	case exitcode.Cancelled:
		return "cancelled"
	default:
		return "failure"
	}
}

func handleRunError(err error) int {
	code, _ := exitcode.From(err)
	status := exitStatus(code)

	switch {
	case code == exitcode.OK:
		slog.Info("Capture terminated", slog.String("status", status))
	case code == exitcode.Cancelled:
		slog.Info("Capture terminated",
			slog.String("status", status),
			slog.String("cause", err.Error()),
		)
	case errors.Is(err, capture.ErrAttemptsExhausted):
		slog.Error("Capture terminated",
			slog.String("status", "endpoint unavailable"),
			slog.Int("exit_code", code),
			slog.Any("error", err),
		)
	default:
		slog.Error("Capture terminated",
			slog.String("status", status),
			slog.Int("exit_code", code),
			slog.Any("error", err),
		)
	}

	return code
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, slog.LevelInfo)

	flags, err := newFlags(args, cfg)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.logLevel())

	if flags.Version {
		buildInfo, err := getBuildInfo()
		if err != nil {
			slog.Error(err.Error())
			return exitcode.Failure
		}

		fmt.Fprintf(cfg.Stdout, "Version: %s\n", buildInfo.Main.Version)

		return exitcode.OK
	}

	return handleRunError(withExitCode(run(ctx, flags)))
}

func getBuildInfo() (*debug.BuildInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrReadBuildInfo
	}

	return buildInfo, nil
}

func version() string {
	buildInfo, err := getBuildInfo()
	if err != nil {
		return "unknown"
	}

	return buildInfo.Main.Version
}
